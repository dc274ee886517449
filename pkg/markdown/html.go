package markdown

import (
	"fmt"
	"html"
	"strings"
)

var headingIcons = [...]string{"📖", "📝", "🔹", "▪️"}

type htmlInline struct{}

func (htmlInline) Escape(s string) string { return html.EscapeString(s) }

func (htmlInline) Code(s string) string {
	return `<span class="inline-code">` + s + `</span>`
}

func (htmlInline) Bold(s string) string {
	return `<strong class="markdown-bold">` + s + `</strong>`
}

func (htmlInline) Italic(s string) string {
	return `<em class="markdown-italic">` + s + `</em>`
}

func (htmlInline) Link(text, href string) string {
	if href == "" {
		return text
	}
	return `<a href="` + href + `" class="markdown-link" target="_blank" rel="noopener noreferrer">🔗 ` + text + `</a>`
}

// HTML renders src to an HTML fragment. Every piece of source text is
// escaped, and code lines are never inline processed.
func HTML(src string) string {
	var b strings.Builder
	b.WriteString(`<div class="article-content">`)
	for _, blk := range Parse(src) {
		b.WriteString("\n")
		b.WriteString(htmlBlock(blk))
	}
	b.WriteString("\n</div>")
	return b.String()
}

func htmlBlock(blk Block) string {
	in := func(s string) string { return Inline(s, htmlInline{}) }
	switch blk.Kind {
	case Heading:
		return fmt.Sprintf(`<h%d class="markdown-h%d">%s %s</h%d>`,
			blk.Level, blk.Level, headingIcons[blk.Level-1], in(blk.Text), blk.Level)
	case ListItem:
		return `<div class="markdown-list-item">🔸 ` + in(blk.Text) + `</div>`
	case OrderedItem:
		return `<div class="markdown-ordered-item">📌 ` + blk.Number + `. ` + in(blk.Text) + `</div>`
	case Quote:
		return `<div class="markdown-quote">💬 ` + in(blk.Text) + `</div>`
	case Spacer:
		return `<div class="markdown-spacer"></div>`
	case CodeStart:
		label := "💻 code block"
		if blk.Lang != "" {
			label += " (" + html.EscapeString(blk.Lang) + ")"
		}
		return `<div class="code-block-start">` + label + `</div>`
	case CodeLine:
		return `<div class="code-line">` + html.EscapeString(blk.Text) + `</div>`
	case CodeEnd:
		return `<div class="code-block-end">📋 end of code block</div>`
	default:
		return `<div class="markdown-paragraph">` + in(blk.Text) + `</div>`
	}
}
