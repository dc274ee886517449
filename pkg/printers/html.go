package printers

import (
	"html"
	"strings"

	"tableflip.dev/termblog/pkg/markdown"
	"tableflip.dev/termblog/pkg/terminal"
)

// HTML renders blocks as fragments for the browser terminal. Every piece
// of text is escaped. Rows with an action carry it in data-command; the
// page binds clicks by delegation and never evaluates markup.
func HTML(blocks ...terminal.Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		switch blk := blk.(type) {
		case terminal.Line:
			writeLine(&b, blk)
		case terminal.Table:
			writeTable(&b, blk)
		case terminal.Article:
			b.WriteString(`<div class="article" data-name="`)
			b.WriteString(html.EscapeString(blk.Name))
			b.WriteString(`">`)
			b.WriteString(markdown.HTML(blk.Source))
			b.WriteString("</div>\n")
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, l terminal.Line) {
	b.WriteString(`<div class="output-line `)
	b.WriteString(html.EscapeString(string(l.Kind)))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(l.Text))
	b.WriteString("</div>\n")
}

func writeTable(b *strings.Builder, t terminal.Table) {
	b.WriteString(`<div class="help-list">`)
	if t.Title != "" {
		b.WriteString(`<div class="help-title">`)
		b.WriteString(html.EscapeString(t.Title))
		b.WriteString(`</div>`)
	}
	b.WriteString(`<table class="command-table">`)
	if len(t.Header) > 0 {
		b.WriteString("<thead><tr>")
		for _, h := range t.Header {
			b.WriteString("<th>" + html.EscapeString(h) + "</th>")
		}
		b.WriteString("</tr></thead>")
	}
	b.WriteString("<tbody>")
	for _, r := range t.Rows {
		if r.Action != "" {
			b.WriteString(`<tr class="command-row clickable" data-command="`)
			b.WriteString(html.EscapeString(r.Action))
			b.WriteString(`">`)
		} else {
			b.WriteString(`<tr class="command-row">`)
		}
		for _, c := range r.Cells {
			b.WriteString("<td>" + html.EscapeString(c) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	if t.Footer != "" {
		b.WriteString(`<div class="help-footer">`)
		b.WriteString(html.EscapeString(t.Footer))
		b.WriteString(`</div>`)
	}
	b.WriteString("</div>\n")
}
