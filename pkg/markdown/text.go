package markdown

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Style paints the pieces of a terminal rendering. Nil painters leave
// text untouched, so the zero Style yields plain text.
type Style struct {
	Heading    func(level int, s string) string
	Bullet     func(s string) string
	Quote      func(s string) string
	CodeFrame  func(s string) string
	Code       func(s string) string
	InlineCode func(s string) string
	Bold       func(s string) string
	Italic     func(s string) string
	Link       func(s string) string
	// Width wraps prose at this many cells. Zero disables wrapping.
	Width int
}

func paint(fn func(string) string, s string) string {
	if fn == nil {
		return s
	}
	return fn(s)
}

type textInline struct{ st Style }

func (textInline) Escape(s string) string { return s }

func (t textInline) Code(s string) string   { return paint(t.st.InlineCode, s) }
func (t textInline) Bold(s string) string   { return paint(t.st.Bold, s) }
func (t textInline) Italic(s string) string { return paint(t.st.Italic, s) }

func (t textInline) Link(text, href string) string {
	if href == "" {
		return text
	}
	return paint(t.st.Link, text) + " (" + href + ")"
}

// Text renders src for a terminal.
func Text(src string, st Style) string {
	in := func(s string) string { return Inline(s, textInline{st: st}) }
	var out []string
	for _, blk := range Parse(src) {
		switch blk.Kind {
		case Heading:
			line := headingIcons[blk.Level-1] + " " + in(blk.Text)
			if st.Heading != nil {
				line = st.Heading(blk.Level, line)
			}
			out = append(out, wrap(line, st.Width, 0))
		case ListItem:
			out = append(out, wrap(paint(st.Bullet, "  •")+" "+in(blk.Text), st.Width, 4))
		case OrderedItem:
			out = append(out, wrap(paint(st.Bullet, "  "+blk.Number+".")+" "+in(blk.Text), st.Width, len(blk.Number)+4))
		case Quote:
			out = append(out, wrap(paint(st.Quote, "  │ "+in(blk.Text)), st.Width, 4))
		case Spacer:
			out = append(out, "")
		case CodeStart:
			label := "╭─ code"
			if blk.Lang != "" {
				label += " (" + blk.Lang + ")"
			}
			out = append(out, paint(st.CodeFrame, label))
		case CodeLine:
			out = append(out, paint(st.CodeFrame, "│ ")+paint(st.Code, blk.Text))
		case CodeEnd:
			out = append(out, paint(st.CodeFrame, "╰─"))
		default:
			out = append(out, wrap(in(blk.Text), st.Width, 0))
		}
	}
	return strings.Join(out, "\n")
}

// wrap folds s at width and indents continuation lines by hang cells.
func wrap(s string, width, hang int) string {
	if width <= 0 || width <= hang+1 {
		return s
	}
	lines := strings.Split(wordwrap.String(s, width), "\n")
	if len(lines) == 1 || hang == 0 {
		return strings.Join(lines, "\n")
	}
	rest := wordwrap.String(strings.Join(lines[1:], " "), width-hang)
	return lines[0] + "\n" + indent.String(rest, uint(hang))
}
