// Package printers turns terminal blocks into text for terminals and
// HTML for the browser.
package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"

	"tableflip.dev/termblog/pkg/markdown"
	"tableflip.dev/termblog/pkg/terminal"
)

// Palette colors terminal output. Nil fields leave text as is, so the zero
// Palette prints plain text.
type Palette struct {
	Line     func(kind terminal.Kind, s string) string
	Title    func(s string) string
	Header   func(s string) string
	Faint    func(s string) string
	Markdown markdown.Style
}

func apply(fn func(string) string, s string) string {
	if fn == nil {
		return s
	}
	return fn(s)
}

// Text renders blocks for a character terminal.
type Text struct {
	Palette Palette
	// Width bounds tables and wraps articles. Zero means unbounded.
	Width int
}

// Render returns the blocks as newline separated text. Blocks that only
// carry state for a front end (clear, theme, effects) print nothing.
func (t *Text) Render(blocks ...terminal.Block) string {
	var out []string
	for _, b := range blocks {
		if s, ok := t.block(b); ok {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// Fprint writes the rendered blocks followed by a newline when there is
// anything to write.
func (t *Text) Fprint(w io.Writer, blocks ...terminal.Block) error {
	s := t.Render(blocks...)
	if s == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, s)
	return err
}

func (t *Text) block(b terminal.Block) (string, bool) {
	switch b := b.(type) {
	case terminal.Line:
		return t.line(b.Kind, b.Text), true
	case terminal.Table:
		return t.table(b), true
	case terminal.Article:
		st := t.Palette.Markdown
		st.Width = t.Width
		return markdown.Text(b.Source, st), true
	}
	return "", false
}

func (t *Text) line(kind terminal.Kind, s string) string {
	if t.Palette.Line == nil {
		return s
	}
	return t.Palette.Line(kind, s)
}

// uitable measures escape codes as text, so lines are painted after the
// table is laid out. Cells longer than half the width are truncated.
func (t *Text) table(tbl terminal.Table) string {
	var out []string
	if tbl.Title != "" {
		out = append(out, apply(t.Palette.Title, tbl.Title))
	}

	ut := uitable.New()
	ut.Separator = "  "
	if t.Width > 0 {
		ut.MaxColWidth = uint(t.Width / 2)
	}
	if len(tbl.Header) > 0 {
		ut.AddRow(cells(tbl.Header)...)
	}
	for _, r := range tbl.Rows {
		ut.AddRow(cells(r.Cells)...)
	}
	if len(tbl.Header) > 0 || len(tbl.Rows) > 0 {
		lines := strings.Split(ut.String(), "\n")
		for i, l := range lines {
			l = "  " + strings.TrimRight(l, " ")
			if i == 0 && len(tbl.Header) > 0 {
				out = append(out, apply(t.Palette.Header, l))
				continue
			}
			out = append(out, t.line(terminal.KindInfo, l))
		}
	}

	if tbl.Footer != "" {
		out = append(out, apply(t.Palette.Faint, tbl.Footer))
	}
	return strings.Join(out, "\n")
}

func cells(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, c := range in {
		out[i] = c
	}
	return out
}
