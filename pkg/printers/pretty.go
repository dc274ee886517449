package printers

import (
	"github.com/fatih/color"

	"tableflip.dev/termblog/pkg/markdown"
	"tableflip.dev/termblog/pkg/terminal"
)

var kindColors = map[terminal.Kind]*color.Color{
	terminal.KindPrompt:    color.New(color.FgGreen, color.Bold),
	terminal.KindInfo:      color.New(color.FgCyan),
	terminal.KindSuccess:   color.New(color.FgGreen),
	terminal.KindWarning:   color.New(color.FgYellow),
	terminal.KindError:     color.New(color.FgRed),
	terminal.KindFile:      color.New(color.FgHiWhite),
	terminal.KindDirectory: color.New(color.FgBlue, color.Bold),
	terminal.KindGray:      color.New(color.Faint),
	terminal.KindMatrix:    color.New(color.FgHiGreen),
	terminal.KindBanner:    color.New(color.FgGreen, color.Bold),
}

// Pretty colors output with ANSI escapes for the one-shot CLI. Setting
// color.NoColor turns it into plain text.
func Pretty() Palette {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint, color.Italic)
	header := color.New(color.Bold)
	code := color.New(color.FgYellow)

	return Palette{
		Line: func(kind terminal.Kind, s string) string {
			if c, ok := kindColors[kind]; ok {
				return c.Sprint(s)
			}
			return s
		},
		Title:  sprint(title),
		Header: sprint(header),
		Faint:  sprint(faint),
		Markdown: markdown.Style{
			Heading: func(level int, s string) string {
				if level == 1 {
					return title.Sprint(s)
				}
				return header.Sprint(s)
			},
			Bullet:     sprint(color.New(color.FgGreen)),
			Quote:      sprint(faint),
			CodeFrame:  sprint(color.New(color.Faint)),
			Code:       sprint(code),
			InlineCode: sprint(code),
			Bold:       sprint(color.New(color.Bold)),
			Italic:     sprint(color.New(color.Italic)),
			Link:       sprint(color.New(color.FgBlue, color.Underline)),
		},
	}
}

func sprint(c *color.Color) func(string) string {
	return func(s string) string { return c.Sprint(s) }
}
