package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/termblog/pkg/markdown"
	"tableflip.dev/termblog/pkg/printers"
	"tableflip.dev/termblog/pkg/terminal"
)

// Palette is the set of colors one theme is drawn with. Secondary, Accent
// and Shadow are derived from Primary.
type Palette struct {
	Name      string
	Primary   colorful.Color
	Secondary colorful.Color
	Accent    colorful.Color
	Shadow    colorful.Color
}

var primaries = map[string]string{
	"green":  "#00ff41",
	"blue":   "#00aaff",
	"purple": "#aa55ff",
	"orange": "#ff8800",
}

var black = colorful.Color{}

// PaletteFor returns the named palette, falling back to green.
func PaletteFor(name string) Palette {
	hex, ok := primaries[name]
	if !ok {
		name, hex = "green", primaries["green"]
	}
	primary, _ := colorful.Hex(hex)
	return Palette{
		Name:      name,
		Primary:   primary,
		Secondary: primary.BlendLab(black, 0.2).Clamped(),
		Accent:    primary.BlendLab(black, 0.35).Clamped(),
		Shadow:    primary.BlendLab(black, 0.7).Clamped(),
	}
}

func color(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

func render(st lipgloss.Style) func(string) string {
	return func(s string) string { return st.Render(s) }
}

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Palette Palette
	Output  OutputTheme
	Footer  FooterTheme
	Modal   ModalTheme

	renderer *lipgloss.Renderer
}

// OutputTheme styles the scrollback.
type OutputTheme struct {
	Kinds     map[terminal.Kind]lipgloss.Style
	Title     lipgloss.Style
	Header    lipgloss.Style
	Faint     lipgloss.Style
	Heading   lipgloss.Style
	Code      lipgloss.Style
	Quote     lipgloss.Style
	Bold      lipgloss.Style
	Italic    lipgloss.Style
	Link      lipgloss.Style
	MatrixRow lipgloss.Style
}

// FooterTheme groups styles used by the prompt, status and suggestion bar.
type FooterTheme struct {
	Prompt              lipgloss.Style
	Status              lipgloss.Style
	StatusAccent        lipgloss.Style
	Spinner             lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
	CommandSelectedDesc lipgloss.Style
	Kind                lipgloss.Style
}

// ModalTheme styles centered overlays such as help.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
}

// New builds the named theme for r. A nil renderer uses the process
// default, which is what a local terminal wants; SSH sessions pass their
// own so each client gets its color profile.
func New(r *lipgloss.Renderer, name string) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p := PaletteFor(name)
	s := r.NewStyle

	primary := s().Foreground(color(p.Primary))
	secondary := s().Foreground(color(p.Secondary))
	gray := s().Foreground(lipgloss.Color("244"))

	kinds := map[terminal.Kind]lipgloss.Style{
		terminal.KindPrompt:    primary.Bold(true),
		terminal.KindInfo:      s().Foreground(lipgloss.Color("#4fc3f7")),
		terminal.KindSuccess:   secondary,
		terminal.KindWarning:   s().Foreground(lipgloss.Color("#ffb000")),
		terminal.KindError:     s().Foreground(lipgloss.Color("#ff4444")),
		terminal.KindFile:      s().Foreground(lipgloss.Color("#e0e0e0")),
		terminal.KindDirectory: s().Foreground(lipgloss.Color("#4fc3f7")).Bold(true),
		terminal.KindGray:      gray,
		terminal.KindMatrix:    primary,
		terminal.KindBanner:    primary.Bold(true),
	}

	return Theme{
		Palette:  p,
		renderer: r,
		Output: OutputTheme{
			Kinds:     kinds,
			Title:     primary.Bold(true).Underline(true),
			Header:    secondary.Bold(true),
			Faint:     gray.Italic(true),
			Heading:   primary.Bold(true),
			Code:      s().Foreground(lipgloss.Color("#ffb000")),
			Quote:     gray.Italic(true),
			Bold:      s().Bold(true),
			Italic:    s().Italic(true),
			Link:      s().Foreground(lipgloss.Color("#4fc3f7")).Underline(true),
			MatrixRow: s().Foreground(color(p.Shadow)),
		},
		Footer: FooterTheme{
			Prompt:              primary.Bold(true),
			Status:              gray,
			StatusAccent:        secondary.Italic(true),
			Spinner:             primary,
			CommandName:         primary.Bold(true),
			CommandDescription:  gray,
			CommandSelectedName: primary.Bold(true).Reverse(true),
			CommandSelectedDesc: secondary.Reverse(true),
			Kind:                s().Foreground(color(p.Accent)),
		},
		Modal: ModalTheme{
			Frame: s().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(color(p.Secondary)).
				Padding(0, 1),
			Title: primary.Bold(true),
		},
	}
}

// Renderer is the renderer the theme's styles were built with.
func (t Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// Printer adapts the theme for printers.Text.
func (t Theme) Printer() printers.Palette {
	o := t.Output
	return printers.Palette{
		Line: func(kind terminal.Kind, s string) string {
			if st, ok := o.Kinds[kind]; ok {
				return st.Render(s)
			}
			return s
		},
		Title:  render(o.Title),
		Header: render(o.Header),
		Faint:  render(o.Faint),
		Markdown: markdown.Style{
			Heading: func(level int, s string) string {
				if level > 2 {
					return o.Header.Render(s)
				}
				return o.Heading.Render(s)
			},
			Bullet:     render(o.Kinds[terminal.KindSuccess]),
			Quote:      render(o.Quote),
			CodeFrame:  render(o.Faint),
			Code:       render(o.Code),
			InlineCode: render(o.Code),
			Bold:       render(o.Bold),
			Italic:     render(o.Italic),
			Link:       render(o.Link),
		},
	}
}

// Rainbow paints each line of plain text in its own hue. Advancing step
// shifts every hue, which animates the effect.
func (t Theme) Rainbow(s string, step int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		hue := float64((step*12 + i*24) % 360)
		c := colorful.Hsv(hue, 0.85, 1)
		lines[i] = t.renderer.NewStyle().Foreground(color(c)).Render(line)
	}
	return strings.Join(lines, "\n")
}
