package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/termblog/pkg/terminal"
)

func TestTextPlain(t *testing.T) {
	p := &Text{}
	got := p.Render(
		terminal.Line{Kind: terminal.KindPrompt, Text: "AFulcrum@blog:/$ ls"},
		terminal.Line{Kind: terminal.KindDirectory, Text: "  Document/"},
		terminal.Clear{Welcome: true},
		terminal.ThemeChange{Name: "blue"},
	)
	want := "AFulcrum@blog:/$ ls\n  Document/"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTextTable(t *testing.T) {
	p := &Text{}
	got := p.Render(terminal.Table{
		Title:  "📞 Contact",
		Header: []string{"Name", "Where"},
		Rows: []terminal.Row{
			{Cells: []string{"GitHub", "https://github.com/AFulcrum"}},
			{Cells: []string{"Email", "via GitHub"}},
		},
		Footer: "thanks",
	})
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "📞 Contact" || lines[4] != "thanks" {
		t.Fatalf("unexpected title or footer: %q", lines)
	}
	if !strings.HasPrefix(lines[2], "  GitHub") || !strings.Contains(lines[2], "https://github.com/AFulcrum") {
		t.Fatalf("unexpected row %q", lines[2])
	}
	// columns line up
	if strings.Index(lines[2], "https") != strings.Index(lines[3], "via") {
		t.Fatalf("columns not aligned:\n%s", got)
	}
}

func TestTextArticle(t *testing.T) {
	p := &Text{}
	got := p.Render(terminal.Article{Name: "x.md", Source: "# Title\n\n- item\n```go\n**raw**\n```"})
	for _, want := range []string{"📖 Title", "  • item", "╭─ code (go)", "│ **raw**", "╰─"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestPrettyNoColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	p := &Text{Palette: Pretty()}
	var buf bytes.Buffer
	if err := p.Fprint(&buf, terminal.Line{Kind: terminal.KindError, Text: "boom"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "boom\n" {
		t.Fatalf("expected plain text, got %q", buf.String())
	}

	buf.Reset()
	if err := p.Fprint(&buf, terminal.Effect{Name: terminal.EffectMatrix, On: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("effects should print nothing, got %q", buf.String())
	}
}

func TestPrettyColors(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	got := Pretty().Line(terminal.KindError, "boom")
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "boom") {
		t.Fatalf("expected ANSI colored text, got %q", got)
	}
}

func TestHTMLEscapes(t *testing.T) {
	got := HTML(
		terminal.Line{Kind: terminal.KindError, Text: `bash: <script>: command not found`},
		terminal.Table{
			Title: "t",
			Rows: []terminal.Row{
				{Cells: []string{"Blender基础"}, Action: `cat "x"<y>.md`},
				{Cells: []string{"plain"}},
			},
		},
	)
	if strings.Contains(got, "<script>") {
		t.Fatalf("unescaped text in %q", got)
	}
	for _, want := range []string{
		`<div class="output-line error">bash: &lt;script&gt;: command not found</div>`,
		`data-command="cat &#34;x&#34;&lt;y&gt;.md"`,
		`<tr class="command-row"><td>plain</td></tr>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "onclick") {
		t.Fatalf("inline handlers must not be emitted: %q", got)
	}
}

func TestHTMLArticle(t *testing.T) {
	got := HTML(terminal.Article{Name: "数学块.md", Source: "# 数学块\n"})
	if !strings.Contains(got, `data-name="数学块.md"`) || !strings.Contains(got, `class="markdown-h1"`) {
		t.Fatalf("unexpected article html %q", got)
	}
}
