package help

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func frame() lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
}

func TestHelpFitsBounds(t *testing.T) {
	m := New(60, 20, frame(), termenv.Ascii)
	view := m.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 60 {
			t.Fatalf("line %d has width %d: %q", i, w, l)
		}
	}
	if !strings.Contains(view, "termblog") {
		t.Fatalf("expected the help title, got:\n%s", view)
	}
}

func TestHelpClampsToMinimum(t *testing.T) {
	m := New(5, 2, frame(), termenv.Ascii)
	if w, h := m.Size(); w != 32 || h != 8 {
		t.Fatalf("size = %dx%d, want 32x8", w, h)
	}
}

func TestHelpScrolls(t *testing.T) {
	m := New(40, 8, frame(), termenv.Ascii)
	before := m.View()
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	if m.View() == before {
		t.Fatalf("expected page down to scroll the help")
	}
}
