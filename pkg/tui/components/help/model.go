package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//go:embed help.md
var helpMarkdown string

// Model renders the Glamour-based help overlay inside a bordered viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int

	frame   lipgloss.Style
	profile termenv.Profile
	err     error
}

// New constructs a help overlay model sized to the provided bounds. The
// markdown is rendered for profile so remote sessions get escapes their
// terminal understands.
func New(width, height int, frame lipgloss.Style, profile termenv.Profile) *Model {
	vp := viewport.New(max(width, 1), max(height, 1))
	vp.MouseWheelEnabled = true
	model := &Model{
		viewport: vp,
		frame:    frame,
		profile:  profile,
	}
	model.SetSize(width, height)
	return model
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the help content inside the frame.
func (m *Model) View() string {
	body := m.viewport.View()
	if body == "" && m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	// Width and Height include padding but not the border.
	w := m.width - m.frame.GetHorizontalBorderSize() - m.frame.GetHorizontalMargins()
	h := m.height - m.frame.GetVerticalBorderSize() - m.frame.GetVerticalMargins()
	return m.frame.Width(w).Height(h).Render(body)
}

// SetSize configures the overlay dimensions and re-renders the markdown to fit.
func (m *Model) SetSize(width, height int) {
	minWidth, minHeight := 32, 8
	width = max(width, minWidth)
	height = max(height, minHeight)
	if m.width == width && m.height == height {
		return
	}

	m.width = width
	m.height = height

	innerWidth := max(width-m.frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-m.frame.GetVerticalFrameSize(), 1)

	m.viewport.Width = innerWidth
	m.viewport.Height = innerHeight

	m.renderContent(innerWidth)
}

// Size returns the outer dimensions of the overlay.
func (m *Model) Size() (int, int) { return m.width, m.height }

func (m *Model) renderContent(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithColorProfile(m.profile),
		glamour.WithWordWrap(max(wrap-2, 10)),
	)
	if err != nil {
		m.fail(err)
		return
	}

	content, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		m.fail(err)
		return
	}

	m.err = nil
	m.viewport.SetContent(strings.Trim(content, "\n"))
	m.viewport.GotoTop()
}

func (m *Model) fail(err error) {
	m.err = err
	m.viewport.SetContent("help unavailable: " + err.Error())
}
