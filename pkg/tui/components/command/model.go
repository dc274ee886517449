package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/termblog/pkg/tui/events"
	"tableflip.dev/termblog/pkg/tui/theme"
	overlaymgr "tableflip.dev/termblog/pkg/tui/ui/overlay"
)

// SuggestionOption represents a completion the prompt can surface. Value
// is what the whole input becomes when the option is accepted.
type SuggestionOption struct {
	Name        string
	Description string
	Kind        string
	Value       string
}

// Suggester returns the completions for the current input.
type Suggester func(input string) []SuggestionOption

// Options configures the command bar.
type Options struct {
	ID           events.ComponentID
	PromptPrefix string
	Placeholder  string
	StatusText   string
	Suggest      Suggester
	Styles       theme.FooterTheme
}

// Mode identifies the command component operating state.
type Mode int

const (
	// ModePassive displays the command bar in status mode.
	ModePassive Mode = iota
	// ModeInput places the command bar in interactive input mode.
	ModeInput
)

const defaultSuggestionRows = 8

// Model renders the prompt line with the suggestion list floating above it.
type Model struct {
	id      events.ComponentID
	mode    Mode
	focused bool

	width         int
	height        int
	contentHeight int

	contentView string
	status      string

	prompt       textinput.Model
	promptPrefix string
	styles       theme.FooterTheme
	suggest      Suggester

	lastPromptValue string

	suggestions           []SuggestionOption
	suggestionLimit       int
	suggestionIndex       int
	suggestionOriginal    string
	suggestionOverlay     string
	suggestionWindowStart int
	suggestionPlacement   overlaymgr.Placement

	// dismissed hides suggestions until the input is edited again.
	dismissed bool
}

// NewModel constructs a command bar with the provided options.
func NewModel(opts Options) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""
	prompt.Blur()

	id := opts.ID
	if id == "" {
		id = events.ComponentID("command")
	}

	m := &Model{
		id:              id,
		mode:            ModePassive,
		status:          opts.StatusText,
		prompt:          prompt,
		promptPrefix:    opts.PromptPrefix,
		suggest:         opts.Suggest,
		suggestionLimit: defaultSuggestionRows,
		suggestionIndex: -1,
	}
	m.SetStyles(opts.Styles)
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize configures the area the component manages: content rows plus
// the prompt line.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 1
	}
	if height <= 1 {
		height = 2
	}
	m.width = width
	m.height = height
	m.contentHeight = height - 1
	m.resizePrompt()
	m.suggestionWindowStart = 0
	m.updateSuggestionWindow()
	m.refreshSuggestionOverlay()
}

func (m *Model) resizePrompt() {
	promptWidth := m.width - lipgloss.Width(m.promptPrefix) - 1
	if promptWidth < 5 {
		promptWidth = max(m.width-1, 1)
	}
	m.prompt.Width = promptWidth
}

// SetContent stores the content view that should appear above the command bar.
func (m *Model) SetContent(view string) {
	m.contentView = view
}

// SetStatus updates the passive status text.
func (m *Model) SetStatus(text string) {
	m.status = text
}

// SetPromptPrefix replaces the text shown before the input, which follows
// the working directory.
func (m *Model) SetPromptPrefix(prefix string) {
	m.promptPrefix = prefix
	m.resizePrompt()
}

// SetStyles applies a theme to the prompt and suggestions.
func (m *Model) SetStyles(styles theme.FooterTheme) {
	m.styles = styles
	m.prompt.PlaceholderStyle = styles.Status
	m.prompt.Cursor.Style = styles.Prompt
	m.refreshSuggestionOverlay()
}

// SetSuggestionLimit adjusts the maximum number of suggestion rows shown.
func (m *Model) SetSuggestionLimit(limit int) {
	if limit <= 0 {
		limit = defaultSuggestionRows
	}
	m.suggestionLimit = limit
	m.updateSuggestionWindow()
	m.refreshSuggestionOverlay()
}

// SetValue replaces the input, as when recalling history, and hides the
// suggestions until the next edit.
func (m *Model) SetValue(value string) {
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.lastPromptValue = value
	m.dismiss()
}

// Reset empties the input.
func (m *Model) Reset() {
	m.prompt.Reset()
	m.lastPromptValue = ""
	m.dismissed = false
	m.applySuggestions("")
}

// Suggestions returns the options currently offered.
func (m *Model) Suggestions() []SuggestionOption {
	return append([]SuggestionOption(nil), m.suggestions...)
}

// Selected returns the index of the highlighted suggestion or -1.
func (m *Model) Selected() int { return m.suggestionIndex }

func (m *Model) showingSuggestions() bool {
	return m.mode == ModeInput && m.suggestionOverlay != ""
}

func (m *Model) applySuggestions(value string) {
	m.suggestionIndex = -1
	m.suggestionWindowStart = 0
	m.suggestionOriginal = value
	m.suggestions = m.suggestions[:0]
	if m.mode == ModeInput && !m.dismissed && m.suggest != nil {
		m.suggestions = append(m.suggestions, m.suggest(value)...)
	}
	m.updateSuggestionWindow()
	m.refreshSuggestionOverlay()
}

func (m *Model) dismiss() {
	m.dismissed = true
	m.suggestions = m.suggestions[:0]
	m.suggestionIndex = -1
	m.suggestionWindowStart = 0
	m.suggestionOverlay = ""
}

func (m *Model) effectiveSuggestionLimit() int {
	total := len(m.suggestions)
	if total == 0 {
		return 0
	}
	limit := m.suggestionLimit
	if limit <= 0 || limit > total {
		limit = total
	}
	return max(min(limit, m.contentHeight), 0)
}

func (m *Model) updateSuggestionWindow() {
	total := len(m.suggestions)
	limit := m.effectiveSuggestionLimit()
	if total == 0 || limit <= 0 {
		m.suggestionWindowStart = 0
		return
	}

	m.suggestionWindowStart = max(min(m.suggestionWindowStart, total-limit), 0)

	if m.suggestionIndex >= 0 {
		if m.suggestionIndex < m.suggestionWindowStart {
			m.suggestionWindowStart = m.suggestionIndex
		} else if m.suggestionIndex >= m.suggestionWindowStart+limit {
			m.suggestionWindowStart = m.suggestionIndex - limit + 1
		}
	}
}

func (m *Model) refreshSuggestionOverlay() {
	limit := m.effectiveSuggestionLimit()
	if m.mode != ModeInput || limit <= 0 {
		m.suggestionOverlay = ""
		return
	}
	start := max(min(m.suggestionWindowStart, len(m.suggestions)-limit), 0)
	end := min(start+limit, len(m.suggestions))

	rows := make([]string, 0, end-start)
	maxWidth := 0
	for i := start; i < end; i++ {
		opt := m.suggestions[i]
		marker := "  "
		name := m.styles.CommandName.Render(opt.Name)
		desc := m.styles.CommandDescription.Render(strings.TrimSpace(opt.Description))
		if i == m.suggestionIndex {
			marker = "→ "
			name = m.styles.CommandSelectedName.Render(opt.Name)
			desc = m.styles.CommandSelectedDesc.Render(strings.TrimSpace(opt.Description))
		}
		line := marker + name
		if opt.Kind != "" && opt.Kind != "command" {
			line += " " + m.styles.Kind.Render("["+opt.Kind+"]")
		}
		if strings.TrimSpace(opt.Description) != "" {
			line += "  " + desc
		}
		rows = append(rows, line)
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}

	maxWidth = min(maxWidth, m.width)
	for i := range rows {
		rows[i] = overlaymgr.PadToWidth(rows[i], maxWidth)
	}

	m.suggestionOverlay = strings.Join(rows, "\n")
	m.suggestionPlacement = overlaymgr.BottomLeft
	m.suggestionPlacement.Width = maxWidth
	m.suggestionPlacement.Height = len(rows)
}

func (m *Model) cycleSuggestion(delta int) bool {
	total := len(m.suggestions)
	if !m.showingSuggestions() || total == 0 {
		return false
	}
	if m.suggestionIndex == -1 {
		if delta > 0 {
			m.suggestionIndex = 0
		} else {
			m.suggestionIndex = total - 1
		}
		m.suggestionOriginal = m.prompt.Value()
	} else {
		m.suggestionIndex = (m.suggestionIndex + delta) % total
		if m.suggestionIndex < 0 {
			m.suggestionIndex += total
		}
	}
	m.prompt.SetValue(m.suggestions[m.suggestionIndex].Value)
	m.prompt.CursorEnd()
	m.updateSuggestionWindow()
	m.refreshSuggestionOverlay()
	return true
}

func (m *Model) clearSuggestionSelection() bool {
	if m.suggestionIndex == -1 {
		return false
	}
	m.prompt.SetValue(m.suggestionOriginal)
	m.prompt.CursorEnd()
	m.suggestionIndex = -1
	m.updateSuggestionWindow()
	m.refreshSuggestionOverlay()
	return true
}

// accept takes the highlighted option, or the first one when nothing is
// highlighted.
func (m *Model) accept() bool {
	if !m.showingSuggestions() || len(m.suggestions) == 0 {
		return false
	}
	idx := max(m.suggestionIndex, 0)
	value := m.suggestions[idx].Value
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.dismiss()
	return true
}

// Focus ensures the command component receives focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	if m.mode == ModeInput {
		return m.prompt.Focus()
	}
	return nil
}

// Blur releases focus.
func (m *Model) Blur() {
	m.focused = false
	m.prompt.Blur()
}

// BeginInput switches the command bar into input mode.
func (m *Model) BeginInput(initial string) tea.Cmd {
	m.mode = ModeInput
	m.prompt.SetValue(initial)
	m.lastPromptValue = initial
	m.prompt.CursorEnd()
	m.dismissed = false
	focus := m.Focus()
	m.applySuggestions(initial)
	return tea.Batch(focus, events.CommandChangeCmd(m.id, initial, events.CommandModeInput))
}

// ExitInput returns the command bar to passive mode.
func (m *Model) ExitInput() tea.Cmd {
	m.mode = ModePassive
	m.prompt.Blur()
	m.lastPromptValue = ""
	m.dismiss()
	m.dismissed = false
	m.suggestionOriginal = ""
	return events.CommandChangeCmd(m.id, "", events.CommandModePassive)
}

// InInputMode reports if the prompt is active.
func (m *Model) InInputMode() bool { return m.mode == ModeInput }

// Value returns the current prompt contents.
func (m *Model) Value() string {
	return m.prompt.Value()
}

func (m *Model) changed() tea.Cmd {
	newVal := m.prompt.Value()
	if newVal == m.lastPromptValue {
		return nil
	}
	m.lastPromptValue = newVal
	return events.CommandChangeCmd(m.id, newVal, events.CommandModeInput)
}

// Update routes messages to the command prompt and suggestion overlay.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode != ModeInput {
		return m, nil
	}

	var cmds []tea.Cmd
	handledKey := false

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			handledKey = true
			if m.clearSuggestionSelection() {
				cmds = append(cmds, m.changed())
				break
			}
			if m.showingSuggestions() {
				m.dismiss()
				break
			}
			cmds = append(cmds, events.CommandCancelCmd(m.id))
		case "enter":
			handledKey = true
			if m.suggestionIndex >= 0 && m.accept() {
				cmds = append(cmds, m.changed())
				break
			}
			value := m.prompt.Value()
			m.Reset()
			cmds = append(cmds, events.CommandSubmitCmd(m.id, value))
		case "tab":
			handledKey = true
			if m.accept() {
				cmds = append(cmds, m.changed())
			}
		case "shift+tab":
			handledKey = true
			if m.cycleSuggestion(-1) {
				cmds = append(cmds, m.changed())
			}
		case "up":
			handledKey = true
			if m.cycleSuggestion(-1) {
				cmds = append(cmds, m.changed())
				break
			}
			cmds = append(cmds, events.CommandHistoryCmd(m.id, events.HistoryOlder))
		case "down":
			handledKey = true
			if m.cycleSuggestion(1) {
				cmds = append(cmds, m.changed())
				break
			}
			cmds = append(cmds, events.CommandHistoryCmd(m.id, events.HistoryNewer))
		}
	}

	if !handledKey {
		prev := m.prompt.Value()
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
		if newVal := m.prompt.Value(); newVal != prev {
			m.dismissed = false
			m.applySuggestions(newVal)
			cmds = append(cmds, m.changed())
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the combined content, overlay, and command bar.
func (m *Model) View() string {
	content := normalizeHeight(m.contentView, m.contentHeight)

	if m.suggestionOverlay != "" {
		content = overlaymgr.Compose(content, m.width, m.contentHeight, m.suggestionOverlay, m.suggestionPlacement)
	}

	bar := m.renderCommandBar()
	if m.contentHeight == 0 {
		return bar
	}
	return content + "\n" + bar
}

func (m *Model) renderCommandBar() string {
	var line string
	switch m.mode {
	case ModeInput:
		line = m.styles.Prompt.Render(m.promptPrefix) + " " + m.prompt.View()
	default:
		status := m.status
		if status == "" {
			status = "Ready"
		}
		value := m.styles.StatusAccent.Render(status)
		line = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, value)
	}
	return overlaymgr.PadToWidth(line, m.width)
}

func normalizeHeight(body string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(body, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
