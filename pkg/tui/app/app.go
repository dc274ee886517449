// Package app is the Bubble Tea front end of the blog terminal: a
// scrollback viewport, the prompt with its suggestion list, a status bar
// and the help overlay.
package app

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"tableflip.dev/termblog/pkg/printers"
	"tableflip.dev/termblog/pkg/terminal"
	"tableflip.dev/termblog/pkg/timeutil"
	"tableflip.dev/termblog/pkg/tui/components/command"
	"tableflip.dev/termblog/pkg/tui/components/help"
	"tableflip.dev/termblog/pkg/tui/events"
	"tableflip.dev/termblog/pkg/tui/theme"
	overlaymgr "tableflip.dev/termblog/pkg/tui/ui/overlay"
)

const (
	commandID     = events.ComponentID("prompt")
	maxScrollback = 2000
	frameEvery    = 120 * time.Millisecond
)

type clockMsg time.Time

func clockTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// Options configures the model.
type Options struct {
	// Renderer carries the color profile of the output. Nil means the
	// local terminal.
	Renderer *lipgloss.Renderer
	Logger   *log.Logger
	// Context bounds every command the model runs.
	Context context.Context
}

// Model is the root Bubble Tea model.
type Model struct {
	session  *terminal.Session
	ctx      context.Context
	logger   *log.Logger
	renderer *lipgloss.Renderer
	theme    theme.Theme

	width  int
	height int

	viewport viewport.Model
	command  *command.Model
	spinner  spinner.Model

	help        *help.Model
	helpVisible bool

	scrollback []terminal.Block
	rendered   string
	stale      bool

	pendingToken uint64
	running      string

	matrix      bool
	rainbow     bool
	rainbowSeq  int
	effectSeq   int
	frame       int
	matrixNoise *rand.Rand

	quitting bool
}

// New constructs the model around session. The welcome banner is the
// first thing in the scrollback.
func New(session *terminal.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	th := theme.New(opts.Renderer, session.Theme())

	m := &Model{
		session:     session,
		ctx:         opts.Context,
		logger:      opts.Logger,
		renderer:    opts.Renderer,
		theme:       th,
		viewport:    viewport.New(1, 1),
		matrixNoise: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 7)),
	}
	m.viewport.MouseWheelEnabled = true
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(th.Footer.Spinner))
	m.command = command.NewModel(command.Options{
		ID:           commandID,
		PromptPrefix: session.Prompt(),
		Placeholder:  `type "help" to get started`,
		Suggest:      m.suggest,
		Styles:       th.Footer,
	})
	m.append(session.Welcome()...)
	return m
}

func (m *Model) suggest(input string) []command.SuggestionOption {
	var out []command.SuggestionOption
	for _, s := range m.session.Suggest(input) {
		out = append(out, command.SuggestionOption{
			Name:        s.Text,
			Description: s.Description,
			Kind:        string(s.Kind),
			Value:       s.Value,
		})
	}
	return out
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.command.BeginInput(""), clockTick(), tea.SetWindowTitle("termblog"))
}

type describer interface {
	Describe() string
}

func (m *Model) noteEvent(msg tea.Msg) {
	switch msg.(type) {
	case spinner.TickMsg, clockMsg, events.EffectTickMsg:
		return
	}
	if d, ok := msg.(describer); ok {
		m.logger.Debug("tui event", "type", fmt.Sprintf("%T", msg), "detail", d.Describe())
	}
}

// Update routes Bubble Tea messages to composed components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.stale = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(v); handled {
			m.layout()
			return m, cmd
		}

	case tea.MouseMsg:
		if m.helpVisible {
			_, cmd := m.help.Update(v)
			return m, cmd
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(v)
		m.layout()
		return m, cmd

	case events.CommandSubmitMsg:
		if v.Component == commandID {
			cmds = append(cmds, m.submit(v.Value))
		}

	case events.CommandHistoryMsg:
		if v.Component == commandID {
			recall := m.session.HistoryUp
			if v.Direction == events.HistoryNewer {
				recall = m.session.HistoryDown
			}
			if line, ok := recall(); ok {
				m.command.SetValue(line)
			}
		}

	case events.RunMsg:
		cmds = append(cmds, m.run(v.Pending))

	case events.ResultMsg:
		cmds = append(cmds, m.apply(v))

	case events.DroppedMsg:
		if v.Token == m.pendingToken {
			m.running = ""
		}

	case spinner.TickMsg:
		if m.running == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		return m, cmd

	case events.EffectTickMsg:
		if v.Seq != m.effectSeq || !m.animated() {
			return m, nil
		}
		m.frame++
		if m.rainbow {
			m.stale = true
		}
		m.layout()
		return m, events.EffectTickCmd(m.effectSeq, frameEvery)

	case events.EffectEndMsg:
		if v.Name == terminal.EffectRainbow && v.Seq == m.rainbowSeq {
			m.rainbow = false
			m.stale = true
		}

	case clockMsg:
		// Only the uptime in the status bar changes.
		return m, clockTick()
	}

	_, cmd := m.command.Update(msg)
	cmds = append(cmds, cmd)
	m.layout()

	if m.quitting {
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(k tea.KeyMsg) (tea.Cmd, bool) {
	switch k.String() {
	case "ctrl+d":
		m.session.Cancel()
		m.quitting = true
		return tea.Quit, true
	case "f1":
		m.toggleHelp()
		return nil, true
	case "ctrl+c":
		m.interrupt()
		return nil, true
	}

	if m.helpVisible {
		switch k.String() {
		case "esc", "q":
			m.toggleHelp()
			return nil, true
		}
		_, cmd := m.help.Update(k)
		return cmd, true
	}

	switch k.String() {
	case "ctrl+l":
		m.session.Cancel()
		m.running = ""
		m.clear(m.session.Options().PreserveWelcomeOnClear)
		return nil, true
	case "pgup":
		m.viewport.ViewUp()
		return nil, true
	case "pgdown":
		m.viewport.ViewDown()
		return nil, true
	}
	return nil, false
}

// interrupt echoes the line with ^C, drops it, and cancels whatever is
// pending or running.
func (m *Model) interrupt() {
	m.append(terminal.Line{Kind: terminal.KindPrompt, Text: m.session.Prompt() + " " + m.command.Value() + "^C"})
	m.session.Cancel()
	m.command.Reset()
	m.running = ""
}

func (m *Model) submit(line string) tea.Cmd {
	echo, p := m.session.Submit(line)
	m.append(echo)
	if p == nil {
		return nil
	}
	m.pendingToken = p.Token
	m.running = p.Line
	return tea.Batch(events.RunAfter(p), m.spinner.Tick)
}

// run executes p off the update loop; loading an article may block on the
// network.
func (m *Model) run(p *terminal.Pending) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		res, ok := s.Run(ctx, p)
		if !ok {
			return events.DroppedMsg{Token: p.Token}
		}
		return events.ResultMsg{Token: p.Token, Result: res}
	}
}

func (m *Model) apply(msg events.ResultMsg) tea.Cmd {
	if msg.Token == m.pendingToken {
		m.running = ""
	}
	var cmds []tea.Cmd
	var out []terminal.Block
	for _, b := range msg.Result.Blocks {
		switch b := b.(type) {
		case terminal.Clear:
			out = nil
			m.clear(b.Welcome)
		case terminal.ThemeChange:
			m.setTheme(b.Name)
		case terminal.Effect:
			cmds = append(cmds, m.effect(b))
		default:
			out = append(out, b)
		}
	}
	m.append(out...)
	m.command.SetPromptPrefix(m.session.Prompt())
	if msg.Result.Quit {
		m.quitting = true
	}
	return tea.Batch(cmds...)
}

func (m *Model) effect(e terminal.Effect) tea.Cmd {
	switch e.Name {
	case terminal.EffectMatrix:
		m.matrix = e.On
	case terminal.EffectRainbow:
		m.rainbow = e.On
		m.rainbowSeq++
		m.stale = true
	}
	m.effectSeq++
	var cmds []tea.Cmd
	if e.Name == terminal.EffectRainbow && e.On && e.Duration > 0 {
		cmds = append(cmds, events.EffectEndCmd(e.Name, m.rainbowSeq, e.Duration))
	}
	if m.animated() {
		cmds = append(cmds, events.EffectTickCmd(m.effectSeq, frameEvery))
	}
	return tea.Batch(cmds...)
}

func (m *Model) animated() bool {
	return m.matrix || m.rainbow || m.session.Particles()
}

func (m *Model) setTheme(name string) {
	m.theme = theme.New(m.renderer, name)
	m.command.SetStyles(m.theme.Footer)
	m.spinner.Style = m.theme.Footer.Spinner
	m.stale = true
}

func (m *Model) toggleHelp() {
	m.helpVisible = !m.helpVisible
	if m.helpVisible {
		w, h := m.helpBounds()
		m.help = help.New(w, h, m.theme.Modal.Frame, m.renderer.ColorProfile())
	}
}

func (m *Model) helpBounds() (int, int) {
	return m.width * 3 / 4, m.height * 3 / 4
}

func (m *Model) clear(welcome bool) {
	m.scrollback = nil
	m.rendered = ""
	m.matrix = false
	if welcome {
		m.append(m.session.Welcome()...)
	}
	m.stale = true
}

func (m *Model) append(blocks ...terminal.Block) {
	if len(blocks) == 0 {
		return
	}
	m.scrollback = append(m.scrollback, blocks...)
	if over := len(m.scrollback) - maxScrollback; over > 0 {
		m.scrollback = append([]terminal.Block(nil), m.scrollback[over:]...)
		m.stale = true
		return
	}
	if m.stale || m.rainbow {
		m.stale = true
		return
	}
	if s := m.printer().Render(blocks...); s != "" {
		if m.rendered != "" {
			m.rendered += "\n"
		}
		m.rendered += s
	}
	m.viewport.SetContent(m.rendered)
	m.viewport.GotoBottom()
}

func (m *Model) printer() *printers.Text {
	p := &printers.Text{Width: m.width}
	if !m.rainbow {
		p.Palette = m.theme.Printer()
	}
	return p
}

func (m *Model) rerender() {
	atBottom := m.viewport.AtBottom()
	m.rendered = m.printer().Render(m.scrollback...)
	content := m.rendered
	if m.rainbow {
		content = m.theme.Rainbow(content, m.frame)
	}
	m.viewport.SetContent(content)
	if atBottom {
		m.viewport.GotoBottom()
	}
	m.stale = false
}

// layout sizes every component for the window and feeds the viewport
// into the command bar.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	rows := m.height - 1
	if m.matrix {
		rows--
	}
	rows = max(rows, 2)

	m.command.SetSize(m.width, rows)
	if m.viewport.Width != m.width || m.viewport.Height != rows-1 {
		m.viewport.Width = m.width
		m.viewport.Height = rows - 1
		m.stale = true
	}
	if m.stale {
		m.rerender()
	}
	m.command.SetContent(m.viewport.View())
	if m.helpVisible && m.help != nil {
		m.help.SetSize(m.helpBounds())
	}
}

// View renders the composed UI.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "initializing…"
	}
	var parts []string
	if m.matrix {
		parts = append(parts, m.matrixRow())
	}
	parts = append(parts, m.command.View(), m.statusBar())
	view := strings.Join(parts, "\n")

	if m.helpVisible && m.help != nil {
		view = overlaymgr.Compose(view, m.width, m.height, m.help.View(), overlaymgr.Centered)
	}
	return view
}

const matrixGlyphs = "01ｱｲｳｴｵｶｷｸｹｺ"

func (m *Model) matrixRow() string {
	glyphs := []rune(matrixGlyphs)
	var b strings.Builder
	for i := 0; i < m.width; i++ {
		if m.matrixNoise.IntN(3) == 0 {
			b.WriteRune(glyphs[m.matrixNoise.IntN(len(glyphs))])
		} else {
			b.WriteByte(' ')
		}
	}
	return m.theme.Output.MatrixRow.Render(b.String())
}

var sparkles = []string{"·", "✦", "✧", "✨"}

func (m *Model) statusBar() string {
	st := m.theme.Footer
	left := st.StatusAccent.Render(" " + m.session.Cwd().String())
	if m.running != "" {
		left += "  " + m.spinner.View() + st.Status.Render(" "+m.running)
	}

	right := fmt.Sprintf("%s · %d cmds · up %s ",
		m.session.Theme(), m.session.Commands(), timeutil.Uptime(m.session.Uptime()))
	if m.session.Particles() {
		right = sparkles[m.frame%len(sparkles)] + " " + right
	}
	if m.rainbow {
		right = "🌈 " + right
	}
	right = st.Status.Render(right)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return overlaymgr.PadToWidth(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}
