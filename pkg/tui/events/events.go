package events

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/termblog/pkg/terminal"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// CommandMode represents the current state of the command prompt.
type CommandMode string

const (
	// CommandModePassive indicates the command bar is idle.
	CommandModePassive CommandMode = "passive"
	// CommandModeInput indicates the command bar is collecting user input.
	CommandModeInput CommandMode = "input"
)

// CommandChangeMsg is emitted when the command input value changes.
type CommandChangeMsg struct {
	Component ComponentID
	Value     string
	Mode      CommandMode
}

// Describe implements the logging helper.
func (m CommandChangeMsg) Describe() string {
	return fmt.Sprintf(`value:%q mode:%q`, m.Value, m.Mode)
}

// CommandSubmitMsg is emitted when the command input is submitted. Blank
// lines are submitted too; the terminal echoes them.
type CommandSubmitMsg struct {
	Component ComponentID
	Value     string
}

// Describe implements the logging helper.
func (m CommandSubmitMsg) Describe() string {
	return fmt.Sprintf(`value:%q`, m.Value)
}

// CommandCancelMsg is emitted when command entry is cancelled.
type CommandCancelMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m CommandCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// HistoryDirection selects older or newer history entries.
type HistoryDirection string

const (
	HistoryOlder HistoryDirection = "up"
	HistoryNewer HistoryDirection = "down"
)

// CommandHistoryMsg asks the owner of the history to recall a line.
type CommandHistoryMsg struct {
	Component ComponentID
	Direction HistoryDirection
}

// Describe implements the logging helper.
func (m CommandHistoryMsg) Describe() string {
	return fmt.Sprintf(`direction:%q`, m.Direction)
}

// CommandChangeCmd wraps CommandChangeMsg.
func CommandChangeCmd(component ComponentID, value string, mode CommandMode) tea.Cmd {
	return func() tea.Msg {
		return CommandChangeMsg{
			Component: component,
			Value:     value,
			Mode:      mode,
		}
	}
}

// CommandSubmitCmd wraps CommandSubmitMsg.
func CommandSubmitCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return CommandSubmitMsg{
			Component: component,
			Value:     value,
		}
	}
}

// CommandCancelCmd wraps CommandCancelMsg.
func CommandCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return CommandCancelMsg{
			Component: component,
		}
	}
}

// CommandHistoryCmd wraps CommandHistoryMsg.
func CommandHistoryCmd(component ComponentID, dir HistoryDirection) tea.Cmd {
	return func() tea.Msg {
		return CommandHistoryMsg{
			Component: component,
			Direction: dir,
		}
	}
}

// RunMsg fires once a submitted command has waited out its delay.
type RunMsg struct {
	Pending *terminal.Pending
}

// Describe implements the logging helper.
func (m RunMsg) Describe() string {
	return fmt.Sprintf(`token:%d line:%q`, m.Pending.Token, m.Pending.Line)
}

// RunAfter schedules p to run once its delay has passed.
func RunAfter(p *terminal.Pending) tea.Cmd {
	return tea.Tick(p.Delay, func(time.Time) tea.Msg {
		return RunMsg{Pending: p}
	})
}

// ResultMsg carries the output of a command that ran to completion and
// was still current when it finished.
type ResultMsg struct {
	Token  uint64
	Result terminal.Result
}

// Describe implements the logging helper.
func (m ResultMsg) Describe() string {
	return fmt.Sprintf(`token:%d blocks:%d quit:%t`, m.Token, len(m.Result.Blocks), m.Result.Quit)
}

// DroppedMsg reports a command that was superseded or cancelled.
type DroppedMsg struct {
	Token uint64
}

// Describe implements the logging helper.
func (m DroppedMsg) Describe() string {
	return fmt.Sprintf(`token:%d`, m.Token)
}

// EffectTickMsg advances an animated effect. Seq ties the tick to the
// effect run that scheduled it so stale ticks can be ignored.
type EffectTickMsg struct {
	Seq int
}

// EffectTickCmd schedules the next animation frame.
func EffectTickCmd(seq int, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return EffectTickMsg{Seq: seq}
	})
}

// EffectEndMsg turns off a timed effect.
type EffectEndMsg struct {
	Name string
	Seq  int
}

// EffectEndCmd schedules the end of a timed effect.
func EffectEndCmd(name string, seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return EffectEndMsg{Name: name, Seq: seq}
	})
}
