package terminal

import "time"

// Block is one piece of command output. Front ends switch on the concrete
// type to render it.
type Block interface {
	block()
}

// Kind tags a Line with how it should be colored.
type Kind string

const (
	KindPrompt    Kind = "prompt"
	KindInfo      Kind = "info"
	KindSuccess   Kind = "success"
	KindWarning   Kind = "warning"
	KindError     Kind = "error"
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindGray      Kind = "gray"
	KindMatrix    Kind = "matrix"
	KindBanner    Kind = "banner"
)

// Line is a single line of text.
type Line struct {
	Kind Kind
	Text string
}

// Table is a titled grid. Rows with an Action run that command line when
// picked.
type Table struct {
	Title  string
	Header []string
	Rows   []Row
	Footer string
}

type Row struct {
	Cells  []string
	Action string
}

// Article is a markdown document to render.
type Article struct {
	Name   string
	Source string
}

// Clear wipes the output. Welcome asks for the banner to be shown again.
type Clear struct {
	Welcome bool
}

// ThemeChange switches the palette.
type ThemeChange struct {
	Name string
}

// Effect names.
const (
	EffectMatrix    = "matrix"
	EffectRainbow   = "rainbow"
	EffectParticles = "particles"
)

// Effect turns a visual effect on or off. A non-zero Duration turns it off
// again on its own.
type Effect struct {
	Name     string
	On       bool
	Duration time.Duration
}

func (Line) block()        {}
func (Table) block()       {}
func (Article) block()     {}
func (Clear) block()       {}
func (ThemeChange) block() {}
func (Effect) block()      {}

// Result is the outcome of one command.
type Result struct {
	Token  uint64
	Blocks []Block
	Quit   bool
}
