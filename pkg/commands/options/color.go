package options

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ColorOptions
type ColorOptions struct {
	NoColor bool
}

func AddColorArgs(cmd *cobra.Command, o *ColorOptions) {
	cmd.PersistentFlags().BoolVar(&o.NoColor, "no-color", false,
		"Disable colored output.")
}

// Apply turns color off everywhere when asked to, or when NO_COLOR is set.
func (o *ColorOptions) Apply() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		o.NoColor = true
	}
	if o.NoColor {
		color.NoColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Interactive reports whether stdin and stdout are both terminals.
func Interactive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Width is the stdout terminal width, or 0 when stdout is not a terminal.
func Width() int {
	fd := os.Stdout.Fd()
	if !isTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(int(fd))
	if err != nil {
		return 0
	}
	return w
}
