package commands

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/termblog/pkg/app"
	"tableflip.dev/termblog/pkg/commands/options"
	"tableflip.dev/termblog/pkg/config"
	"tableflip.dev/termblog/pkg/logging"
	"tableflip.dev/termblog/pkg/printers"
	"tableflip.dev/termblog/pkg/runner/exec"
	"tableflip.dev/termblog/pkg/runner/ui"
)

var (
	output = &options.OutputOptions{}
	colors = &options.ColorOptions{}

	// Set with -ldflags "-X tableflip.dev/termblog/pkg/commands.version=...".
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "termblog",
		Short: options.Wrap80("A personal blog you browse like a shell: locally, over SSH, in the browser or over MCP."),
		Long: options.Wrap80(`Without a subcommand termblog opens the full screen terminal when
attached to a tty. Otherwise it reads command lines from stdin and prints their output, so
'echo "tree" | termblog' works in scripts.`),
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			colors.Apply()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if options.Interactive() {
				return runUI(cmd.Context())
			}
			svc, _, err := loadService("exec", os.Stderr)
			if err != nil {
				return err
			}
			e := exec.Exec{
				Service: svc,
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
				Printer: printer(),
			}
			return e.Do(cmd.Context())
		},
	}

	options.AddColorArgs(cmd, colors)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addExec(topLevel)
	addSSH(topLevel)
	addWeb(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addCache(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// loadService reads the config and wires the content stack. Logs go to
// fallback unless log.file is configured.
func loadService(component string, fallback io.Writer) (*app.Service, *log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log, component, fallback)
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.New(cfg, version, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

// The full screen UI owns the terminal, so logs only go to log.file.
func runUI(ctx context.Context) error {
	svc, logger, err := loadService("ui", io.Discard)
	if err != nil {
		return err
	}
	u := ui.UI{Service: svc, Logger: logger}
	return u.Do(ctx)
}

func printer() *printers.Text {
	p := &printers.Text{Width: options.Width()}
	if !color.NoColor {
		p.Palette = printers.Pretty()
	}
	return p
}
