package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/termblog/pkg/commands/options"
	"tableflip.dev/termblog/pkg/runner/exec"
	"tableflip.dev/termblog/pkg/terminal"
)

func addExec(topLevel *cobra.Command) {
	var names []string
	for _, c := range terminal.Commands() {
		names = append(names, c.Name)
	}

	cmd := &cobra.Command{
		Use:   "exec <line>...",
		Short: "run terminal command lines and print their output",
		Long: options.Wrap80(`Runs each argument as one line typed at the blog prompt, in order, in
a single session, so 'cd' carries over. Stops after 'exit'. Known commands: ` + strings.Join(names, ", ") + "."),
		Example: `
termblog exec tree
termblog exec "cd Document/Obsidian" ls "cat Dataview.md"
termblog exec --json "find markdown"
`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService("exec", os.Stderr)
			if err != nil {
				return output.HandleError(err)
			}
			e := exec.Exec{
				Service: svc,
				Lines:   args,
				Out:     cmd.OutOrStdout(),
				Echo:    output.Echo,
				JSON:    output.JSON,
				Printer: printer(),
			}
			return output.HandleError(e.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
