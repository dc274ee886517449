package commands

import (
	"github.com/spf13/cobra"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the full screen terminal",
		Example: `
termblog ui
termblog ui --no-color
`,
		Args:      cobra.NoArgs,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runUI(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
