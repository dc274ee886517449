package commands

import (
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/termblog/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Effective configuration, content source and article cache.",
		Example: `
termblog info
TERMBLOG_CONTENT_BASE_URL=https://blog.example termblog info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService("info", os.Stderr)
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
