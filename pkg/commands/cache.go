package commands

import (
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/termblog/pkg/runner/cache"
)

func addCache(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk article cache.",
		Example: `
termblog cache ls
termblog cache purge
`,
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List cached articles.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService("cache", os.Stderr)
			if err != nil {
				return err
			}
			l := cache.List{Mirror: svc.Mirror, Out: cmd.OutOrStdout()}
			return l.Do(cmd.Context())
		},
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Remove every cached article.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService("cache", os.Stderr)
			if err != nil {
				return err
			}
			p := cache.Purge{Mirror: svc.Mirror, Out: cmd.OutOrStdout()}
			return p.Do(cmd.Context())
		},
	}

	cmd.AddCommand(ls, purge)
	topLevel.AddCommand(cmd)
}
