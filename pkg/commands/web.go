package commands

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/termblog/pkg/runner/serve"
)

func addWeb(topLevel *cobra.Command) {
	var (
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "serve the terminal in the browser",
		Long: `Start the web front end: the terminal page at /, one terminal session per
websocket at /ws, and the embedded articles under /Document/.`,
		Example: `
termblog web
termblog web --addr :8080 --allow-origin https://blog.example
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, logger, err := loadService("web", os.Stderr)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				svc.Config.Web.Addr = addr
			}

			w := serve.Web{
				Service:        svc,
				Logger:         logger,
				AllowedOrigins: origins,
				OnListening: func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Web terminal listening on http://%s/\n", a)
				},
			}
			return w.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address (overrides web.addr)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "extra origins allowed to open the websocket")

	topLevel.AddCommand(cmd)
}
