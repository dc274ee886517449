package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/termblog/pkg/runner/serve"
)

func addSSH(topLevel *cobra.Command) {
	var (
		host string
		port int
		key  string
	)

	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "serve the terminal over SSH",
		Long: `Start an SSH server. Every connection gets its own full screen terminal; sessions
without a PTY are refused. The host key is generated on first start.`,
		Example: `
termblog ssh
termblog ssh --port 2222
ssh -p 23234 localhost
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, logger, err := loadService("ssh", os.Stderr)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				svc.Config.SSH.Host = host
			}
			if cmd.Flags().Changed("port") {
				if port < 0 || port > 65535 {
					return fmt.Errorf("invalid port %d", port)
				}
				svc.Config.SSH.Port = port
			}
			if cmd.Flags().Changed("host-key") {
				svc.Config.SSH.HostKeyPath = key
			}

			s := serve.SSH{
				Service: svc,
				Logger:  logger,
				OnListening: func(addr string) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SSH server listening on %s\n", addr)
				},
			}
			return s.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "interface to listen on (overrides ssh.host)")
	cmd.Flags().IntVar(&port, "port", 23234, "port to listen on, 0 for random (overrides ssh.port)")
	cmd.Flags().StringVar(&key, "host-key", "", "ed25519 host key path (overrides ssh.host_key_path)")

	topLevel.AddCommand(cmd)
}
