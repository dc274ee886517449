package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gosuri/uitable"

	"tableflip.dev/termblog/pkg/app"
)

type Info struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("info: no service configured")
	}
	out := n.Out
	if out == nil {
		out = os.Stdout
	}

	if override := os.Getenv("TERMBLOG_CONFIG_PATH"); override != "" {
		fmt.Fprintln(out, "TERMBLOG_CONFIG_PATH found on env, using", override)
	} else {
		fmt.Fprintln(out, "TERMBLOG_CONFIG_PATH env var not set")
	}

	cfg := n.Service.Config
	table := uitable.New()
	table.AddRow("content:", n.Service.Source)
	if m := n.Service.Mirror; m != nil {
		table.AddRow("cache:", m.BasePath())
		table.AddRow("cached articles:", strconv.Itoa(len(m.Keys(ctx))))
	} else {
		table.AddRow("cache:", "disabled")
	}
	table.AddRow("prompt:", n.Service.NewSession(nil).Prompt())
	table.AddRow("theme:", cfg.Terminal.Theme)
	table.AddRow("delay:", fmt.Sprintf("%s - %s", cfg.Terminal.MinDelay, cfg.Terminal.MaxDelay))
	table.AddRow("ssh:", fmt.Sprintf("%s:%d", cfg.SSH.Host, cfg.SSH.Port))
	table.AddRow("ssh host key:", cfg.SSH.HostKeyPath)
	table.AddRow("web:", cfg.Web.Addr)
	table.AddRow("mcp:", fmt.Sprintf("%s (%s)", cfg.MCP.Transport, cfg.MCP.Addr))
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "stderr"
	}
	table.AddRow("log:", fmt.Sprintf("%s, %s", cfg.Log.Level, logFile))
	_, err := fmt.Fprintln(out, table)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Articles:")
	for _, a := range n.Service.Catalog().Articles() {
		fmt.Fprintf(out, "  %s\n", a.Path())
	}
	return nil
}
