package serve

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/charmbracelet/log"

	"tableflip.dev/termblog/content"
	"tableflip.dev/termblog/pkg/app"
	"tableflip.dev/termblog/pkg/terminal"
	"tableflip.dev/termblog/pkg/webui"
)

type Web struct {
	Service *app.Service
	Logger  *log.Logger
	// AllowedOrigins are accepted for websocket upgrades besides the
	// page's own host.
	AllowedOrigins []string
	OnListening    func(net.Addr)
}

func (w *Web) Do(ctx context.Context) error {
	if w.Service == nil {
		return errors.New("serve: no service configured")
	}
	logger := w.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	newSession := func(r *http.Request) *terminal.Session {
		return w.Service.NewSession(logger.With("remote", r.RemoteAddr))
	}
	srv := webui.New(webui.Config{
		Addr:           w.Service.Config.Web.Addr,
		AllowedOrigins: w.AllowedOrigins,
	}, content.FS(), newSession, logger)
	return srv.ListenAndServe(ctx, w.OnListening)
}
