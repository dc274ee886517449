// Package webui serves the browser terminal: a static page that forwards
// keystrokes over a websocket and appends the HTML the server renders.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"tableflip.dev/termblog/pkg/terminal"
)

//go:embed static/*
var staticFiles embed.FS

// SessionFunc builds the terminal session for a new websocket connection.
type SessionFunc func(r *http.Request) *terminal.Session

type Config struct {
	// Addr is the listen address for ListenAndServe.
	Addr string
	// ShutdownTimeout bounds the graceful shutdown (default: 5s).
	ShutdownTimeout time.Duration
	// AllowedOrigins are accepted for websocket upgrades in addition to
	// same-host requests.
	AllowedOrigins []string
}

// Server is the browser front end. One terminal session per websocket.
type Server struct {
	cfg        Config
	content    fs.FS
	newSession SessionFunc
	logger     *log.Logger
	upgrader   websocket.Upgrader
	startTime  time.Time

	connections sync.Map // map[*SafeConn]*ConnectionInfo
	handlers    sync.WaitGroup
}

// ConnectionInfo describes a connected browser.
type ConnectionInfo struct {
	Remote      string
	ConnectedAt time.Time
}

// New creates a server. content must hold the Document/ tree served under
// /Document/; nil disables the static article route.
func New(cfg Config, content fs.FS, newSession SessionFunc, logger *log.Logger) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "web"})
	}
	s := &Server{
		cfg:        cfg,
		content:    content,
		newSession: newSession,
		logger:     logger,
		startTime:  time.Now(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routes: the page, its assets, the articles, the
// websocket and a health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.FileServerFS(staticFiles))
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.content != nil {
		mux.Handle("GET /Document/", http.FileServerFS(s.content))
	}
	return mux
}

// ListenAndServe binds cfg.Addr and serves until ctx is done. onListening,
// if set, is told the bound address.
func (s *Server) ListenAndServe(ctx context.Context, onListening func(net.Addr)) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = "localhost:8080"
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("webui: listen on %s: %w", addr, err)
	}
	if onListening != nil {
		onListening(ln.Addr())
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully and
// closes every websocket.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpSrv.Serve(ln)
	}()
	s.logger.Info("web ui listening", "address", "http://"+ln.Addr().String())

	select {
	case err := <-serveErr:
		s.closeConnections()
		s.handlers.Wait()
		return fmt.Errorf("webui: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.closeConnections()
	err := httpSrv.Shutdown(shutdownCtx)
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Warn("serve returned", "error", err)
	}
	s.handlers.Wait()
	s.logger.Info("web ui stopped")
	return err
}

// Websockets are hijacked, so http.Server.Shutdown does not see them.
func (s *Server) closeConnections() {
	s.connections.Range(func(key, _ any) bool {
		if sc, ok := key.(*SafeConn); ok {
			_ = sc.Close()
		}
		return true
	})
}

func (s *Server) countConnections() int {
	count := 0
	s.connections.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"connections": s.countConnections(),
		"uptime":      time.Since(s.startTime).Round(time.Second).String(),
	})
}
