// Package sshserver serves the blog terminal over SSH. Every SSH session
// gets its own terminal session and Bubble Tea program.
//
// A Server is single-use: once stopped or failed, create a new one.
package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/mitchellh/go-homedir"
	"github.com/muesli/termenv"

	"tableflip.dev/termblog/pkg/terminal"
	"tableflip.dev/termblog/pkg/tui/app"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated State = iota
	// StateStarting indicates the server is binding its listener.
	StateStarting
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopping indicates the server is shutting down.
	StateStopping
	// StateStopped is terminal.
	StateStopped
	// StateFailed is terminal; Wait returns the cause.
	StateFailed
)

// State is the lifecycle state of a Server.
type State int32

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds the server settings.
type Config struct {
	// Host is the address to bind to (default: localhost).
	Host string
	// Port is the port to listen on. Zero picks a free port.
	Port int
	// HostKeyPath is where the ed25519 host key lives. It is generated
	// on first start. A leading ~ is expanded.
	HostKeyPath string
	// StartupTimeout bounds Start (default: 5s).
	StartupTimeout time.Duration
	// ShutdownTimeout bounds Stop (default: 10s).
	ShutdownTimeout time.Duration
}

// SessionFunc builds the terminal session for a new SSH connection.
type SessionFunc func(sess ssh.Session) *terminal.Session

type Server struct {
	cfg        Config
	newSession SessionFunc
	logger     *log.Logger

	state atomic.Int32

	mu       sync.Mutex
	srv      *ssh.Server
	listener net.Listener
	addr     string
	lastErr  error

	wg        sync.WaitGroup
	startedCh chan struct{}
	doneCh    chan struct{}
	doneOnce  sync.Once
	errCh     chan error
}

// New creates a server. It does not listen until Start.
func New(cfg Config, newSession SessionFunc, logger *log.Logger) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ssh"})
	}
	s := &Server{
		cfg:        cfg,
		newSession: newSession,
		logger:     logger,
		startedCh:  make(chan struct{}),
		doneCh:     make(chan struct{}),
		errCh:      make(chan error, 1),
	}
	s.state.Store(int32(StateCreated))
	return s
}

// Start listens and serves in the background. It returns once the server
// accepts connections, or with the reason it could not.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.fail(fmt.Errorf("sshserver: context cancelled before start: %w", ctx.Err()))
		return s.err()
	default:
	}

	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("sshserver: cannot start server in state %s", s.State())
	}

	startupCtx, cancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer cancel()

	keyPath, err := s.hostKeyPath()
	if err != nil {
		s.fail(err)
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.fail(fmt.Errorf("sshserver: listen on %s: %w", addr, err))
		return s.err()
	}

	srv, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(keyPath),
		wish.WithMiddleware(
			bm.MiddlewareWithColorProfile(s.teaHandler, termenv.ANSI256),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(s.logger, log.InfoLevel),
		),
	)
	if err != nil {
		_ = listener.Close()
		s.fail(fmt.Errorf("sshserver: create server: %w", err))
		return s.err()
	}

	s.mu.Lock()
	s.srv = srv
	s.listener = listener
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	s.wg.Add(1)
	go s.serve(srv, listener)

	select {
	case <-s.startedCh:
		s.logger.Info("ssh server started", "address", s.addr)
		return nil
	case err := <-s.errCh:
		s.fail(err)
		return err
	case <-startupCtx.Done():
		_ = srv.Close()
		s.fail(fmt.Errorf("sshserver: startup timeout: %w", startupCtx.Err()))
		return s.err()
	}
}

func (s *Server) serve(srv *ssh.Server, listener net.Listener) {
	defer s.wg.Done()

	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}

	err := srv.Serve(listener)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	select {
	case s.errCh <- fmt.Errorf("sshserver: serve: %w", err):
	default:
	}
	s.fail(err)
}

// teaHandler starts one terminal per SSH session, colored for the
// client's terminal.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	session := s.newSession(sess)
	model := app.New(session, app.Options{
		Renderer: bm.MakeRenderer(sess),
		Logger:   s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String()),
		Context:  sess.Context(),
	})
	return model, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

func (s *Server) hostKeyPath() (string, error) {
	if s.cfg.HostKeyPath == "" {
		return "", errors.New("sshserver: host key path is required")
	}
	path, err := homedir.Expand(s.cfg.HostKeyPath)
	if err != nil {
		return "", fmt.Errorf("sshserver: expand %s: %w", s.cfg.HostKeyPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("sshserver: %w", err)
	}
	return path, nil
}

// Stop shuts the server down, waiting for open sessions up to the
// shutdown timeout. Calling it more than once is fine.
func (s *Server) Stop() error {
	for {
		current := s.State()
		switch current {
		case StateStopped, StateFailed:
			return nil
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				s.finish()
				return nil
			}
		case StateStopping:
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			if s.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				return s.shutdown()
			}
		}
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	var err error
	if srv != nil {
		if err = srv.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Warn("graceful shutdown failed, closing", "error", err)
			_ = srv.Close()
		} else {
			err = nil
		}
	}

	s.wg.Wait()
	s.state.Store(int32(StateStopped))
	s.finish()
	s.logger.Info("ssh server stopped")
	return err
}

func (s *Server) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.state.Store(int32(StateFailed))
	s.finish()
}

func (s *Server) finish() {
	s.doneOnce.Do(func() { close(s.doneCh) })
}

func (s *Server) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Address returns the bound host:port. It blocks until the server has
// started, and returns "" if it never does.
func (s *Server) Address() string {
	select {
	case <-s.startedCh:
	case <-s.doneCh:
		select {
		case <-s.startedCh:
		default:
			return ""
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Wait blocks until the server stops and returns the failure, if any.
func (s *Server) Wait() error {
	<-s.doneCh
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.err()
	}
	return nil
}
