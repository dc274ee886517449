// Package serve runs the network front ends until their context ends.
package serve

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"tableflip.dev/termblog/pkg/app"
	"tableflip.dev/termblog/pkg/sshserver"
	"tableflip.dev/termblog/pkg/terminal"
)

type SSH struct {
	Service *app.Service
	Logger  *log.Logger
	// OnListening, if set, is told the bound address.
	OnListening func(addr string)
}

func (s *SSH) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("serve: no service configured")
	}
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := s.Service.Config.SSH

	newSession := func(sess ssh.Session) *terminal.Session {
		return s.Service.NewSession(logger.With("user", sess.User(), "remote", sess.RemoteAddr().String()))
	}
	srv := sshserver.New(sshserver.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		HostKeyPath: cfg.HostKeyPath,
	}, newSession, logger)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	if s.OnListening != nil {
		s.OnListening(srv.Address())
	}

	stop := context.AfterFunc(ctx, func() { _ = srv.Stop() })
	defer stop()
	return srv.Wait()
}
