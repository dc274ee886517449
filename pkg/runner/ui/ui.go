// Package ui runs the full screen terminal on the local tty.
package ui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tableflip.dev/termblog/pkg/app"
	tuiapp "tableflip.dev/termblog/pkg/tui/app"
)

type UI struct {
	Service *app.Service
	Logger  *log.Logger

	// Input and Output default to the process tty.
	Input  io.Reader
	Output io.Writer
}

func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil {
		return errors.New("ui: no service configured")
	}
	logger := u.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	model := tuiapp.New(u.Service.NewSession(logger), tuiapp.Options{
		Logger:  logger,
		Context: ctx,
	})

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	if u.Input != nil {
		opts = append(opts, tea.WithInput(u.Input))
	}
	if u.Output != nil {
		opts = append(opts, tea.WithOutput(u.Output))
	}

	_, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
