// Package logging builds the charm loggers every front end shares.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/natefinch/lumberjack.v2"

	"tableflip.dev/termblog/pkg/config"
)

// New returns a logger prefixed with component. With cfg.File set, output
// goes to a rotating file; otherwise it goes to fallback.
func New(cfg config.Log, component string, fallback io.Writer) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	w := fallback
	if cfg.File != "" {
		fw, err := fileWriter(cfg.File)
		if err != nil {
			return nil, err
		}
		w = fw
	}
	if w == nil {
		w = os.Stderr
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          component,
		Level:           level,
		ReportTimestamp: true,
	}), nil
}

// Discard is a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func fileWriter(path string) (io.Writer, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("logging: expand %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   expanded,
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}, nil
}
