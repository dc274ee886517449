// Package app assembles the pieces every front end shares: the article
// loader with its caches and the factory for terminal sessions.
package app

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"tableflip.dev/termblog/content"
	"tableflip.dev/termblog/pkg/article"
	"tableflip.dev/termblog/pkg/catalog"
	"tableflip.dev/termblog/pkg/config"
	"tableflip.dev/termblog/pkg/store"
	"tableflip.dev/termblog/pkg/terminal"
)

// Service provides the content stack for the TUI, the servers and the CLI.
// One Service serves any number of sessions. Each session gets its own
// article cache; the fetcher and the disk mirror are shared.
type Service struct {
	Config  config.Config
	Version string
	Logger  *log.Logger

	// Mirror is nil when cache.dir is unset.
	Mirror *store.Mirror
	// Source describes where articles come from, for info output.
	Source string

	catalog    *catalog.Catalog
	fetcher    article.Fetcher
	loaderOpts []article.Option
}

// New wires the loader for cfg. Articles come from the embedded tree unless
// content.base_url is set.
func New(cfg config.Config, version string, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Service{
		Config:  cfg,
		Version: version,
		Logger:  logger,
		catalog: catalog.Default(),
	}

	if base := strings.TrimSpace(cfg.Content.BaseURL); base != "" {
		base = strings.TrimSuffix(base, "/") + "/" + catalog.Root + "/"
		s.fetcher = article.NewHTTPFetcher(base, &http.Client{Timeout: 10 * time.Second})
		s.Source = base
	} else {
		s.fetcher = &article.FSFetcher{FS: content.FS(), Root: catalog.Root}
		s.Source = "embedded"
	}

	s.loaderOpts = []article.Option{article.WithLogger(logger.WithPrefix("article"))}
	if dir := strings.TrimSpace(cfg.Cache.Dir); dir != "" {
		m, err := store.Open(dir, logger.WithPrefix("store"))
		if err != nil {
			return nil, fmt.Errorf("app: open cache: %w", err)
		}
		s.Mirror = m
		s.loaderOpts = append(s.loaderOpts, article.WithMirror(m))
	}
	return s, nil
}

// Catalog is the article catalog sessions are built with.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// TerminalOptions maps the terminal config section onto session options.
func (s *Service) TerminalOptions() terminal.Options {
	t := s.Config.Terminal
	return terminal.Options{
		SuggestionLimit:        t.SuggestionLimit,
		PreserveWelcomeOnClear: t.PreserveWelcomeOnClear,
		MinDelay:               t.MinDelay,
		MaxDelay:               t.MaxDelay,
		User:                   t.User,
		Host:                   t.Host,
		Theme:                  t.Theme,
	}
}

// NewLoader returns a loader with an empty memory cache. A fallback
// document it caches stays with that loader alone.
func (s *Service) NewLoader() *article.Loader {
	return article.NewLoader(s.fetcher, s.loaderOpts...)
}

// NewSession starts a fresh terminal session with its own loader. logger
// may be nil.
func (s *Service) NewSession(logger *log.Logger) *terminal.Session {
	return s.NewSessionWith(s.NewLoader(), logger)
}

// NewSessionWith starts a session reading articles through loader.
func (s *Service) NewSessionWith(loader terminal.Loader, logger *log.Logger) *terminal.Session {
	if logger == nil {
		logger = s.Logger
	}
	return terminal.New(loader, s.TerminalOptions(),
		terminal.WithCatalog(s.catalog),
		terminal.WithLogger(logger),
		terminal.WithVersion(s.Version),
	)
}
