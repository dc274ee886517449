package terminal

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"tableflip.dev/termblog/pkg/catalog"
)

// Options are the knobs that differ between deployments of the terminal.
type Options struct {
	// SuggestionLimit caps the completion list. Zero turns suggestions
	// off; start from DefaultOptions for the usual cap.
	SuggestionLimit int
	// PreserveWelcomeOnClear re-shows the banner after clear.
	PreserveWelcomeOnClear bool
	// MinDelay and MaxDelay bound the simulated latency of a command.
	MinDelay time.Duration
	MaxDelay time.Duration

	User  string
	Host  string
	Theme string
}

// DefaultOptions matches the public blog.
func DefaultOptions() Options {
	return Options{
		SuggestionLimit:        6,
		PreserveWelcomeOnClear: true,
		MinDelay:               100 * time.Millisecond,
		MaxDelay:               400 * time.Millisecond,
		User:                   "AFulcrum",
		Host:                   "blog",
		Theme:                  "green",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SuggestionLimit < 0 {
		o.SuggestionLimit = 0
	}
	if o.User == "" {
		o.User = d.User
	}
	if o.Host == "" {
		o.Host = d.Host
	}
	if !validTheme(o.Theme) {
		o.Theme = d.Theme
	}
	if o.MinDelay < 0 {
		o.MinDelay = 0
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = o.MinDelay
	}
	return o
}

// Option customizes a Session beyond its Options.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRand seeds the delay and easter egg choices.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rand = r }
}

// WithLogger logs every dispatched command at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithVersion is the build version shown by uname and neofetch.
func WithVersion(v string) Option {
	return func(s *Session) { s.version = v }
}

// WithCatalog swaps the article set. The directory tree follows it.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Session) { s.catalog = c }
}

func discard() *log.Logger {
	return log.New(io.Discard)
}
