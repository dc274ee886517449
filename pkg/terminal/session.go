// Package terminal is the command language of the blog. A Session holds one
// visitor's state (working directory, history, theme) and turns typed
// lines into output blocks that a front end renders.
//
// Commands run in two steps. Submit echoes the line and hands back a
// Pending ticket carrying a simulated delay; Run executes it once the
// delay has passed. Every Submit supersedes the tickets before it, so a
// slow command can never print after a newer one, and Cancel drops
// whatever is outstanding.
package terminal

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"tableflip.dev/termblog/pkg/catalog"
	"tableflip.dev/termblog/pkg/vfs"
)

// Loader resolves an article to markdown. It never fails; unavailable
// articles come back as a document describing the failure.
type Loader interface {
	Load(ctx context.Context, category, filename string) string
}

// Pending is a submitted command waiting for its delay to pass.
type Pending struct {
	Token uint64
	Line  string
	Delay time.Duration
}

// Session is one visitor's terminal. It is safe for concurrent use.
type Session struct {
	opts    Options
	loader  Loader
	catalog *catalog.Catalog
	tree    *vfs.Tree
	logger  *log.Logger
	now     func() time.Time
	version string
	started time.Time

	randMu sync.Mutex
	rand   *rand.Rand

	mu        sync.Mutex
	cwd       vfs.Path
	history   *History
	commands  int
	theme     string
	particles bool
	token     uint64
	cancel    context.CancelFunc
}

// New builds a session at the root directory.
func New(loader Loader, opts Options, options ...Option) *Session {
	s := &Session{
		opts:    opts.withDefaults(),
		loader:  loader,
		history: NewHistory(),
	}
	for _, o := range options {
		o(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	s.tree = vfs.FromCatalog(s.catalog)
	if s.logger == nil {
		s.logger = discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7e57))
	}
	if s.version == "" {
		s.version = "dev"
	}
	s.theme = s.opts.Theme
	s.started = s.now()
	return s
}

// Options returns the effective options.
func (s *Session) Options() Options {
	return s.opts
}

// Tree is the directory tree the session navigates.
func (s *Session) Tree() *vfs.Tree {
	return s.tree
}

// Catalog is the article set behind the tree.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Prompt renders "user@host:/path$" for the current directory.
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt()
}

func (s *Session) prompt() string {
	return fmt.Sprintf("%s@%s:%s$", s.opts.User, s.opts.Host, s.cwd)
}

// Cwd is the current directory.
func (s *Session) Cwd() vfs.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(vfs.Path(nil), s.cwd...)
}

// Theme is the active theme name.
func (s *Session) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Particles reports whether the particle effect is on.
func (s *Session) Particles() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.particles
}

// Commands counts the non-empty lines submitted so far.
func (s *Session) Commands() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands
}

// Uptime is the time since the session started.
func (s *Session) Uptime() time.Duration {
	return s.now().Sub(s.started)
}

// HistoryUp recalls an older line. ok is false when the input should stay
// as it is.
func (s *Session) HistoryUp() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Up()
}

// HistoryDown recalls a newer line, ending at the empty string.
func (s *Session) HistoryDown() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Down()
}

// Submit echoes line and, unless it is blank, records it and returns the
// ticket to run it with.
func (s *Session) Submit(line string) (Line, *Pending) {
	line = strings.TrimSpace(line)

	s.mu.Lock()
	defer s.mu.Unlock()

	echo := Line{Kind: KindPrompt, Text: s.prompt()}
	if line == "" {
		return echo, nil
	}
	echo.Text += " " + line

	s.history.Push(line)
	s.commands++
	s.token++
	p := &Pending{Token: s.token, Line: line, Delay: s.delay()}
	s.logger.Debug("command submitted", "token", p.Token, "line", line, "delay", p.Delay)
	return echo, p
}

func (s *Session) delay() time.Duration {
	lo, hi := s.opts.MinDelay, s.opts.MaxDelay
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.intN(int(hi-lo)+1))
}

func (s *Session) intN(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.IntN(n)
}

// Run executes p if it is still the latest submission. The second return
// is false, and nothing changes, when p was superseded or cancelled
// before or while it ran.
func (s *Session) Run(ctx context.Context, p *Pending) (Result, bool) {
	if p == nil {
		return Result{}, false
	}
	s.mu.Lock()
	if latest := s.token; p.Token != latest {
		s.mu.Unlock()
		s.logger.Debug("stale command dropped", "token", p.Token, "latest", latest)
		return Result{}, false
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	c := &call{
		s:         s,
		ctx:       ctx,
		cwd:       append(vfs.Path(nil), s.cwd...),
		theme:     s.theme,
		particles: s.particles,
	}
	s.mu.Unlock()
	defer cancel()

	blocks := c.dispatch(p.Line)

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Token != s.token || ctx.Err() != nil {
		s.logger.Debug("command abandoned", "token", p.Token, "line", p.Line)
		return Result{}, false
	}
	s.cancel = nil
	s.cwd = c.cwd
	s.theme = c.theme
	s.particles = c.particles
	return Result{Token: p.Token, Blocks: blocks, Quit: c.quit}, true
}

// Cancel invalidates any submitted command and interrupts one that is
// running.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.history.Reset()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Execute submits and runs line without waiting out the delay. The echo
// is the first block of the result.
func (s *Session) Execute(ctx context.Context, line string) Result {
	echo, p := s.Submit(line)
	if p == nil {
		return Result{Blocks: []Block{echo}}
	}
	res, ok := s.Run(ctx, p)
	if !ok {
		return Result{Token: p.Token, Blocks: []Block{echo}}
	}
	res.Blocks = append([]Block{echo}, res.Blocks...)
	return res
}

func (s *Session) recentHistory(n int) ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Recent(n), s.history.Len()
}
