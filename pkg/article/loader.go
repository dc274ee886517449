// Package article loads markdown documents for the terminal.
//
// A Loader never fails outward: a document that cannot be fetched is
// replaced by a generated fallback that describes the failure. Whatever a
// key first resolves to, fetched text or fallback, is what it returns for
// the rest of the session.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Cache stores article bodies by key.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, body string)
}

// Key joins category and filename the way every cache keys articles.
func Key(category, filename string) string {
	return category + "/" + filename
}

// MemoryCache is an unbounded map guarded by a mutex.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]string)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.items[key]
	return body, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(key, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = body
}

// Len reports the number of cached documents.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache replaces the session cache.
func WithCache(c Cache) Option {
	return func(l *Loader) { l.cache = c }
}

// WithMirror adds a persistent second level consulted on session misses
// and filled on successful fetches only.
func WithMirror(m Cache) Option {
	return func(l *Loader) { l.mirror = m }
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// Loader resolves (category, filename) pairs to markdown.
type Loader struct {
	fetcher Fetcher
	cache   Cache
	mirror  Cache
	logger  *log.Logger

	mu       sync.Mutex
	inflight map[string]*call
	fetches  atomic.Int64
}

type call struct {
	done chan struct{}
	body string
}

// NewLoader builds a Loader around fetcher.
func NewLoader(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:  fetcher,
		inflight: make(map[string]*call),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = NewMemoryCache()
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	return l
}

// Load returns the article body. Concurrent loads of the same key share
// one fetch.
func (l *Loader) Load(ctx context.Context, category, filename string) string {
	key := Key(category, filename)

	l.mu.Lock()
	if body, ok := l.cache.Get(key); ok {
		l.mu.Unlock()
		return body
	}
	if c, ok := l.inflight[key]; ok {
		l.mu.Unlock()
		select {
		case <-c.done:
			return c.body
		case <-ctx.Done():
			return Fallback(filename, ctx.Err())
		}
	}
	c := &call{done: make(chan struct{})}
	l.inflight[key] = c
	l.mu.Unlock()

	body, keep := l.resolve(ctx, key, category, filename)

	l.mu.Lock()
	if keep {
		l.cache.Set(key, body)
	}
	delete(l.inflight, key)
	l.mu.Unlock()

	c.body = body
	close(c.done)
	return body
}

// resolve reports whether the result may be cached for the session. A
// load abandoned by its caller is not.
func (l *Loader) resolve(ctx context.Context, key, category, filename string) (string, bool) {
	if l.mirror != nil {
		if body, ok := l.mirror.Get(key); ok {
			l.logger.Debug("article served from mirror", "key", key)
			return body, true
		}
	}

	l.fetches.Add(1)
	body, err := l.fetcher.Fetch(ctx, category, filename)
	if err == nil {
		if l.mirror != nil {
			l.mirror.Set(key, body)
		}
		return body, true
	}

	l.logger.Warn("article unavailable", "key", key, "err", err)
	abandoned := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	return Fallback(filename, err), !abandoned
}

// Fetches reports how many requests reached the fetcher.
func (l *Loader) Fetches() int64 {
	return l.fetches.Load()
}

// Fallback is the document shown in place of an article that could not
// be loaded. It depends only on its inputs.
func Fallback(filename string, err error) string {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSuffix(filename, ".md"))
	b.WriteString("⚠️ **This article could not be loaded.**\n\n")
	b.WriteString("## 🔍 Details\n\n")
	fmt.Fprintf(&b, "- **File**: %s\n", filename)
	fmt.Fprintf(&b, "- **Error**: %s\n\n", reason)
	b.WriteString("## 💡 Possible causes\n\n")
	b.WriteString("1. The file does not exist\n")
	b.WriteString("2. The network connection failed\n")
	b.WriteString("3. The content server is misconfigured\n\n")
	b.WriteString("> Try again later, or run `contact` to reach the author.\n")
	return b.String()
}
