// Package store keeps a persistent mirror of fetched articles on disk so a
// restarted server does not have to fetch them again.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
)

// Mirror is a diskv backed article cache. Keys are "category/filename".
type Mirror struct {
	d        *diskv.Diskv
	basePath string
	logger   *log.Logger
}

// Open creates the mirror rooted at basePath. A leading ~ is expanded.
func Open(basePath string, logger *log.Logger) (*Mirror, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	expanded, err := homedir.Expand(basePath)
	if err != nil {
		return nil, fmt.Errorf("store: expand base path: %w", err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Mirror{d: diskv.New(diskv.Options{
		BasePath:          expanded,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: expanded, logger: logger}, nil
}

// BasePath is the directory the mirror writes to.
func (m *Mirror) BasePath() string {
	return m.basePath
}

// Get implements article.Cache.
func (m *Mirror) Get(key string) (string, bool) {
	if !validKey(key) || !m.d.Has(key) {
		return "", false
	}
	val, err := m.d.Read(key)
	if err != nil {
		m.logger.Warn("mirror read failed", "key", key, "err", err)
		return "", false
	}
	return string(val), true
}

// Set implements article.Cache. Write failures are logged, never returned,
// since the mirror is only an optimization.
func (m *Mirror) Set(key, body string) {
	if err := m.Write(key, body); err != nil {
		m.logger.Warn("mirror write failed", "key", key, "err", err)
	}
}

// Write stores body under key.
func (m *Mirror) Write(key, body string) error {
	if !validKey(key) {
		return fmt.Errorf("store: invalid key %q", key)
	}
	if err := m.d.Write(key, []byte(body)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// Keys lists the mirrored keys in sorted order.
func (m *Mirror) Keys(ctx context.Context) []string {
	var keys []string
	for key := range m.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Purge removes every mirrored article.
func (m *Mirror) Purge() error {
	if err := m.d.EraseAll(); err != nil {
		return fmt.Errorf("store: purge: %w", err)
	}
	return os.MkdirAll(m.basePath, 0o755)
}

func validKey(key string) bool {
	i := strings.Index(key, "/")
	return i > 0 && i < len(key)-1 && strings.Count(key, "/") == 1
}

// Each segment is base64 encoded so article names never need to be valid
// file names on the host.
func keyToPathTransform(key string) *diskv.PathKey {
	category, filename, _ := strings.Cut(key, "/")
	return &diskv.PathKey{
		Path:     []string{encode(category)},
		FileName: encode(filename),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	var category string
	if len(pathKey.Path) > 0 {
		category = decode(pathKey.Path[0])
	}
	return category + "/" + decode(pathKey.FileName)
}

func encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decode(s string) string {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("decode: %s", err)
	}
	return string(b)
}
