package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/termblog/pkg/config"
)

func TestNewWritesToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.Log{Level: "warn"}, "web", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "addr", ":8080")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "web")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud"}, "x", nil)
	assert.Error(t, err)
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "termblog.log")
	logger, err := New(config.Log{Level: "info", File: path}, "ssh", nil)
	require.NoError(t, err)

	logger.Info("session started", "user", "guest")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "session started"))
}
