package sshserver

import (
	"bufio"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tableflip.dev/termblog/pkg/terminal"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type nopLoader struct{}

func (nopLoader) Load(context.Context, string, string) string { return "# empty" }

func newServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{
		Host:        "127.0.0.1",
		HostKeyPath: filepath.Join(t.TempDir(), "keys", "host_ed25519"),
	}
	sessions := func(ssh.Session) *terminal.Session {
		return terminal.New(nopLoader{}, terminal.DefaultOptions())
	}
	return New(cfg, sessions, log.New(io.Discard))
}

func TestServerLifecycle(t *testing.T) {
	s := newServer(t)
	assert.Equal(t, StateCreated, s.State())

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateRunning, s.State())

	addr := s.Address()
	require.NotEmpty(t, addr)

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	banner, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(banner, "SSH-2.0-"), "banner %q", banner)
	require.NoError(t, conn.Close())

	require.NoError(t, s.Stop())
	assert.Equal(t, StateStopped, s.State())
	assert.NoError(t, s.Wait())

	// Stop is idempotent.
	assert.NoError(t, s.Stop())
}

func TestServerCannotRestart(t *testing.T) {
	s := newServer(t)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running")
}

func TestServerStartCancelled(t *testing.T) {
	s := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, s.State())
	assert.Empty(t, s.Address())
	assert.ErrorIs(t, s.Wait(), context.Canceled)
}

func TestServerPortInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	s := newServer(t)
	s.cfg.Port = taken.Addr().(*net.TCPAddr).Port

	require.Error(t, s.Start(context.Background()))
	assert.Equal(t, StateFailed, s.State())
}

func TestStopBeforeStart(t *testing.T) {
	s := newServer(t)
	require.NoError(t, s.Stop())
	assert.Equal(t, StateStopped, s.State())
	assert.Empty(t, s.Address())
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateCreated:  "created",
		StateStarting: "starting",
		StateRunning:  "running",
		StateStopping: "stopping",
		StateStopped:  "stopped",
		StateFailed:   "failed",
		State(42):     "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
