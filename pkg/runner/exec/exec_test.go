package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"tableflip.dev/termblog/pkg/app"
	"tableflip.dev/termblog/pkg/config"
)

func newService(t *testing.T) *app.Service {
	t.Helper()
	svc, err := app.New(config.Default(), "test", nil)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	return svc
}

func TestExecLines(t *testing.T) {
	var out bytes.Buffer
	e := Exec{
		Service: newService(t),
		Lines:   []string{"cd Document", "pwd"},
		Out:     &out,
	}
	if err := e.Do(context.Background()); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if got := out.String(); got != "/Document\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestExecPipeStopsAtExit(t *testing.T) {
	var out bytes.Buffer
	e := Exec{
		Service: newService(t),
		In:      strings.NewReader("whoami\n\nexit\npwd\n"),
		Out:     &out,
		Echo:    true,
	}
	if err := e.Do(context.Background()); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "AFulcrum@blog:/$ whoami") {
		t.Fatalf("missing echo in %q", got)
	}
	if !strings.Contains(got, "goodbye") {
		t.Fatalf("missing exit message in %q", got)
	}
	if strings.Contains(got, "$ pwd") {
		t.Fatalf("ran past exit: %q", got)
	}
}

func TestExecJSON(t *testing.T) {
	var out bytes.Buffer
	e := Exec{
		Service: newService(t),
		Lines:   []string{"cd Document/Obsidian", "nosuchcmd"},
		Out:     &out,
		JSON:    true,
	}
	if err := e.Do(context.Background()); err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 results, got %d: %q", len(lines), out.String())
	}
	var first, second Result
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Cwd != "/Document/Obsidian" || first.Output != "" {
		t.Fatalf("unexpected first result %+v", first)
	}
	if !strings.Contains(second.Output, "command not found") {
		t.Fatalf("unexpected second result %+v", second)
	}
}

func TestExecNeedsInput(t *testing.T) {
	e := Exec{Service: newService(t), Out: &bytes.Buffer{}}
	if err := e.Do(context.Background()); err == nil {
		t.Fatalf("expected error without lines or input")
	}
}
