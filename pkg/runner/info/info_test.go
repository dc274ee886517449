package info

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/termblog/pkg/app"
	"tableflip.dev/termblog/pkg/config"
)

func TestInfo(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "mirror")
	svc, err := app.New(cfg, "test", nil)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	if err := svc.Mirror.Write("Obsidian/Dataview.md", "# cached"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var out bytes.Buffer
	n := Info{Service: svc, Out: &out}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"embedded",
		cfg.Cache.Dir,
		"AFulcrum@blog:/$",
		"localhost:23234",
		"Document/Obsidian/数学块.md",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "cached articles:") {
		t.Fatalf("missing cache count in output:\n%s", got)
	}
}
