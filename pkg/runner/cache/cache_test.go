package cache

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/termblog/pkg/store"
)

func TestListAndPurge(t *testing.T) {
	ctx := context.Background()
	m, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var out bytes.Buffer
	if err := (&List{Mirror: m, Out: &out}).Do(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "no cached articles") {
		t.Fatalf("unexpected empty listing %q", out.String())
	}

	for _, key := range []string{"Obsidian/Dataview.md", "Blender/Blender基础.md"} {
		if err := m.Write(key, "# body"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	out.Reset()
	if err := (&List{Mirror: m, Out: &out}).Do(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := out.String(); got != "Blender/Blender基础.md\nObsidian/Dataview.md\n" {
		t.Fatalf("unexpected listing %q", got)
	}

	out.Reset()
	if err := (&Purge{Mirror: m, Out: &out}).Do(ctx); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "removed 2 cached articles") {
		t.Fatalf("unexpected purge output %q", out.String())
	}
	if keys := m.Keys(ctx); len(keys) != 0 {
		t.Fatalf("expected empty mirror, got %v", keys)
	}
}

func TestDisabled(t *testing.T) {
	if err := (&List{}).Do(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if err := (&Purge{}).Do(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
