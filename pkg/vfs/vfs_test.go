package vfs

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tree := Default()
	tests := map[string]struct {
		cwd   Path
		input string
		want  string
	}{
		"empty keeps cwd":        {cwd: Path{"Document"}, input: "", want: "/Document"},
		"relative appends":       {cwd: Path{"Document"}, input: "Blender", want: "/Document/Blender"},
		"absolute passes":        {cwd: Path{"Document", "Blender"}, input: "/Document/Obsidian", want: "/Document/Obsidian"},
		"dotdot pops":            {cwd: Path{"Document", "Blender"}, input: "..", want: "/Document"},
		"dotdot at root":         {cwd: nil, input: "..", want: "/"},
		"mixed segments":         {cwd: Path{"Document"}, input: "./Blender/../Obsidian/", want: "/Document/Obsidian"},
		"repeated slashes":       {cwd: nil, input: "//Document//Blender", want: "/Document/Blender"},
		"root":                   {cwd: Path{"Document"}, input: "/", want: "/"},
		"unknown still resolves": {cwd: nil, input: "nope", want: "/nope"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := tree.Resolve(tc.cwd, tc.input).String()
			if got != tc.want {
				t.Fatalf("Resolve(%v, %q) = %q, want %q", tc.cwd, tc.input, got, tc.want)
			}
		})
	}
}

func TestLookupErrors(t *testing.T) {
	tree := Default()

	if _, err := tree.Lookup(Path{"Document", "Missing"}); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, err := tree.Lookup(Path{"Document", "Obsidian", "Dataview.md", "x"}); !errors.Is(err, ErrNotDir) {
		t.Fatalf("expected ErrNotDir walking through a file, got %v", err)
	}
	if _, err := tree.List(Path{"Document", "Obsidian", "Dataview.md"}); !errors.Is(err, ErrNotDir) {
		t.Fatalf("expected ErrNotDir listing a file, got %v", err)
	}
}

func TestListKeepsOrder(t *testing.T) {
	tree := Default()
	nodes, err := tree.List(Path{"Document", "Obsidian"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	want := "Dataview.md,markdown基础语法.md,数学块.md"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("List order = %s, want %s", got, want)
	}
}

func TestRender(t *testing.T) {
	want := strings.Join([]string{
		"Document/",
		"├── Blender/",
		"│   └── Blender基础.md",
		"└── Obsidian/",
		"    ├── Dataview.md",
		"    ├── markdown基础语法.md",
		"    └── 数学块.md",
	}, "\n")
	if got := Default().Render(); got != want {
		t.Fatalf("Render mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestFind(t *testing.T) {
	tree := Default()
	got := tree.Find("BLENDER")
	if len(got) != 1 || got[0] != "Document/Blender/Blender基础.md" {
		t.Fatalf("Find(BLENDER) = %v", got)
	}
	if got := tree.Find(".md"); len(got) != 4 {
		t.Fatalf("Find(.md) = %v, want all four files", got)
	}
	if got := tree.Find("zzz"); len(got) != 0 {
		t.Fatalf("Find(zzz) = %v, want none", got)
	}
}

func TestDirsAndFiles(t *testing.T) {
	tree := Default()
	if got := strings.Join(tree.Dirs(), ","); got != "Document,Blender,Obsidian" {
		t.Fatalf("Dirs = %s", got)
	}
	if got := len(tree.FileNames()); got != 4 {
		t.Fatalf("FileNames len = %d", got)
	}
}
