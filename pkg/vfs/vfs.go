// Package vfs is the read-only directory tree the terminal navigates.
// It never touches a real filesystem.
package vfs

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"tableflip.dev/termblog/pkg/catalog"
)

var (
	// ErrNotExist is returned when a path segment is missing.
	ErrNotExist = errors.New("no such file or directory")
	// ErrNotDir is returned when a directory was expected but a file was found.
	ErrNotDir = errors.New("not a directory")
)

// Kind tells directories and files apart.
type Kind int

const (
	Dir Kind = iota
	File
)

// Node is a directory or a file in the tree.
type Node struct {
	Name     string
	Kind     Kind
	children []*Node
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool { return n.Kind == Dir }

// Children returns a copy of the node's children in insertion order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

func (n *Node) child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Path is a normalized list of segments from the root. The zero value is
// the root itself.
type Path []string

// String renders the path in absolute form.
func (p Path) String() string {
	return "/" + strings.Join(p, "/")
}

// Equal compares two paths segment by segment.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Tree is an immutable directory tree.
type Tree struct {
	root *Node
}

// New builds a tree holding the given slash separated file paths.
// Intermediate directories are created in first-seen order.
func New(files ...string) *Tree {
	root := &Node{Kind: Dir}
	for _, f := range files {
		segs := split(f)
		if len(segs) == 0 {
			continue
		}
		cur := root
		for i, seg := range segs {
			next := cur.child(seg)
			if next == nil {
				kind := Dir
				if i == len(segs)-1 {
					kind = File
				}
				next = &Node{Name: seg, Kind: kind}
				cur.children = append(cur.children, next)
			}
			cur = next
		}
	}
	return &Tree{root: root}
}

// FromCatalog derives the tree from the article catalog.
func FromCatalog(c *catalog.Catalog) *Tree {
	return New(c.Paths()...)
}

// Default is the blog's tree.
func Default() *Tree {
	return FromCatalog(catalog.Default())
}

// Resolve turns user input into a normalized path relative to cwd. Empty
// input yields cwd. A leading slash starts from the root. "." is ignored
// and ".." pops one segment, which is a no-op at the root.
func (t *Tree) Resolve(cwd Path, input string) Path {
	input = strings.TrimSpace(input)
	if input == "" {
		return append(Path(nil), cwd...)
	}
	var out Path
	if !strings.HasPrefix(input, "/") {
		out = append(out, cwd...)
	}
	for _, seg := range strings.Split(input, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	return out
}

// Lookup walks the tree segment by segment.
func (t *Tree) Lookup(p Path) (*Node, error) {
	cur := t.root
	for i, seg := range p {
		if !cur.IsDir() {
			return nil, fmt.Errorf("vfs: %s: %w", Path(p[:i]), ErrNotDir)
		}
		next := cur.child(seg)
		if next == nil {
			return nil, fmt.Errorf("vfs: %s: %w", Path(p[:i+1]), ErrNotExist)
		}
		cur = next
	}
	return cur, nil
}

// List returns the children of the directory at p.
func (t *Tree) List(p Path) ([]*Node, error) {
	n, err := t.Lookup(p)
	if err != nil {
		return nil, err
	}
	if !n.IsDir() {
		return nil, fmt.Errorf("vfs: %s: %w", p, ErrNotDir)
	}
	return n.Children(), nil
}

// Render draws the tree the way `tree` does. Top level entries are printed
// flush left and their descendants hang off box drawing connectors.
func (t *Tree) Render() string {
	var b strings.Builder
	for _, top := range t.root.children {
		b.WriteString(label(top))
		b.WriteString("\n")
		renderChildren(&b, top, "")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderChildren(b *strings.Builder, n *Node, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		connector, pad := "├── ", "│   "
		if last {
			connector, pad = "└── ", "    "
		}
		b.WriteString(prefix + connector + label(c) + "\n")
		if c.IsDir() {
			renderChildren(b, c, prefix+pad)
		}
	}
}

func label(n *Node) string {
	if n.IsDir() {
		return n.Name + "/"
	}
	return n.Name
}

// Files lists every file as a full path, in tree order.
func (t *Tree) Files() []string {
	var out []string
	t.walk(t.root, nil, func(p Path, n *Node) {
		if !n.IsDir() {
			out = append(out, strings.Join(p, "/"))
		}
	})
	return out
}

// FileNames lists the bare name of every file, in tree order.
func (t *Tree) FileNames() []string {
	var out []string
	t.walk(t.root, nil, func(_ Path, n *Node) {
		if !n.IsDir() {
			out = append(out, n.Name)
		}
	})
	return out
}

// Dirs lists the name of every directory below the root, in tree order.
func (t *Tree) Dirs() []string {
	var out []string
	t.walk(t.root, nil, func(_ Path, n *Node) {
		if n.IsDir() {
			out = append(out, n.Name)
		}
	})
	return out
}

// Find returns the file paths containing term, ignoring case.
func (t *Tree) Find(term string) []string {
	fold := cases.Fold()
	want := fold.String(term)
	var out []string
	for _, f := range t.Files() {
		if strings.Contains(fold.String(f), want) {
			out = append(out, f)
		}
	}
	return out
}

func (t *Tree) walk(n *Node, p Path, fn func(Path, *Node)) {
	for _, c := range n.children {
		cp := append(append(Path(nil), p...), c.Name)
		fn(cp, c)
		if c.IsDir() {
			t.walk(c, cp, fn)
		}
	}
}

func split(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
