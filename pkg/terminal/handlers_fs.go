package terminal

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"tableflip.dev/termblog/pkg/vfs"
)

const rulerWidth = 60

func ruler() Line {
	return gray(strings.Repeat("─", rulerWidth))
}

func (c *call) pwd(string) []Block {
	return []Block{info(c.cwd.String())}
}

func (c *call) ls(arg string) []Block {
	p := c.s.tree.Resolve(c.cwd, arg)
	display := arg
	if display == "" {
		display = p.String()
	}
	entries, err := c.s.tree.List(p)
	switch {
	case errors.Is(err, vfs.ErrNotDir):
		return []Block{errorf("ls: %s: Not a directory", display)}
	case err != nil:
		return []Block{errorf("ls: cannot access '%s': No such file or directory", display)}
	}
	if len(entries) == 0 {
		return []Block{gray("directory is empty")}
	}
	out := make([]Block, 0, len(entries))
	for _, n := range entries {
		if n.IsDir() {
			out = append(out, Line{Kind: KindDirectory, Text: "  " + n.Name + "/"})
		} else {
			out = append(out, Line{Kind: KindFile, Text: "  " + n.Name})
		}
	}
	return out
}

func (c *call) cd(arg string) []Block {
	if arg == "" || arg == "~" {
		c.cwd = nil
		return nil
	}
	p := c.s.tree.Resolve(c.cwd, arg)
	n, err := c.s.tree.Lookup(p)
	switch {
	case errors.Is(err, vfs.ErrNotDir):
		return []Block{errorf("cd: %s: Not a directory", arg)}
	case err != nil:
		return []Block{errorf("cd: %s: No such file or directory", arg)}
	case !n.IsDir():
		return []Block{errorf("cd: %s: Not a directory", arg)}
	}
	c.cwd = p
	return nil
}

func (c *call) tree(string) []Block {
	rendered := strings.TrimRight(c.s.tree.Render(), "\n")
	var out []Block
	for _, l := range strings.Split(rendered, "\n") {
		kind := KindFile
		if strings.HasSuffix(l, "/") {
			kind = KindDirectory
		}
		out = append(out, Line{Kind: kind, Text: l})
	}
	return out
}

// cat only looks at the file name; the directory part of the argument is
// never resolved.
func (c *call) cat(arg string) []Block {
	if arg == "" {
		return []Block{errorf("cat: missing file operand"), usage("cat")}
	}
	name := path.Base(strings.TrimRight(arg, "/"))
	if !strings.HasSuffix(name, ".md") {
		return []Block{errorf("cat: %s: not a text file", arg)}
	}
	a, ok := c.s.catalog.ByFile(name)
	if !ok {
		return []Block{errorf("cat: %s: No such file", arg)}
	}

	body := c.s.loader.Load(c.ctx, a.Category, a.File)
	return []Block{
		info("📖 loading document..."),
		ruler(),
		Article{Name: a.File, Source: body},
		ruler(),
		success(fmt.Sprintf("✅ document %s loaded", a.File)),
	}
}

func (c *call) find(arg string) []Block {
	if arg == "" {
		return []Block{errorf("find: missing search term"), usage("find")}
	}
	matches := c.s.tree.Find(arg)
	if len(matches) == 0 {
		return []Block{warning(fmt.Sprintf("find: no files matching %q", arg))}
	}
	out := []Block{success(fmt.Sprintf("found %d matching files:", len(matches)))}
	for _, m := range matches {
		out = append(out, Line{Kind: KindFile, Text: "  " + m})
	}
	return out
}

func (c *call) grep(arg string) []Block {
	if arg == "" {
		return []Block{errorf("grep: missing search pattern"), usage("grep")}
	}
	want := fold(arg)
	out := []Block{info(fmt.Sprintf("searching articles for %q...", arg))}

	var hits []Block
	for _, a := range c.s.catalog.Articles() {
		if c.ctx.Err() != nil {
			return out
		}
		body := c.s.loader.Load(c.ctx, a.Category, a.File)
		n := 0
		for _, l := range strings.Split(body, "\n") {
			if strings.Contains(fold(l), want) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, Line{Kind: KindFile, Text: fmt.Sprintf("  %s: %d matching lines", a.Path(), n)})
		}
	}
	if len(hits) == 0 {
		return append(out, warning(fmt.Sprintf("grep: no articles matching %q", arg)))
	}
	out = append(out, success("results:"))
	return append(out, hits...)
}
