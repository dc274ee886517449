package terminal

import (
	"fmt"
	"runtime"
	"strings"

	"tableflip.dev/termblog/pkg/catalog"
	"tableflip.dev/termblog/pkg/timeutil"
)

const (
	systemName   = "Terminal Blog v2.0"
	historyShown = 20
)

// Themes are the palettes the theme command accepts.
var Themes = []string{"green", "blue", "purple", "orange"}

func validTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

var helpGroups = []struct {
	title string
	names []string
}{
	{"📁 File operations", []string{"ls", "cd", "cat", "pwd", "tree"}},
	{"🔍 Search", []string{"find", "grep", "articles", "docs"}},
	{"⚙️ System", []string{"clear", "history", "theme", "neofetch", "date", "uname"}},
	{"ℹ️ Info", []string{"help", "man", "about", "contact", "whoami"}},
}

func (c *call) help(arg string) []Block {
	if cmd, ok := LookupCommand(arg); ok {
		return []Block{Table{
			Title: "📖 " + cmd.Name,
			Rows: []Row{
				{Cells: []string{"Description", cmd.Description}},
				{Cells: []string{"Usage", cmd.Usage}},
				{Cells: []string{"Example", cmd.Example()}, Action: cmd.Example()},
			},
		}}
	}

	out := []Block{success("📚 Terminal Blog command reference")}
	for _, g := range helpGroups {
		t := Table{Title: g.title}
		for _, name := range g.names {
			cmd, _ := LookupCommand(name)
			t.Rows = append(t.Rows, Row{Cells: []string{cmd.Name, cmd.Description}, Action: cmd.Name})
		}
		out = append(out, t)
	}
	out = append(out, Table{
		Title: "⌨️ Keyboard shortcuts",
		Rows: []Row{
			{Cells: []string{"↑ ↓", "browse command history"}},
			{Cells: []string{"Tab", "complete the current word"}},
			{Cells: []string{"Ctrl+C", "interrupt the running command"}},
			{Cells: []string{"Ctrl+L", "clear the screen"}},
		},
		Footer: `💡 type "help <command>" for details`,
	})
	return out
}

func (c *call) man(arg string) []Block {
	if arg == "" {
		return []Block{errorf("man: missing command name"), usage("man")}
	}
	if _, ok := LookupCommand(arg); !ok {
		return []Block{errorf("man: no manual entry for %s", arg)}
	}
	return c.help(arg)
}

func (c *call) history(string) []Block {
	recent, total := c.s.recentHistory(historyShown)
	out := []Block{info("📜 command history")}
	if len(recent) == 0 {
		return append(out, gray("  (empty)"))
	}
	for i, cmd := range recent {
		out = append(out, gray(fmt.Sprintf("  %d: %s", total-i, cmd)))
	}
	return out
}

func (c *call) articles(arg string) []Block {
	cats := c.s.catalog.Categories()
	title := "📚 Articles"
	if cat, ok := c.s.catalog.Category(arg); ok {
		cats = []catalog.Category{cat}
		title = cat.Icon + " " + cat.Title
	}
	t := Table{
		Title:  title,
		Header: []string{"", "Title", "Category", "Level", "Read time", "Updated"},
		Footer: `💡 pick a row or type "cat <path>" to read`,
	}
	for _, cat := range cats {
		for _, a := range cat.Articles {
			t.Rows = append(t.Rows, Row{
				Cells:  []string{a.Icon, a.Title, a.Category, a.Difficulty, a.ReadTime, a.Updated},
				Action: "cat " + a.Path(),
			})
		}
	}
	return []Block{t}
}

func (c *call) docs(arg string) []Block {
	cats := c.s.catalog.Categories()
	if cat, ok := c.s.catalog.Category(arg); ok {
		cats = []catalog.Category{cat}
	}
	out := []Block{success("📖 Documentation")}
	for _, cat := range cats {
		t := Table{
			Title:  fmt.Sprintf("%s %s - %s", cat.Icon, cat.Title, cat.Description),
			Header: []string{"", "Document", "Type", "Tags", "Path"},
		}
		for _, a := range cat.Articles {
			t.Rows = append(t.Rows, Row{
				Cells:  []string{a.Icon, a.DocTitle, a.Type, strings.Join(a.Tags, ", "), a.Path()},
				Action: "cat " + a.Path(),
			})
		}
		out = append(out, t)
	}
	return out
}

func (c *call) setTheme(arg string) []Block {
	name := fold(arg)
	if !validTheme(name) {
		var first Line
		if arg == "" {
			first = errorf("theme: missing theme name")
		} else {
			first = errorf("theme: unknown theme %q", arg)
		}
		return []Block{first, info("available themes: " + strings.Join(Themes, ", "))}
	}
	c.theme = name
	return []Block{ThemeChange{Name: name}, success("🎨 theme switched to " + name)}
}

func (c *call) clear(string) []Block {
	return []Block{Clear{Welcome: c.s.opts.PreserveWelcomeOnClear}}
}

func (c *call) whoami(string) []Block {
	return []Block{info(c.s.opts.User + " - Terminal Blog Creator")}
}

func (c *call) date(string) []Block {
	return []Block{info(c.s.now().Format("2006/1/2 15:04:05"))}
}

func (c *call) uname(string) []Block {
	return []Block{
		info("Terminal Blog v2.0 (Enhanced)"),
		gray("termblog " + c.s.version + " " + runtime.GOOS + "/" + runtime.GOARCH),
	}
}

func (c *call) about(string) []Block {
	return []Block{Table{
		Title: "ℹ️ About Terminal Blog",
		Rows: []Row{
			{Cells: []string{"Version", "v2.0 Enhanced"}},
			{Cells: []string{"Author", c.s.opts.User}},
			{Cells: []string{"Stack", "Go, Bubble Tea, SSH and WebSocket front ends"}},
			{Cells: []string{"Terminal", "a real Linux shell feel for reading articles"}},
			{Cells: []string{"Markdown", "full article rendering with code blocks"}},
			{Cells: []string{"Completion", "Tab completes commands and paths"}},
			{Cells: []string{"Themes", strings.Join(Themes, ", ")}},
		},
		Footer: `💡 type "contact" for contact details or "help" for commands`,
	}}
}

func (c *call) contact(string) []Block {
	return []Block{Table{
		Title: "📞 Contact",
		Rows: []Row{
			{Cells: []string{"GitHub", "https://github.com/AFulcrum"}},
			{Cells: []string{"Blog", "https://afulcrum.github.io"}},
			{Cells: []string{"Project", "https://github.com/AFulcrum/AFulcrum.github.io"}},
			{Cells: []string{"Email", "via GitHub"}},
		},
		Footer: "💡 issues and pull requests are welcome, thanks for stopping by!",
	}}
}

func (c *call) neofetch(string) []Block {
	return []Block{Table{
		Title: "💻 neofetch",
		Rows: []Row{
			{Cells: []string{"User", c.s.opts.User + "@" + c.s.opts.Host}},
			{Cells: []string{"System", systemName}},
			{Cells: []string{"Runtime", runtime.Version()}},
			{Cells: []string{"Build", c.s.version}},
			{Cells: []string{"Uptime", timeutil.Uptime(c.s.Uptime())}},
			{Cells: []string{"Theme", c.theme}},
			{Cells: []string{"CPUs", fmt.Sprint(runtime.NumCPU())}},
			{Cells: []string{"Commands", fmt.Sprint(c.s.Commands())}},
			{Cells: []string{"Articles", fmt.Sprint(len(c.s.catalog.Articles()))}},
		},
	}}
}
