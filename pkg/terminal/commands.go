package terminal

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"tableflip.dev/termblog/pkg/vfs"
)

// Command describes one entry of the help table.
type Command struct {
	Name        string
	Description string
	Usage       string
}

// Example is a sample invocation shown by help.
func (c Command) Example() string {
	switch c.Name {
	case "cat":
		return "cat Document/Blender/Blender基础.md"
	case "cd":
		return "cd Document/Blender"
	case "find":
		return "find blender"
	case "grep":
		return "grep 教程"
	}
	return c.Usage
}

var commands = []Command{
	{Name: "help", Description: "show available commands", Usage: "help [command]"},
	{Name: "ls", Description: "list directory contents", Usage: "ls [directory]"},
	{Name: "cd", Description: "change directory", Usage: "cd <directory>"},
	{Name: "cat", Description: "show file contents", Usage: "cat <filename>"},
	{Name: "pwd", Description: "print working directory", Usage: "pwd"},
	{Name: "tree", Description: "show the directory tree", Usage: "tree"},
	{Name: "find", Description: "search files by name", Usage: "find <pattern>"},
	{Name: "grep", Description: "search article contents", Usage: "grep <pattern>"},
	{Name: "articles", Description: "list articles", Usage: "articles [category]"},
	{Name: "docs", Description: "browse documentation", Usage: "docs [category]"},
	{Name: "clear", Description: "clear the terminal", Usage: "clear"},
	{Name: "whoami", Description: "show user information", Usage: "whoami"},
	{Name: "date", Description: "show the current time", Usage: "date"},
	{Name: "uname", Description: "show system information", Usage: "uname"},
	{Name: "history", Description: "show command history", Usage: "history"},
	{Name: "man", Description: "show a command manual", Usage: "man <command>"},
	{Name: "theme", Description: "switch color theme", Usage: "theme <color>"},
	{Name: "about", Description: "about this blog", Usage: "about"},
	{Name: "contact", Description: "contact information", Usage: "contact"},
	{Name: "neofetch", Description: "show a system summary", Usage: "neofetch"},
}

// Commands lists the documented commands in help order.
func Commands() []Command {
	return append([]Command(nil), commands...)
}

// LookupCommand finds a documented command, ignoring case.
func LookupCommand(name string) (Command, bool) {
	want := fold(name)
	for _, c := range commands {
		if c.Name == want {
			return c, true
		}
	}
	return Command{}, false
}

type handler func(c *call, arg string) []Block

// Filled in init so handlers like help can refer back to the table.
var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"help":      (*call).help,
		"ls":        (*call).ls,
		"cd":        (*call).cd,
		"cat":       (*call).cat,
		"pwd":       (*call).pwd,
		"tree":      (*call).tree,
		"find":      (*call).find,
		"grep":      (*call).grep,
		"articles":  (*call).articles,
		"docs":      (*call).docs,
		"clear":     (*call).clear,
		"cls":       (*call).clear,
		"whoami":    (*call).whoami,
		"date":      (*call).date,
		"uname":     (*call).uname,
		"history":   (*call).history,
		"man":       (*call).man,
		"theme":     (*call).setTheme,
		"about":     (*call).about,
		"contact":   (*call).contact,
		"neofetch":  (*call).neofetch,
		"matrix":    (*call).matrix,
		"easter":    (*call).easter,
		"hack":      (*call).hack,
		"particles": (*call).toggleParticles,
		"rainbow":   (*call).rainbow,
		"exit":      (*call).exit,
		"quit":      (*call).exit,
	}
}

// call is one command execution. Handlers change the copies of session
// state held here; Run commits them only if the command is still current.
type call struct {
	s         *Session
	ctx       context.Context
	cwd       vfs.Path
	theme     string
	particles bool
	quit      bool
}

func (c *call) dispatch(line string) []Block {
	name, arg := splitCommand(line)
	h, ok := handlers[fold(name)]
	if !ok {
		return []Block{
			errorf("bash: %s: command not found", name),
			info(`type "help" to see available commands`),
		}
	}
	c.s.logger.Debug("command", "name", name, "arg", arg)
	return h(c, arg)
}

// splitCommand cuts line at its first run of whitespace.
func splitCommand(line string) (name, arg string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func info(s string) Line    { return Line{Kind: KindInfo, Text: s} }
func success(s string) Line { return Line{Kind: KindSuccess, Text: s} }
func warning(s string) Line { return Line{Kind: KindWarning, Text: s} }
func gray(s string) Line    { return Line{Kind: KindGray, Text: s} }

func errorf(format string, args ...any) Line {
	return Line{Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

func usage(name string) Line {
	cmd, _ := LookupCommand(name)
	return info("usage: " + cmd.Usage)
}
