package terminal

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/termblog/pkg/markdown"
)

type fakeLoader struct {
	mu    sync.Mutex
	docs  map[string]string
	calls int
}

func (f *fakeLoader) Load(_ context.Context, category, filename string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if body, ok := f.docs[category+"/"+filename]; ok {
		return body
	}
	return "# " + strings.TrimSuffix(filename, ".md") + "\n\nbody of " + filename + "\n"
}

type blockingLoader struct {
	started chan struct{}
}

func (b *blockingLoader) Load(ctx context.Context, _, filename string) string {
	close(b.started)
	<-ctx.Done()
	return "# " + filename
}

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(func() time.Time { return time.Date(2024, 1, 15, 9, 4, 5, 0, time.UTC) }),
	}
	return New(&fakeLoader{}, DefaultOptions(), append(base, opts...)...)
}

// texts returns the text of every Line block after the echo.
func texts(res Result) []string {
	var out []string
	for _, b := range res.Blocks[1:] {
		if l, ok := b.(Line); ok {
			out = append(out, l.Text)
		}
	}
	return out
}

func run(t *testing.T, s *Session, line string) Result {
	t.Helper()
	return s.Execute(context.Background(), line)
}

func TestCdThenPwd(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Document", "/Document"},
		{"Document/Blender", "/Document/Blender"},
		{"/Document/Obsidian", "/Document/Obsidian"},
		{"Document/Obsidian/../Blender", "/Document/Blender"},
		{"./Document//Obsidian/", "/Document/Obsidian"},
		{"..", "/"},
		{"~", "/"},
		{"", "/"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			s := newSession(t)
			res := run(t, s, strings.TrimSpace("cd "+tc.in))
			if got := texts(res); len(got) != 0 {
				t.Fatalf("cd %q printed %q", tc.in, got)
			}
			if got := texts(run(t, s, "pwd")); len(got) != 1 || got[0] != tc.want {
				t.Fatalf("pwd after cd %q = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCdRelative(t *testing.T) {
	s := newSession(t)
	run(t, s, "cd Document")
	run(t, s, "cd Obsidian")
	if got := s.Cwd().String(); got != "/Document/Obsidian" {
		t.Fatalf("unexpected cwd %s", got)
	}
	if got := s.Prompt(); got != "AFulcrum@blog:/Document/Obsidian$" {
		t.Fatalf("unexpected prompt %s", got)
	}
}

func TestCdFailureKeepsCwd(t *testing.T) {
	s := newSession(t)
	run(t, s, "cd Document/Blender")

	got := texts(run(t, s, "cd ../Nope"))
	if len(got) != 1 || got[0] != "cd: ../Nope: No such file or directory" {
		t.Fatalf("unexpected output %q", got)
	}
	got = texts(run(t, s, "cd Blender基础.md"))
	if len(got) != 1 || got[0] != "cd: Blender基础.md: Not a directory" {
		t.Fatalf("unexpected output %q", got)
	}
	if cwd := s.Cwd().String(); cwd != "/Document/Blender" {
		t.Fatalf("failed cd moved to %s", cwd)
	}
}

func TestLs(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, []string{"  Document/"}, texts(run(t, s, "ls")))
	assert.Equal(t, []string{"  Blender/", "  Obsidian/"}, texts(run(t, s, "ls Document")))
	assert.Equal(t,
		[]string{"  Dataview.md", "  markdown基础语法.md", "  数学块.md"},
		texts(run(t, s, "ls /Document/Obsidian")))
	assert.Equal(t,
		[]string{"ls: cannot access 'Nope': No such file or directory"},
		texts(run(t, s, "ls Nope")))
}

func TestLsOnFile(t *testing.T) {
	s := newSession(t)
	run(t, s, "cd Document")
	for _, p := range []string{
		"Blender/Blender基础.md",
		"/Document/Obsidian/Dataview.md",
		"Obsidian/数学块.md/",
		"Obsidian/数学块.md/deeper",
	} {
		got := texts(run(t, s, "ls "+p))
		if len(got) != 1 || !strings.Contains(got[0], "Not a directory") {
			t.Fatalf("ls %s = %q, want a not-a-directory error", p, got)
		}
	}
}

func TestCatKnownFiles(t *testing.T) {
	s := newSession(t)
	for _, a := range s.Catalog().Articles() {
		res := run(t, s, "cat "+a.Path())
		require.Len(t, res.Blocks, 6, "cat %s", a.Path())

		doc, ok := res.Blocks[3].(Article)
		require.True(t, ok, "cat %s: block 3 is %T", a.Path(), res.Blocks[3])
		assert.Equal(t, a.File, doc.Name)

		heading, ok := markdown.FirstHeading(doc.Source)
		require.True(t, ok)
		assert.Equal(t, a.Name(), heading)
		assert.Contains(t, markdown.HTML(doc.Source), `class="markdown-h1"`)

		last := res.Blocks[5].(Line)
		assert.Equal(t, KindSuccess, last.Kind)
	}
}

func TestCatUsesBaseName(t *testing.T) {
	s := newSession(t)
	res := run(t, s, "cat somewhere/else/Dataview.md")
	_, ok := res.Blocks[3].(Article)
	assert.True(t, ok)
}

func TestCatErrors(t *testing.T) {
	s := newSession(t)
	tests := map[string][]string{
		"cat":                  {"cat: missing file operand", "usage: cat <filename>"},
		"cat Document/Blender": {"cat: Document/Blender: not a text file"},
		"cat notes.txt":        {"cat: notes.txt: not a text file"},
		"cat Document/nope.md": {"cat: Document/nope.md: No such file"},
	}
	for line, want := range tests {
		assert.Equal(t, want, texts(run(t, s, line)), line)
	}
}

func TestFind(t *testing.T) {
	s := newSession(t)
	paths := s.Catalog().Paths()
	for _, term := range []string{"blender", "OBSIDIAN", ".md", "数学", "基础", "data"} {
		var want []string
		for _, p := range paths {
			if strings.Contains(strings.ToLower(p), strings.ToLower(term)) {
				want = append(want, "  "+p)
			}
		}
		got := texts(run(t, s, "find "+term))
		require.NotEmpty(t, want, term)
		assert.Equal(t, want, got[1:], term)
	}

	got := texts(run(t, s, "find zzz"))
	assert.Equal(t, []string{`find: no files matching "zzz"`}, got)

	res := run(t, s, "find")
	assert.Equal(t, KindError, res.Blocks[1].(Line).Kind)
}

func TestGrep(t *testing.T) {
	loader := &fakeLoader{docs: map[string]string{
		"Obsidian/Dataview.md": "# Dataview\n\nTABLE file.name\nmore table rows\n",
	}}
	s := New(loader, DefaultOptions())

	got := texts(s.Execute(context.Background(), "grep table"))
	assert.Equal(t, []string{
		`searching articles for "table"...`,
		"results:",
		"  Document/Obsidian/Dataview.md: 2 matching lines",
	}, got)
	assert.Equal(t, len(s.Catalog().Articles()), loader.calls)

	got = texts(s.Execute(context.Background(), "grep nothing-here"))
	assert.Equal(t, `grep: no articles matching "nothing-here"`, got[len(got)-1])

	res := s.Execute(context.Background(), "grep")
	assert.Equal(t, KindError, res.Blocks[1].(Line).Kind)
}

func TestUnknownCommand(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, []string{
		"bash: frobnicate: command not found",
		`type "help" to see available commands`,
	}, texts(run(t, s, "frobnicate --now")))
}

func TestCommandNamesIgnoreCase(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, []string{"/"}, texts(run(t, s, "PWD")))
	assert.Equal(t, []string{"AFulcrum - Terminal Blog Creator"}, texts(run(t, s, "WhoAmI")))
}

func TestSubmit(t *testing.T) {
	s := newSession(t)

	echo, p := s.Submit("   ")
	assert.Nil(t, p)
	assert.Equal(t, Line{Kind: KindPrompt, Text: "AFulcrum@blog:/$"}, echo)
	assert.Equal(t, 0, s.Commands())

	for i := 0; i < 50; i++ {
		echo, p = s.Submit("  ls  ")
		require.NotNil(t, p)
		assert.Equal(t, "AFulcrum@blog:/$ ls", echo.Text)
		assert.Equal(t, "ls", p.Line)
		assert.GreaterOrEqual(t, p.Delay, 100*time.Millisecond)
		assert.LessOrEqual(t, p.Delay, 400*time.Millisecond)
	}
	assert.Equal(t, 50, s.Commands())
}

func TestFixedDelay(t *testing.T) {
	opts := DefaultOptions()
	opts.MinDelay, opts.MaxDelay = 0, 0
	s := New(&fakeLoader{}, opts)
	_, p := s.Submit("pwd")
	assert.Zero(t, p.Delay)
}

func TestLatestSubmissionWins(t *testing.T) {
	s := newSession(t)
	_, first := s.Submit("cd Document")
	_, second := s.Submit("pwd")

	_, ok := s.Run(context.Background(), first)
	assert.False(t, ok, "superseded command must not run")
	assert.Equal(t, "/", s.Cwd().String(), "superseded command must not change state")

	res, ok := s.Run(context.Background(), second)
	require.True(t, ok)
	assert.Equal(t, second.Token, res.Token)
	assert.Equal(t, []Block{info("/")}, res.Blocks)

	_, ok = s.Run(context.Background(), second)
	assert.True(t, ok, "the latest ticket stays runnable")
}

func TestCancelDropsPending(t *testing.T) {
	s := newSession(t)
	_, p := s.Submit("cd Document")
	s.Cancel()
	_, ok := s.Run(context.Background(), p)
	assert.False(t, ok)
	assert.Equal(t, "/", s.Cwd().String())
}

func TestCancelInterruptsRunning(t *testing.T) {
	loader := &blockingLoader{started: make(chan struct{})}
	s := New(loader, DefaultOptions())
	_, p := s.Submit("cat Dataview.md")

	done := make(chan bool)
	go func() {
		_, ok := s.Run(context.Background(), p)
		done <- ok
	}()
	<-loader.started
	s.Cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("cancel did not interrupt the running command")
	}
}

func TestHistoryCommand(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, []string{"📜 command history", "  1: history"}, texts(run(t, s, "history")))

	run(t, s, "pwd")
	run(t, s, "ls")
	assert.Equal(t, []string{
		"📜 command history",
		"  4: history",
		"  3: ls",
		"  2: pwd",
		"  1: history",
	}, texts(run(t, s, "history")))

	for i := 0; i < 30; i++ {
		run(t, s, "pwd")
	}
	got := texts(run(t, s, "history"))
	assert.Len(t, got, 21)
	assert.Equal(t, "  35: history", got[1])
}

func TestSessionHistoryNavigation(t *testing.T) {
	s := newSession(t)
	for _, l := range []string{"a", "b", "c"} {
		run(t, s, l)
	}
	var got []string
	for i := 0; i < 3; i++ {
		l, _ := s.HistoryUp()
		got = append(got, l)
	}
	for i := 0; i < 3; i++ {
		l, _ := s.HistoryDown()
		got = append(got, l)
	}
	assert.Equal(t, []string{"c", "b", "a", "b", "c", ""}, got)
}

func TestHelp(t *testing.T) {
	s := newSession(t)

	res := run(t, s, "help")
	var names []string
	for _, b := range res.Blocks {
		if tbl, ok := b.(Table); ok {
			for _, r := range tbl.Rows {
				names = append(names, r.Cells[0])
			}
		}
	}
	for _, c := range Commands() {
		assert.Contains(t, names, c.Name)
	}
	assert.Contains(t, names, "Ctrl+L")

	res = run(t, s, "help cat")
	tbl := res.Blocks[1].(Table)
	assert.Equal(t, []string{"Example", "cat Document/Blender/Blender基础.md"}, tbl.Rows[2].Cells)

	res = run(t, s, "help nonsense")
	assert.Greater(t, len(res.Blocks), 3, "unknown topics fall back to the overview")
}

func TestMan(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, []string{"man: missing command name", "usage: man <command>"}, texts(run(t, s, "man")))
	assert.Equal(t, []string{"man: no manual entry for sudo"}, texts(run(t, s, "man sudo")))

	res := run(t, s, "man CD")
	tbl := res.Blocks[1].(Table)
	assert.Equal(t, "📖 cd", tbl.Title)
	assert.Equal(t, "cd Document/Blender", tbl.Rows[2].Cells[1])
}

func TestTheme(t *testing.T) {
	s := newSession(t)

	res := run(t, s, "theme Purple")
	assert.Equal(t, ThemeChange{Name: "purple"}, res.Blocks[1])
	assert.Equal(t, "purple", s.Theme())

	got := texts(run(t, s, "theme pink"))
	assert.Equal(t, []string{`theme: unknown theme "pink"`, "available themes: green, blue, purple, orange"}, got)
	assert.Equal(t, "purple", s.Theme())
}

func TestArticlesAndDocs(t *testing.T) {
	s := newSession(t)

	all := run(t, s, "articles").Blocks[1].(Table)
	assert.Len(t, all.Rows, 4)
	assert.Equal(t, "cat Document/Blender/Blender基础.md", all.Rows[0].Action)

	one := run(t, s, "articles obsidian").Blocks[1].(Table)
	assert.Len(t, one.Rows, 3)
	assert.Equal(t, "🔮 Obsidian 使用指南", one.Title)

	unknown := run(t, s, "articles cooking").Blocks[1].(Table)
	assert.Len(t, unknown.Rows, 4)

	docs := run(t, s, "docs Blender").Blocks
	require.Len(t, docs, 3)
	tbl := docs[2].(Table)
	assert.Equal(t, "🎨 Blender 学习文档 - 3D建模、动画制作相关教程", tbl.Title)
	assert.Equal(t, "cat Document/Blender/Blender基础.md", tbl.Rows[0].Action)
}

func TestClear(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, Clear{Welcome: true}, run(t, s, "clear").Blocks[1])

	opts := DefaultOptions()
	opts.PreserveWelcomeOnClear = false
	s = New(&fakeLoader{}, opts)
	assert.Equal(t, Clear{Welcome: false}, s.Execute(context.Background(), "cls").Blocks[1])
}

func TestFixedOutputs(t *testing.T) {
	s := newSession(t, WithVersion("v1.2.3"))
	assert.Equal(t, []string{"2024/1/15 09:04:05"}, texts(run(t, s, "date")))
	assert.Equal(t, "Terminal Blog v2.0 (Enhanced)", texts(run(t, s, "uname"))[0])

	nf := run(t, s, "neofetch").Blocks[1].(Table)
	rows := map[string]string{}
	for _, r := range nf.Rows {
		rows[r.Cells[0]] = r.Cells[1]
	}
	assert.Equal(t, "AFulcrum@blog", rows["User"])
	assert.Equal(t, "v1.2.3", rows["Build"])
	assert.Equal(t, "0s", rows["Uptime"])
	assert.Equal(t, "3", rows["Commands"])
	assert.Equal(t, "4", rows["Articles"])
}

func TestEffects(t *testing.T) {
	s := newSession(t)

	res := run(t, s, "particles")
	assert.Equal(t, Effect{Name: EffectParticles, On: true}, res.Blocks[1])
	assert.True(t, s.Particles())
	res = run(t, s, "particles")
	assert.Equal(t, Effect{Name: EffectParticles}, res.Blocks[1])
	assert.False(t, s.Particles())

	res = run(t, s, "rainbow")
	assert.Equal(t, Effect{Name: EffectRainbow, On: true, Duration: 10 * time.Second}, res.Blocks[1])

	res = run(t, s, "matrix")
	assert.Equal(t, Effect{Name: EffectMatrix, On: true}, res.Blocks[2])

	got := texts(run(t, s, "easter"))
	assert.Contains(t, eggs, got[0])

	got = texts(run(t, s, "hack"))
	assert.Len(t, got, 7)
	assert.Equal(t, "🎯 hack complete! just kidding~ 😄", got[6])
}

func TestExit(t *testing.T) {
	s := newSession(t)
	for _, l := range []string{"exit", "quit"} {
		res := run(t, s, l)
		assert.True(t, res.Quit, l)
	}
	assert.False(t, run(t, s, "pwd").Quit)
}

func TestWelcome(t *testing.T) {
	s := newSession(t)
	blocks := s.Welcome()
	require.NotEmpty(t, blocks)
	first := blocks[0].(Line)
	assert.Equal(t, KindBanner, first.Kind)

	var all []string
	for _, b := range blocks {
		all = append(all, b.(Line).Text)
	}
	joined := strings.Join(all, "\n")
	assert.Contains(t, joined, "Terminal Blog v2.0")
	assert.Contains(t, joined, "help")
}

func TestOptionsDefaults(t *testing.T) {
	s := New(&fakeLoader{}, Options{Theme: "neon", MinDelay: time.Second, MaxDelay: time.Millisecond})
	opts := s.Options()
	assert.Equal(t, "AFulcrum", opts.User)
	assert.Equal(t, "blog", opts.Host)
	assert.Equal(t, "green", opts.Theme)
	assert.Equal(t, time.Second, opts.MaxDelay)
}
