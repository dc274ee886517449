// Package exec runs terminal lines without a screen: from arguments or,
// in pipe mode, one per line of input.
package exec

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/termblog/pkg/app"
	"tableflip.dev/termblog/pkg/printers"
	"tableflip.dev/termblog/pkg/terminal"
)

type Exec struct {
	Service *app.Service
	// Lines run in order in one session. When empty, lines are read from In.
	Lines []string
	In    io.Reader
	Out   io.Writer
	// Echo prints the prompt and the line ahead of each result.
	Echo bool
	// JSON writes one object per line instead of text.
	JSON    bool
	Printer *printers.Text
}

// Result is the JSON form of one executed line.
type Result struct {
	Line   string `json:"line"`
	Output string `json:"output"`
	Cwd    string `json:"cwd"`
	Quit   bool   `json:"quit,omitempty"`
}

func (e *Exec) Do(ctx context.Context) error {
	if e.Service == nil {
		return errors.New("exec: no service configured")
	}
	if e.Out == nil {
		return errors.New("exec: no output configured")
	}
	if e.Printer == nil {
		e.Printer = &printers.Text{}
	}
	session := e.Service.NewSession(nil)

	if len(e.Lines) > 0 {
		for _, line := range e.Lines {
			quit, err := e.run(ctx, session, line)
			if err != nil || quit {
				return err
			}
		}
		return nil
	}
	if e.In == nil {
		return errors.New("exec: nothing to run")
	}

	scanner := bufio.NewScanner(e.In)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := e.run(ctx, session, scanner.Text())
		if err != nil || quit {
			return err
		}
	}
	return scanner.Err()
}

func (e *Exec) run(ctx context.Context, session *terminal.Session, line string) (bool, error) {
	if strings.TrimSpace(line) == "" {
		return false, nil
	}
	res := session.Execute(ctx, line)
	echo, blocks := res.Blocks[0], res.Blocks[1:]

	if e.JSON {
		plain := printers.Text{Width: e.Printer.Width}
		b, err := json.Marshal(Result{
			Line:   strings.TrimSpace(line),
			Output: plain.Render(blocks...),
			Cwd:    session.Cwd().String(),
			Quit:   res.Quit,
		})
		if err != nil {
			return false, err
		}
		_, err = fmt.Fprintln(e.Out, string(b))
		return res.Quit, err
	}

	if e.Echo {
		blocks = append([]terminal.Block{echo}, blocks...)
	}
	return res.Quit, e.Printer.Fprint(e.Out, blocks...)
}
