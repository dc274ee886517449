package webui

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"tableflip.dev/termblog/pkg/printers"
	"tableflip.dev/termblog/pkg/terminal"
)

const maxMessageSize = 64 << 10

// SafeConn serializes writes to a websocket. Reads stay with the single
// reader goroutine.
type SafeConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  bool
}

func NewSafeConn(conn *websocket.Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteJSON writes v as one message. Writes after Close are dropped.
func (sc *SafeConn) WriteJSON(v any) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	if sc.closed {
		return nil
	}
	_ = sc.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return sc.conn.WriteJSON(v)
}

// Close closes the underlying connection once.
func (sc *SafeConn) Close() error {
	sc.writeMu.Lock()
	if sc.closed {
		sc.writeMu.Unlock()
		return nil
	}
	sc.closed = true
	sc.writeMu.Unlock()
	return sc.conn.Close()
}

// Messages from the page.
type clientMessage struct {
	Type      string `json:"type"`
	Line      string `json:"line,omitempty"`
	Input     string `json:"input,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type echoMessage struct {
	Type string `json:"type"`
	HTML string `json:"html"`
}

type pendingMessage struct {
	Type  string `json:"type"`
	Token uint64 `json:"token"`
}

type effectMessage struct {
	Name     string `json:"name"`
	On       bool   `json:"on"`
	Duration int64  `json:"duration_ms,omitempty"`
}

type outputMessage struct {
	Type    string          `json:"type"`
	Token   uint64          `json:"token,omitempty"`
	HTML    string          `json:"html"`
	Prompt  string          `json:"prompt"`
	Theme   string          `json:"theme"`
	Clear   bool            `json:"clear,omitempty"`
	Welcome bool            `json:"welcome,omitempty"`
	Effects []effectMessage `json:"effects,omitempty"`
	Quit    bool            `json:"quit,omitempty"`
}

type suggestionItem struct {
	Kind        string `json:"kind"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
}

type suggestionsMessage struct {
	Type  string           `json:"type"`
	Items []suggestionItem `json:"items"`
}

type inputMessage struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// client is one connected page and its terminal session.
type client struct {
	conn    *SafeConn
	session *terminal.Session
	logger  *log.Logger
	ctx     context.Context
	runs    sync.WaitGroup
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.handlers.Add(1)
	defer s.handlers.Done()

	sc := NewSafeConn(conn)
	defer sc.Close()
	s.connections.Store(sc, &ConnectionInfo{Remote: r.RemoteAddr, ConnectedAt: time.Now()})
	defer s.connections.Delete(sc)

	ctx, cancel := context.WithCancel(r.Context())
	c := &client{
		conn:    sc,
		session: s.newSession(r),
		logger:  s.logger.With("remote", r.RemoteAddr),
		ctx:     ctx,
	}
	defer func() {
		cancel()
		c.session.Cancel()
		c.runs.Wait()
	}()

	c.logger.Info("websocket connected")
	start := time.Now()
	defer func() { c.logger.Info("websocket disconnected", "duration", time.Since(start).Round(time.Millisecond)) }()

	if err := c.welcome(); err != nil {
		return
	}

	conn.SetReadLimit(maxMessageSize)
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		if err := c.handle(msg); err != nil {
			c.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (c *client) welcome() error {
	return c.conn.WriteJSON(outputMessage{
		Type:    "output",
		HTML:    printers.HTML(c.session.Welcome()...),
		Prompt:  c.session.Prompt(),
		Theme:   c.session.Theme(),
		Welcome: true,
	})
}

func (c *client) handle(msg clientMessage) error {
	switch msg.Type {
	case "command":
		return c.command(msg.Line)
	case "suggest":
		return c.suggest(msg.Input)
	case "history":
		recall := c.session.HistoryUp
		if msg.Direction == "down" {
			recall = c.session.HistoryDown
		}
		if line, ok := recall(); ok {
			return c.conn.WriteJSON(inputMessage{Type: "input", Value: line})
		}
		return nil
	case "cancel":
		echo := terminal.Line{Kind: terminal.KindPrompt, Text: c.session.Prompt() + " " + msg.Line + "^C"}
		c.session.Cancel()
		return c.conn.WriteJSON(echoMessage{Type: "echo", HTML: printers.HTML(echo)})
	case "ping":
		return c.conn.WriteJSON(map[string]any{"type": "pong", "timestamp": time.Now().Unix()})
	default:
		c.logger.Debug("unknown message", "type", msg.Type)
		return nil
	}
}

// command echoes line right away and runs it after its delay. The output
// goes out only if nothing newer was submitted meanwhile.
func (c *client) command(line string) error {
	echo, p := c.session.Submit(line)
	if err := c.conn.WriteJSON(echoMessage{Type: "echo", HTML: printers.HTML(echo)}); err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if err := c.conn.WriteJSON(pendingMessage{Type: "pending", Token: p.Token}); err != nil {
		return err
	}
	c.runs.Add(1)
	go c.run(p)
	return nil
}

func (c *client) run(p *terminal.Pending) {
	defer c.runs.Done()
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-c.ctx.Done():
			return
		case <-timer.C:
		}
	}
	res, ok := c.session.Run(c.ctx, p)
	if !ok {
		return
	}
	if err := c.conn.WriteJSON(c.output(res)); err != nil {
		c.logger.Debug("websocket write failed", "error", err)
	}
}

func (c *client) output(res terminal.Result) outputMessage {
	msg := outputMessage{Type: "output", Token: res.Token, Quit: res.Quit}
	var blocks []terminal.Block
	for _, b := range res.Blocks {
		switch b := b.(type) {
		case terminal.Clear:
			msg.Clear = true
			msg.Welcome = b.Welcome
			blocks = nil
			if b.Welcome {
				blocks = append(blocks, c.session.Welcome()...)
			}
		case terminal.Effect:
			msg.Effects = append(msg.Effects, effectMessage{
				Name:     b.Name,
				On:       b.On,
				Duration: b.Duration.Milliseconds(),
			})
		case terminal.ThemeChange:
			// Theme below carries it.
		default:
			blocks = append(blocks, b)
		}
	}
	msg.HTML = printers.HTML(blocks...)
	msg.Prompt = c.session.Prompt()
	msg.Theme = c.session.Theme()
	return msg
}

func (c *client) suggest(input string) error {
	items := make([]suggestionItem, 0)
	for _, s := range c.session.Suggest(input) {
		items = append(items, suggestionItem{
			Kind:        string(s.Kind),
			Text:        s.Text,
			Description: s.Description,
			Value:       s.Value,
		})
	}
	return c.conn.WriteJSON(suggestionsMessage{Type: "suggestions", Items: items})
}
