package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/log"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	name string
	in   io.Reader
	out  io.Writer

	// Layout is deployed automatically when the server asks for it.
	Layout string

	player   int
	state    *game.Sync
	deployed bool
}

// NewClient creates a REPL client on an established connection.
func NewClient(conn net.Conn, name string, in io.Reader, out io.Writer) *Client {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Client{conn: conn, name: name, in: in, out: out}
}

// Connect connects to a server, sends the join message and runs the REPL.
// A non-empty layout is deployed without asking.
func Connect(ctx context.Context, addr, name, layout string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")

	c := NewClient(conn, name, nil, nil)
	c.Layout = layout
	return c.RunREPL(ctx)
}

// RunREPL reads server messages and user input until the game ends.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	// Writes go through their own goroutine so that reading never waits on
	// a server that is busy publishing to us.
	send := make(chan ClientMessage, 16)
	writeErr := make(chan error, 1)
	defer close(send)
	go func() {
		for msg := range send {
			if err := enc.Encode(msg); err != nil {
				writeErr <- fmt.Errorf("send %s: %w", msg.Type, err)
				return
			}
		}
	}()

	msgs := make(chan ServerMessage)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg ServerMessage
			if err := dec.Decode(&msg); err != nil {
				readErr <- err
				return
			}
			select {
			case msgs <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			return fmt.Errorf("read message: %w", err)

		case err := <-writeErr:
			return err

		case msg := <-msgs:
			if done := c.handleMessage(msg); done {
				return nil
			}
			if cmd := c.autoDeploy(); cmd != "" {
				send <- ClientMessage{Type: MsgCommand, Command: cmd}
			}

		case line := <-lines:
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if quit := c.handleLine(send, line); quit {
				return nil
			}
		}
	}
}

// handleMessage renders a server message. It reports whether the game is over.
func (c *Client) handleMessage(msg ServerMessage) bool {
	switch msg.Type {
	case MsgHello:
		c.player = msg.Player
		if c.player == 0 {
			fmt.Fprintf(c.out, "Watching session %s\n", msg.Session)
		} else {
			fmt.Fprintf(c.out, "You are Player %d (session %s). Type 'help' for commands.\n", c.player, msg.Session)
		}

	case MsgNotify:
		c.renderEvent(msg.Event)

	case MsgState:
		c.state = msg.State
		c.renderState()

	case MsgResult:
		if msg.OK != nil && !*msg.OK {
			fmt.Fprintf(c.out, "Command rejected: %s\n", msg.Command)
			c.prompt()
		}

	case MsgError:
		fmt.Fprintf(c.out, "Server error: %s\n", msg.Error)

	case MsgGameOver:
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "═══════════════════════════════════")
		fmt.Fprintln(c.out, "          GAME OVER")
		fmt.Fprintln(c.out, "═══════════════════════════════════")
		fmt.Fprintln(c.out, msg.Result)
		fmt.Fprintln(c.out, "═══════════════════════════════════")
		return true
	}
	return false
}

// autoDeploy returns the preset deploy command the first time the server
// waits for this client's deployment.
func (c *Client) autoDeploy() string {
	if c.Layout == "" || c.deployed || c.state == nil || c.state.Phase != game.PhaseDeployment || !c.myMove() {
		return ""
	}
	c.deployed = true
	cmd := game.FormatDeploy(c.Layout)
	fmt.Fprintln(c.out, cmd)
	return cmd
}

// handleLine interprets one line of user input. It reports whether the user quit.
func (c *Client) handleLine(send chan<- ClientMessage, line string) bool {
	word, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(word) {
	case "help", "?":
		c.renderHelp()
	case "board":
		c.renderState()
	case "moves":
		c.renderMoves(rest)
	case "quit", "exit":
		send <- ClientMessage{Type: MsgQuit}
		return true
	case "win":
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			fmt.Fprintln(c.out, "Usage: win 1|2 (0 aborts)")
			return false
		}
		send <- ClientMessage{Type: MsgWin, Winner: n}
	default:
		if c.player == 0 {
			fmt.Fprintln(c.out, "Spectators cannot send commands.")
			return false
		}
		send <- ClientMessage{Type: MsgCommand, Command: line}
	}
	return false
}

func (c *Client) renderHelp() {
	fmt.Fprintln(c.out, "Commands (coordinates start at 1, columns a-h may be letters):")
	fmt.Fprintln(c.out, "  dp LLLLVVVV          deploy 4 links and 4 viruses, left to right")
	fmt.Fprintln(c.out, "  mv x1,y1,x2,y2       move a card (y2=11 enters the server)")
	fmt.Fprintln(c.out, "  mv a2,a3             same, chess notation")
	fmt.Fprintln(c.out, "  bs x,y,1|0           place or remove the boost")
	fmt.Fprintln(c.out, "  fw x,y,1|0           place or remove the firewall")
	fmt.Fprintln(c.out, "  vc x,y               reveal an opponent card (once)")
	fmt.Fprintln(c.out, "  er x1,y1,x2,y2,1|0   hide two own cards, optionally swap (once)")
	fmt.Fprintln(c.out, "  moves x,y            list where a card can go")
	fmt.Fprintln(c.out, "  win 1|2              host only: end the match, 0 aborts")
	fmt.Fprintln(c.out, "  board | help | quit")
}

func (c *Client) renderMoves(arg string) {
	if c.state == nil {
		fmt.Fprintln(c.out, "No board yet.")
		return
	}
	// The virus check syntax is exactly one coordinate pair.
	pos, err := game.ParseCommand("vc " + arg)
	if err != nil {
		fmt.Fprintln(c.out, "Usage: moves x,y")
		return
	}
	targets := c.state.MoveTargets(pos.X1, pos.Y1)
	if len(targets) == 0 {
		fmt.Fprintf(c.out, "No moves from %s\n", log.Square(pos.X1, pos.Y1))
		return
	}
	var names []string
	for _, t := range targets {
		names = append(names, log.Square(t[0], t[1]))
	}
	fmt.Fprintf(c.out, "%s → %s\n", log.Square(pos.X1, pos.Y1), strings.Join(names, ", "))
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	phase := ev.Phase
	for len(phase) < 16 {
		phase += " "
	}
	prefix := ""
	if ev.Severity != "" {
		prefix = ev.Severity + " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s%s\n", ev.Turn, phase, prefix, ev.Details)
}

func (c *Client) renderState() {
	if c.state == nil {
		return
	}
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, RenderBoard(c.state))

	s := c.state
	turnInfo := fmt.Sprintf("Turn %d | %s", s.Turn, s.Phase)
	if c.player != 0 {
		if c.myMove() {
			turnInfo += " | Your move"
		} else if s.Phase.IsTurn() {
			turnInfo += " | Opponent's turn"
		}
	}
	fmt.Fprintln(c.out, turnInfo)
	c.prompt()
}

// myMove reports whether the server is waiting for this client.
func (c *Client) myMove() bool {
	s := c.state
	if s == nil || c.player == 0 {
		return false
	}
	if s.Phase == game.PhaseDeployment {
		return !s.Players[c.player-1].HasDeployed
	}
	return s.Phase.CurrentPlayer() == c.player
}

func (c *Client) prompt() {
	if c.myMove() {
		fmt.Fprint(c.out, "> ")
	}
}

// RenderBoard draws a snapshot as text. Row 8 is on top and the two stack
// rows follow below the board.
func RenderBoard(s *game.Sync) string {
	var b strings.Builder
	b.WriteString("   a    b    c    d    e    f    g    h\n")
	for y := game.MainRows - 1; y >= 0; y-- {
		fmt.Fprintf(&b, "%d  ", y+1)
		for x := 0; x < game.BoardWidth; x++ {
			b.WriteString(cellText(s.Field(x, y)))
		}
		fmt.Fprintf(&b, " %d\n", y+1)
	}
	for p := 1; p <= 2; p++ {
		fmt.Fprintf(&b, "S%d ", p)
		for x := 0; x < game.BoardWidth; x++ {
			b.WriteString(cellText(s.Field(x, game.StackRow(p))))
		}
		ps := s.Players[p-1]
		fmt.Fprintf(&b, " %s", ps.Name)
		if ps.DidVirusCheck {
			b.WriteString(" [vc used]")
		}
		if ps.DidError404 {
			b.WriteString(" [404 used]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// cellText renders one field as a 5 character cell, e.g. "[L1+]".
func cellText(f *game.FieldSync) string {
	if f == nil {
		return " ·   "
	}
	c := f.Card
	if c.Firewall {
		return fmt.Sprintf("[F%d] ", c.Owner)
	}
	t := "?"
	switch c.Type {
	case game.Link:
		t = "L"
	case game.Virus:
		t = "V"
	}
	flag := " "
	switch {
	case c.Boost:
		flag = "+"
	case c.FaceUp:
		flag = "^"
	}
	return fmt.Sprintf("%s%d%s  ", t, c.Owner, flag)
}
