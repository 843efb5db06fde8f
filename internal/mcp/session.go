package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	stdnet "net"
	"time"

	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/log"
	abnet "github.com/peterkuimelis/accessbattle/internal/net"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Session  string            `json:"session"`
	Player   int               `json:"player"`
	Command  string            `json:"command,omitempty"`
	OK       *bool             `json:"ok,omitempty"`
	Events   []abnet.EventView `json:"events"`
	State    *game.Sync        `json:"state,omitempty"`
	Board    string            `json:"board,omitempty"`
	YourTurn bool              `json:"your_turn"`
	Moves    []string          `json:"moves,omitempty"`
	GameOver bool              `json:"game_over"`
	Winner   int               `json:"winner,omitempty"`
	Result   string            `json:"result,omitempty"`
	Port     string            `json:"port,omitempty"`
}

// SessionConfig describes the LLM's side of a match.
type SessionConfig struct {
	Player int    // seat of the LLM, 1 or 2
	Name   string // LLM's display name
	Seed   int64
}

// GameSession holds the state of a single MCP game session: one LLM seat
// and one human who joined over TCP.
type GameSession struct {
	session *abnet.Session
	seat    *MCPSeat
	player  int

	listener  stdnet.Listener
	humanConn stdnet.Conn
}

// NewGameSession accepts one human on ln (blocking until they run
// `accessbattle join`), then seats both players and starts the match.
func NewGameSession(ctx context.Context, ln stdnet.Listener, cfg SessionConfig) (*GameSession, error) {
	if cfg.Player != 1 && cfg.Player != 2 {
		return nil, fmt.Errorf("%w: %d", game.ErrInvalidPlayer, cfg.Player)
	}

	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}
	human := abnet.NewNetworkSeat(conn)
	join, err := human.Handshake()
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("read join message: %w", err)
	}

	humanPlayer := game.Opponent(cfg.Player)
	logger := log.NewMemoryLogger()
	g := game.NewGame(game.GameConfig{Logger: logger, Seed: cfg.Seed})
	g.BeginJoin()
	g.SetPlayerName(cfg.Player, cfg.Name)
	g.SetPlayerName(humanPlayer, join.Name)

	sess := &GameSession{
		session:   abnet.NewSession(g, logger),
		seat:      NewMCPSeat(cfg.Player),
		player:    cfg.Player,
		listener:  ln,
		humanConn: conn,
	}
	if err := sess.session.Seat(cfg.Player, sess.seat); err != nil {
		sess.Close()
		return nil, err
	}
	if err := sess.session.Seat(humanPlayer, human); err != nil {
		sess.Close()
		return nil, fmt.Errorf("greet human: %w", err)
	}

	go func() {
		_ = sess.session.Serve(context.Background(), humanPlayer, human)
	}()
	go func() {
		<-sess.session.Done()
		sess.Close()
	}()

	if err := sess.session.Start(ctx); err != nil {
		sess.Close()
		return nil, fmt.Errorf("start game: %w", err)
	}
	return sess, nil
}

// Close releases the TCP resources. The game itself is left as it is.
func (s *GameSession) Close() {
	s.humanConn.Close()
	s.listener.Close()
}

// Submit sends the LLM's command. When it is accepted the call blocks until
// the human has answered or the game is over.
func (s *GameSession) Submit(ctx context.Context, command string) (*ToolResponse, error) {
	ok, err := s.session.Submit(ctx, s.player, command)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := s.seat.WaitForTurn(ctx); err != nil {
			return nil, err
		}
	}
	resp := s.response()
	resp.Command = command
	resp.OK = &ok
	return resp, nil
}

// waitForTurn blocks until the LLM has to act, then reports the board.
func (s *GameSession) waitForTurn(ctx context.Context, timeout time.Duration) (*ToolResponse, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := s.seat.WaitForTurn(ctx); err != nil && ctx.Err() == nil {
		return nil, err
	}
	return s.response(), nil
}

// response builds a ToolResponse from the seat's buffers.
func (s *GameSession) response() *ToolResponse {
	state := s.seat.State()
	over, winner, result := s.seat.Outcome()
	resp := &ToolResponse{
		Session:  s.session.ID.String(),
		Player:   s.player,
		Events:   s.seat.drainEvents(),
		State:    state,
		YourTurn: s.seat.MyMove(),
		GameOver: over,
		Winner:   winner,
		Result:   result,
	}
	if state != nil {
		resp.Board = abnet.RenderBoard(state)
	}
	return resp
}

// Commands lists what the LLM can send for the zero-based field (x, y).
func (s *GameSession) Commands(x, y int) []string {
	state := s.seat.State()
	if state == nil {
		return []string{}
	}
	cmds := state.Commands(x, y)
	if cmds == nil {
		cmds = []string{}
	}
	return cmds
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
