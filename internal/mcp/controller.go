package mcp

import (
	"context"
	"sync"

	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/net"
)

// MCPSeat implements net.Seat for the LLM. It buffers the events and the
// latest board it is sent and wakes a waiting tool call whenever the game
// needs the LLM's command or has ended.
type MCPSeat struct {
	player int
	ready  chan struct{}

	mu     sync.Mutex
	events []net.EventView
	state  *game.Sync
	over   bool
	winner int
	result string
}

// NewMCPSeat creates a seat for the given player.
func NewMCPSeat(player int) *MCPSeat {
	return &MCPSeat{
		player: player,
		ready:  make(chan struct{}, 1),
	}
}

// Send implements net.Seat.
func (c *MCPSeat) Send(msg net.ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Type {
	case net.MsgNotify:
		if msg.Event != nil {
			c.events = append(c.events, *msg.Event)
		}
	case net.MsgState:
		c.state = msg.State
		if c.myMoveLocked() {
			c.signal()
		}
	case net.MsgGameOver:
		c.over = true
		c.winner = msg.Winner
		c.result = msg.Result
		c.signal()
	}
	return nil
}

func (c *MCPSeat) signal() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// myMoveLocked reports whether the last board waits for this seat. Caller
// holds mu.
func (c *MCPSeat) myMoveLocked() bool {
	s := c.state
	if s == nil {
		return false
	}
	if s.Phase == game.PhaseDeployment {
		return !s.Players[c.player-1].HasDeployed
	}
	return s.Phase.CurrentPlayer() == c.player
}

// MyMove reports whether the game is waiting for this seat.
func (c *MCPSeat) MyMove() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.over && c.myMoveLocked()
}

// WaitForTurn blocks until it is this seat's move or the game is over.
// Stale wake-ups are skipped by re-checking the last board.
func (c *MCPSeat) WaitForTurn(ctx context.Context) error {
	for {
		c.mu.Lock()
		done := c.over || c.myMoveLocked()
		c.mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.ready:
		}
	}
}

// drainEvents returns all buffered events and clears the buffer.
func (c *MCPSeat) drainEvents() []net.EventView {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := c.events
	c.events = nil
	if events == nil {
		events = []net.EventView{}
	}
	return events
}

// State returns the latest board as seen by this seat.
func (c *MCPSeat) State() *game.Sync {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Outcome reports whether the game is over and how it ended.
func (c *MCPSeat) Outcome() (over bool, winner int, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.over, c.winner, c.result
}
