package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/peterkuimelis/accessbattle/internal/log"
)

// ScriptedActor is an Actor that replays a fixed list of commands. It records
// every snapshot it was shown.
type ScriptedActor struct {
	commands []string
	pos      int
	states   []*Sync
	err      error
}

func NewScriptedActor(commands ...string) *ScriptedActor {
	return &ScriptedActor{commands: commands}
}

func (a *ScriptedActor) PlayTurn(ctx context.Context, state *Sync) (string, error) {
	a.states = append(a.states, state)
	if a.err != nil {
		return "", a.err
	}
	if a.pos >= len(a.commands) {
		return "", fmt.Errorf("script exhausted after %d commands", len(a.commands))
	}
	cmd := a.commands[a.pos]
	a.pos++
	return cmd, nil
}

// newTestGame creates a game with a fixed seed and a memory logger.
func newTestGame(t *testing.T) (*Game, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	g := NewGame(GameConfig{Logger: logger, Seed: 1})
	return g, logger
}

// deployedGame deploys "LLLLVVVV" for both players and hands the first turn
// to first.
//
// Player 1: links on (0,0) (1,0) (2,0) (3,1), viruses on (4,1) (5,0) (6,0) (7,0).
// Player 2: links on (7,7) (6,7) (5,7) (4,6), viruses on (3,6) (2,7) (1,7) (0,7).
func deployedGame(t *testing.T, first int) (*Game, *log.MemoryLogger) {
	t.Helper()
	g, logger := newTestGame(t)
	g.InitGame()
	mustExecute(t, g, "dp LLLLVVVV", 1)
	mustExecute(t, g, "dp LLLLVVVV", 2)
	if !g.phase.IsTurn() {
		t.Fatalf("expected turn phase after deployment, got %s", g.phase)
	}
	g.phase = turnPhase(first)
	return g, logger
}

// emptyGame returns a game in first's turn with nothing on the board.
// Cards are placed with put.
func emptyGame(t *testing.T, first int) (*Game, *log.MemoryLogger) {
	t.Helper()
	g, logger := newTestGame(t)
	g.InitGame()
	g.board.Clear()
	g.deployed = [2]bool{true, true}
	g.phase = turnPhase(first)
	g.turn = 1
	return g, logger
}

// put places an unused online card of player on (x, y).
func put(t *testing.T, g *Game, x, y, player int, typ OnlineCardType) *OnlineCard {
	t.Helper()
	used := map[*OnlineCard]bool{}
	for _, f := range g.board.OccupiedFields() {
		if c := f.OnlineCard(); c != nil {
			used[c] = true
		}
	}
	for _, c := range g.cards[player-1] {
		if used[c] {
			continue
		}
		c.Type = typ
		c.FaceUp = false
		c.Boost = false
		g.board.Field(x, y).Card = c
		return c
	}
	t.Fatalf("player %d has no unused card left", player)
	return nil
}

func mustExecute(t *testing.T, g *Game, cmd string, player int) {
	t.Helper()
	if !g.ExecuteCommand(cmd, player) {
		t.Fatalf("command %q by player %d was rejected", cmd, player)
	}
}

func mustReject(t *testing.T, g *Game, cmd string, player int) {
	t.Helper()
	if g.ExecuteCommand(cmd, player) {
		t.Fatalf("command %q by player %d was accepted", cmd, player)
	}
}

// countCards returns the online cards and firewalls on the board.
func countCards(g *Game) (online, firewalls int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, f := range g.board.OccupiedFields() {
		switch f.Card.(type) {
		case *OnlineCard:
			online++
		case *FirewallCard:
			firewalls++
		}
	}
	return online, firewalls
}

func hasTarget(targets [][2]int, x, y int) bool {
	for _, tg := range targets {
		if tg[0] == x && tg[1] == y {
			return true
		}
	}
	return false
}
