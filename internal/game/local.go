package game

import (
	"context"
	"fmt"
	"time"

	"github.com/peterkuimelis/accessbattle/internal/log"
)

// Actor produces the next command for one seat from that seat's view of
// the game. Both the random and the scripted opponents implement it.
type Actor interface {
	PlayTurn(ctx context.Context, state *Sync) (string, error)
}

// maxActorReplies caps how often an actor answers a single command. Two
// covers an actor that finishes deployment and then starts with its own turn.
const maxActorReplies = 2

// LocalGame drives actor-controlled seats on top of a Game. After every
// accepted command the opponent's actor, if any, is asked for its reply.
type LocalGame struct {
	Game *Game

	// Delay is waited before each actor command. OnSync is called before
	// and after each wait so a display can redraw.
	Delay  time.Duration
	OnSync func()

	actors [2]Actor
}

func NewLocalGame(g *Game) *LocalGame {
	return &LocalGame{Game: g}
}

// SetActor puts an actor in charge of a seat. A nil actor hands the seat
// back to a human.
func (lg *LocalGame) SetActor(player int, a Actor) error {
	if !validPlayer(player) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	lg.actors[player-1] = a
	return nil
}

// Actor returns the actor of a seat, or nil.
func (lg *LocalGame) Actor(player int) Actor {
	if !validPlayer(player) {
		return nil
	}
	return lg.actors[player-1]
}

// ExecuteCommand applies a command for player and then lets the opponent's
// actor reply. The returned bool reports whether player's own command was
// accepted. A context error during a delay leaves the game as it is.
func (lg *LocalGame) ExecuteCommand(ctx context.Context, command string, player int) (bool, error) {
	if !lg.Game.ExecuteCommand(command, player) {
		return false, nil
	}
	opp := Opponent(player)
	actor := lg.Actor(opp)
	if actor == nil {
		return true, nil
	}

	for i := 0; i < maxActorReplies; i++ {
		if !lg.expects(opp) {
			break
		}
		if err := lg.wait(ctx); err != nil {
			return true, err
		}
		// The game may have been aborted while waiting.
		if !lg.expects(opp) {
			break
		}
		if err := lg.apply(ctx, actor, opp); err != nil {
			return true, err
		}
	}
	lg.sync()
	return true, nil
}

// ActorMove asks the actor of player for a move. It is how an actor-only
// seat starts the exchange, e.g. when two actors play each other.
func (lg *LocalGame) ActorMove(ctx context.Context, player int) (bool, error) {
	actor := lg.Actor(player)
	if actor == nil || !lg.expects(player) {
		return false, nil
	}
	if err := lg.wait(ctx); err != nil {
		return false, err
	}
	if !lg.expects(player) {
		return false, nil
	}
	state := lg.Game.Snapshot(player)
	cmd, err := actor.PlayTurn(ctx, state)
	if err != nil {
		lg.Game.abortBy(player, fmt.Sprintf("actor failed: %v", err))
		return false, err
	}
	ok, err := lg.ExecuteCommand(ctx, cmd, player)
	if !ok {
		lg.Game.abortBy(player, fmt.Sprintf("actor command rejected: %s", cmd))
	}
	return ok, err
}

// expects reports whether player is supposed to act in the current phase.
func (lg *LocalGame) expects(player int) bool {
	phase := lg.Game.Phase()
	switch {
	case phase == PhaseDeployment:
		return !lg.Game.HasDeployed(player)
	case phase.IsTurn():
		return phase.CurrentPlayer() == player
	default:
		return false
	}
}

func (lg *LocalGame) apply(ctx context.Context, actor Actor, player int) error {
	cmd, err := actor.PlayTurn(ctx, lg.Game.Snapshot(player))
	if err != nil {
		lg.Game.abortBy(player, fmt.Sprintf("actor failed: %v", err))
		return fmt.Errorf("player %d actor: %w", player, err)
	}
	if !lg.Game.ExecuteCommand(cmd, player) {
		lg.Game.abortBy(player, fmt.Sprintf("actor command rejected: %s", cmd))
	}
	return nil
}

func (lg *LocalGame) wait(ctx context.Context) error {
	if lg.Delay <= 0 {
		return ctx.Err()
	}
	lg.sync()
	t := time.NewTimer(lg.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	lg.sync()
	return nil
}

func (lg *LocalGame) sync() {
	if lg.OnSync != nil {
		lg.OnSync()
	}
}

// abortBy ends the match because player's actor could not continue.
func (g *Game) abortBy(player int, reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.abort(player, reason, log.SeverityError)
}
