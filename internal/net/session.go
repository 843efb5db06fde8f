package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/log"
)

// EventSource is a logger that can replay what it recorded. MemoryLogger and
// TextLogger both qualify.
type EventSource interface {
	log.EventLogger
	EventsSince(seq int) []log.GameEvent
}

// Session connects seats to one game. Commands from all seats pass through
// Submit, and after each one every seat receives the new events and its own
// view of the board.
type Session struct {
	ID    uuid.UUID
	Game  *game.Game
	Local *game.LocalGame

	// Operator is the player allowed to end the match with "win", 0 for
	// nobody.
	Operator int

	events EventSource

	submitMu sync.Mutex // orders submissions; held across actor delays

	mu         sync.Mutex // guards seats and broadcasts
	seats      [2]Seat
	spectators []Seat
	lastSeq    int
	over       bool
	done       chan struct{}
}

// NewSession wraps a game whose logger is events.
func NewSession(g *game.Game, events EventSource) *Session {
	s := &Session{
		ID:     uuid.New(),
		Game:   g,
		Local:  game.NewLocalGame(g),
		events: events,
		done:   make(chan struct{}),
	}
	s.Local.OnSync = s.flush
	return s
}

// Seat assigns a seat to a player and greets it.
func (s *Session) Seat(player int, seat Seat) error {
	if player != 1 && player != 2 {
		return fmt.Errorf("%w: %d", game.ErrInvalidPlayer, player)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats[player-1] = seat
	return seat.Send(ServerMessage{Type: MsgHello, Player: player, Session: s.ID.String()})
}

// Watch adds a spectator seat.
func (s *Session) Watch(seat Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spectators = append(s.spectators, seat)
	if err := seat.Send(ServerMessage{Type: MsgHello, Session: s.ID.String()}); err != nil {
		return err
	}
	return seat.Send(ServerMessage{Type: MsgState, State: s.Game.Snapshot(0)})
}

// SetActor hands a seat to an actor.
func (s *Session) SetActor(player int, a game.Actor) error {
	return s.Local.SetActor(player, a)
}

// Start enters the deployment phase and publishes the first board. If
// player 1 is an actor it deploys right away.
func (s *Session) Start(ctx context.Context) error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.Game.InitGame()
	s.flush()
	if s.Local.Actor(1) == nil {
		return nil
	}
	_, err := s.Local.ActorMove(ctx, 1)
	s.flush()
	return err
}

// Submit runs a command for player and publishes the outcome.
func (s *Session) Submit(ctx context.Context, player int, command string) (bool, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	// mu is not held here: a disconnect or a new spectator must not wait
	// out an actor's delay.
	ok, err := s.Local.ExecuteCommand(ctx, command, player)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seat := s.seat(player); seat != nil {
		_ = seat.Send(ResultMessage(command, ok))
	}
	s.flushLocked()
	return ok, err
}

// DeclareWin ends the match with winner, or aborts it for any other number.
func (s *Session) DeclareWin(winner int) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	s.Game.Win(winner)
	s.flush()
}

// Done is closed once the game has reached a final phase.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Serve reads commands from a network seat until the connection closes, the
// player quits or the game ends.
func (s *Session) Serve(ctx context.Context, player int, seat *NetworkSeat) error {
	for {
		msg, err := seat.Recv()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
			}
			// A player who disconnects forfeits the match.
			s.abort(player)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("player %d: %w", player, err)
		}
		switch msg.Type {
		case MsgCommand:
			if _, err := s.Submit(ctx, player, msg.Command); err != nil {
				return err
			}
		case MsgQuit:
			s.abort(player)
			return nil
		case MsgWin:
			if s.Operator == 0 || player != s.Operator {
				_ = seat.Send(ServerMessage{Type: MsgError, Error: "only the host can declare a winner"})
				continue
			}
			s.DeclareWin(msg.Winner)
		default:
			_ = seat.Send(ServerMessage{Type: MsgError, Error: fmt.Sprintf("unexpected message %q", msg.Type)})
		}
	}
}

// abort ends the game because a player left.
func (s *Session) abort(player int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Game.Phase().IsOver() {
		s.Game.Abort()
	}
	s.flushLocked()
}

func (s *Session) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

func (s *Session) seat(player int) Seat {
	if player != 1 && player != 2 {
		return nil
	}
	return s.seats[player-1]
}

// flushLocked forwards new events and fresh snapshots. Rejections are only
// shown to the player who sent the command. Caller holds mu.
func (s *Session) flushLocked() {
	events := s.events.EventsSince(s.lastSeq)
	if n := len(events); n > 0 {
		s.lastSeq = events[n-1].Seq
	}

	for p := 1; p <= 2; p++ {
		seat := s.seat(p)
		if seat == nil {
			continue
		}
		s.publish(seat, p, events)
	}
	for _, seat := range s.spectators {
		s.publish(seat, 0, events)
	}

	phase := s.Game.Phase()
	if phase.IsOver() && !s.over {
		s.over = true
		msg := ServerMessage{Type: MsgGameOver, Winner: phase.Winner(), Result: ResultText(phase)}
		for p := 1; p <= 2; p++ {
			if seat := s.seat(p); seat != nil {
				_ = seat.Send(msg)
			}
		}
		for _, seat := range s.spectators {
			_ = seat.Send(msg)
		}
		close(s.done)
	}
}

func (s *Session) publish(seat Seat, viewer int, events []log.GameEvent) {
	for _, e := range events {
		if e.Type == log.EventRejected && e.Player != viewer {
			continue
		}
		ev := NewEventView(e)
		_ = seat.Send(ServerMessage{Type: MsgNotify, Event: &ev})
	}
	_ = seat.Send(ServerMessage{Type: MsgState, State: s.Game.Snapshot(viewer)})
}

// ResultText describes a final phase.
func ResultText(phase game.Phase) string {
	switch phase {
	case game.PhasePlayer1Win:
		return "Player 1 wins"
	case game.PhasePlayer2Win:
		return "Player 2 wins"
	case game.PhaseAborted:
		return "Game aborted"
	default:
		return ""
	}
}
