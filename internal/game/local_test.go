package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peterkuimelis/accessbattle/internal/log"
)

func TestLocalGameActorRepliesToDeployment(t *testing.T) {
	g, _ := newTestGame(t)
	g.InitGame()
	lg := NewLocalGame(g)
	// If the actor ends deployment on its own turn it moves right away.
	actor := NewScriptedActor("dp LLLLVVVV", "mv 1,8,1,7")
	if err := lg.SetActor(2, actor); err != nil {
		t.Fatal(err)
	}

	ok, err := lg.ExecuteCommand(context.Background(), "dp VVVVLLLL", 1)
	if !ok || err != nil {
		t.Fatalf("human deploy failed: %v %v", ok, err)
	}
	if g.Phase() != PhasePlayer1Turn {
		t.Fatalf("expected the human to be on turn, got %s", g.Phase())
	}
	if n := len(actor.states); n != 1 && n != 2 {
		t.Errorf("expected one or two actor requests, got %d", n)
	}
	if actor.states[0].Viewer != 2 {
		t.Error("the actor must receive its own view")
	}
	for _, f := range actor.states[0].Fields {
		if f.Card.Owner == 1 && f.Card.Type != Unknown {
			t.Fatal("the actor must not see the human's hidden cards")
		}
	}
}

func TestLocalGameActorRepliesToMove(t *testing.T) {
	g, _ := deployedGame(t, 1)
	lg := NewLocalGame(g)
	actor := NewScriptedActor("mv 8,8,8,7")
	lg.SetActor(2, actor)

	ok, err := lg.ExecuteCommand(context.Background(), "mv 1,1,1,2", 1)
	if !ok || err != nil {
		t.Fatalf("human move failed: %v %v", ok, err)
	}
	if g.board.Field(7, 6).Card == nil {
		t.Error("actor move should be applied")
	}
	if g.Phase() != PhasePlayer1Turn {
		t.Errorf("expected Player1Turn, got %s", g.Phase())
	}
}

func TestLocalGameRejectedHumanCommandSkipsActor(t *testing.T) {
	g, _ := deployedGame(t, 1)
	lg := NewLocalGame(g)
	actor := NewScriptedActor("mv 8,8,8,7")
	lg.SetActor(2, actor)

	ok, err := lg.ExecuteCommand(context.Background(), "mv 1,1,1,5", 1)
	if ok || err != nil {
		t.Fatalf("expected plain rejection, got %v %v", ok, err)
	}
	if len(actor.states) != 0 {
		t.Error("actor must not be asked after a rejected command")
	}
}

func TestLocalGameBadActorCommandAborts(t *testing.T) {
	g, logger := deployedGame(t, 1)
	lg := NewLocalGame(g)
	lg.SetActor(2, NewScriptedActor("mv 1,1,1,2"))

	ok, _ := lg.ExecuteCommand(context.Background(), "mv 1,1,1,2", 1)
	if !ok {
		t.Fatal("human command should still count as applied")
	}
	if g.Phase() != PhaseAborted {
		t.Fatalf("expected Aborted, got %s", g.Phase())
	}
	aborts := logger.EventsOfType(log.EventAbort)
	if len(aborts) != 1 || aborts[0].Player != 2 {
		t.Errorf("expected an abort blamed on player 2, got %+v", aborts)
	}
}

func TestLocalGameActorErrorAborts(t *testing.T) {
	g, _ := deployedGame(t, 1)
	lg := NewLocalGame(g)
	actor := NewScriptedActor()
	actor.err = errors.New("no idea")
	lg.SetActor(2, actor)

	ok, err := lg.ExecuteCommand(context.Background(), "mv 1,1,1,2", 1)
	if !ok || err == nil {
		t.Fatalf("expected applied command and actor error, got %v %v", ok, err)
	}
	if g.Phase() != PhaseAborted {
		t.Errorf("expected Aborted, got %s", g.Phase())
	}
}

func TestLocalGameDelayCallsOnSync(t *testing.T) {
	g, _ := deployedGame(t, 1)
	lg := NewLocalGame(g)
	lg.Delay = time.Millisecond
	syncs := 0
	lg.OnSync = func() { syncs++ }
	lg.SetActor(2, NewScriptedActor("mv 8,8,8,7"))

	if ok, err := lg.ExecuteCommand(context.Background(), "mv 1,1,1,2", 1); !ok || err != nil {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	// before and after the delay, and once when the exchange is done
	if syncs != 3 {
		t.Errorf("expected 3 sync notifications, got %d", syncs)
	}
}

func TestLocalGameDelayCancelled(t *testing.T) {
	g, _ := deployedGame(t, 1)
	lg := NewLocalGame(g)
	lg.Delay = time.Hour
	actor := NewScriptedActor("mv 8,8,8,7")
	lg.SetActor(2, actor)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := lg.ExecuteCommand(ctx, "mv 1,1,1,2", 1)
	if !ok || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected applied command and context error, got %v %v", ok, err)
	}
	if g.Phase() != PhasePlayer2Turn || len(actor.states) != 0 {
		t.Error("a cancelled delay leaves the actor's turn pending")
	}
}

func TestLocalGameActorsPlayEachOther(t *testing.T) {
	g, _ := newTestGame(t)
	g.InitGame()
	lg := NewLocalGame(g)
	p1 := NewScriptedActor("dp LLLLVVVV")
	p2 := NewScriptedActor("dp LLLLVVVV", "mv 1,8,1,7")
	lg.SetActor(1, p1)
	lg.SetActor(2, p2)

	ok, err := lg.ActorMove(context.Background(), 1)
	if !ok || err != nil {
		t.Fatalf("actor move failed: %v %v", ok, err)
	}
	if !g.HasDeployed(1) || !g.HasDeployed(2) {
		t.Fatal("both actors should have deployed")
	}
	if g.Phase() != PhasePlayer1Turn {
		t.Errorf("expected Player1Turn, got %s", g.Phase())
	}

	if ok, _ := lg.ActorMove(context.Background(), 2); ok {
		t.Error("an actor must not move out of turn")
	}
}

func TestSetActorValidatesSeat(t *testing.T) {
	lg := NewLocalGame(NewGame(GameConfig{}))
	if err := lg.SetActor(3, NewScriptedActor()); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("expected ErrInvalidPlayer, got %v", err)
	}
}
