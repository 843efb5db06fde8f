package net

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/log"
)

func deployedSnapshot(t *testing.T, viewer int) (*game.Game, *game.Sync) {
	t.Helper()
	g := game.NewGame(game.GameConfig{Logger: log.NewMemoryLogger(), Seed: 1})
	g.InitGame()
	g.ExecuteCommand("dp LLLLVVVV", 1)
	g.ExecuteCommand("dp VVVVLLLL", 2)
	if g.Phase() == game.PhasePlayer2Turn {
		g.ExecuteCommand("mv 1,8,1,7", 2)
	}
	return g, g.Snapshot(viewer)
}

func TestRenderBoardHidesOpponent(t *testing.T) {
	_, s := deployedSnapshot(t, 1)
	out := RenderBoard(s)

	if !strings.Contains(out, "L1") || !strings.Contains(out, "V1") {
		t.Error("player 1 should see its own cards")
	}
	if strings.Contains(out, "L2") || strings.Contains(out, "V2") {
		t.Error("player 2's cards must be hidden")
	}
	if !strings.Contains(out, "?2") {
		t.Error("hidden cards should be drawn as ?")
	}
	if !strings.Contains(out, "S1 ") || !strings.Contains(out, "S2 ") {
		t.Error("expected both stack rows")
	}
}

func TestClientREPL(t *testing.T) {
	g, s := deployedSnapshot(t, 1)

	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()
	in, inW := io.Pipe()
	var out bytes.Buffer

	done := make(chan error, 1)
	go func() {
		done <- NewClient(clientConn, "Tester", in, &out).RunREPL(context.Background())
	}()

	enc := json.NewEncoder(serverConn)
	enc.Encode(ServerMessage{Type: MsgHello, Player: 1, Session: "abc"})
	enc.Encode(ServerMessage{Type: MsgState, State: s})
	// The client only reads the next message once the state is handled.
	ev := NewEventView(log.NewTurnEvent(1, g.Phase().String(), 1))
	enc.Encode(ServerMessage{Type: MsgNotify, Event: &ev})

	received := make(chan ClientMessage, 4)
	go func() {
		dec := json.NewDecoder(serverConn)
		for {
			var msg ClientMessage
			if err := dec.Decode(&msg); err != nil {
				return
			}
			received <- msg
		}
	}()

	io.WriteString(inW, "moves a1\n")
	io.WriteString(inW, "mv a1,a2\n")
	select {
	case msg := <-received:
		if msg.Type != MsgCommand || msg.Command != "mv a1,a2" {
			t.Errorf("unexpected message %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("command not sent")
	}

	io.WriteString(inW, "quit\n")
	select {
	case msg := <-received:
		if msg.Type != MsgQuit {
			t.Errorf("expected quit, got %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("quit not sent")
	}
	if err := <-done; err != nil {
		t.Fatalf("repl: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "You are Player 1 (session abc)") {
		t.Error("missing greeting")
	}
	if !strings.Contains(text, "a1 → a2") {
		t.Errorf("missing move list in output:\n%s", text)
	}
}

func TestClientDeploysPresetLayout(t *testing.T) {
	g := game.NewGame(game.GameConfig{Logger: log.NewMemoryLogger(), Seed: 1})
	g.InitGame()

	clientConn, serverConn := net.Pipe()
	defer serverConn.Close()
	in, inW := io.Pipe()
	defer inW.Close()
	var out bytes.Buffer

	c := NewClient(clientConn, "Tester", in, &out)
	c.Layout = "LVLVLVLV"
	done := make(chan error, 1)
	go func() { done <- c.RunREPL(context.Background()) }()

	received := make(chan ClientMessage, 4)
	go func() {
		dec := json.NewDecoder(serverConn)
		for {
			var msg ClientMessage
			if err := dec.Decode(&msg); err != nil {
				return
			}
			received <- msg
		}
	}()

	enc := json.NewEncoder(serverConn)
	enc.Encode(ServerMessage{Type: MsgHello, Player: 1, Session: "abc"})
	enc.Encode(ServerMessage{Type: MsgState, State: g.Snapshot(1)})
	select {
	case msg := <-received:
		if msg.Type != MsgCommand || msg.Command != "dp LVLVLVLV" {
			t.Errorf("unexpected message %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("preset was not deployed")
	}

	// A second deployment prompt is left to the user.
	enc.Encode(ServerMessage{Type: MsgState, State: g.Snapshot(1)})
	io.WriteString(inW, "win 1\n")
	select {
	case msg := <-received:
		if msg.Type != MsgWin || msg.Winner != 1 {
			t.Errorf("expected the win request, got %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("win not sent")
	}

	enc.Encode(ServerMessage{Type: MsgGameOver, Winner: 1, Result: "Player 1 wins"})
	if err := <-done; err != nil {
		t.Fatalf("repl: %v", err)
	}
}
