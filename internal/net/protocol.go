package net

import (
	"github.com/peterkuimelis/accessbattle/internal/game"
	"github.com/peterkuimelis/accessbattle/internal/log"
)

// Message types for the JSON protocol over TCP.
const (
	MsgHello    = "hello"
	MsgResult   = "result"
	MsgState    = "state"
	MsgNotify   = "notify"
	MsgGameOver = "game_over"
	MsgError    = "error"

	MsgJoin    = "join"
	MsgCommand = "command"
	MsgQuit    = "quit"
	MsgWin     = "win"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "hello"
	Player  int    `json:"player,omitempty"`
	Session string `json:"session,omitempty"`

	// For "result"
	Command string `json:"command,omitempty"`
	OK      *bool  `json:"ok,omitempty"`

	// For "state"
	State *game.Sync `json:"state,omitempty"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq      int    `json:"seq"`
	Turn     int    `json:"turn"`
	Phase    string `json:"phase"`
	Player   int    `json:"player"`
	Type     string `json:"type"`
	Severity string `json:"severity,omitempty"`
	Details  string `json:"details"`
}

// NewEventView converts a logged event for the wire.
func NewEventView(e log.GameEvent) EventView {
	ev := EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Details: e.Details,
	}
	if e.Severity != log.SeverityInfo {
		ev.Severity = e.Severity.String()
	}
	return ev
}

// ResultMessage reports whether a submitted command was accepted.
func ResultMessage(command string, ok bool) ServerMessage {
	return ServerMessage{Type: MsgResult, Command: command, OK: &ok}
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "join" (initial handshake)
	Name string `json:"name,omitempty"`

	// For "command"
	Command string `json:"command,omitempty"`

	// For "win": 1 or 2, anything else aborts
	Winner int `json:"winner,omitempty"`
}
