package log

import (
	"fmt"
	"io"
	"sync"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

// Events returns a copy of everything logged so far.
func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsSince returns the events with a sequence number greater than seq.
func (l *MemoryLogger) EventsSince(seq int) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Seq > seq {
			result = append(result, e)
		}
	}
	return result
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p)
}

// Square formats a zero-based board coordinate the way commands accept it
// (column letter, 1-based row). Row 10 is the server row.
func Square(x, y int) string {
	if y == 10 {
		return "server"
	}
	if x < 0 || x > 7 {
		return fmt.Sprintf("%d,%d", x+1, y+1)
	}
	return fmt.Sprintf("%c%d", 'a'+x, y+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}

	line := fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
	if e.Severity == SeverityError {
		line = "ERROR " + line
	}
	return line
}

// --- Helper constructors for common events ---

// newEvent builds an info event for player with a formatted description.
func newEvent(turn int, phase string, player int, t EventType, format string, args ...any) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    t,
		Details: fmt.Sprintf(format, args...),
	}
}

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return newEvent(turn, phase, 0, EventPhaseChange, "Phase → %s", phase)
}

func NewTurnEvent(turn int, phase string, player int) GameEvent {
	return newEvent(turn, phase, player, EventNewTurn, "=== Turn %d (%s) ===", turn, playerName(player))
}

func NewDeployEvent(turn int, phase string, player int) GameEvent {
	return newEvent(turn, phase, player, EventDeploy, "%s deploys their cards", playerName(player))
}

func NewMoveEvent(turn int, phase string, player int, x1, y1, x2, y2 int) GameEvent {
	return newEvent(turn, phase, player, EventMove, "%s moves %s → %s",
		playerName(player), Square(x1, y1), Square(x2, y2))
}

func NewCaptureEvent(turn int, phase string, player int, cardType string, x, y, slot int) GameEvent {
	return newEvent(turn, phase, player, EventCapture, "%s captures a %s on %s (stack slot %d)",
		playerName(player), cardType, Square(x, y), slot+1)
}

func NewServerEntryEvent(turn int, phase string, player int, slot int) GameEvent {
	return newEvent(turn, phase, player, EventServerEntry, "%s enters the opponent's server (stack slot %d)",
		playerName(player), slot+1)
}

func NewBoostEvent(turn int, phase string, player int, x, y int, enabled bool) GameEvent {
	verb := "removes boost from"
	if enabled {
		verb = "boosts"
	}
	return newEvent(turn, phase, player, EventBoost, "%s %s the card on %s", playerName(player), verb, Square(x, y))
}

func NewFirewallEvent(turn int, phase string, player int, x, y int, placed bool) GameEvent {
	verb := "removes the firewall from"
	if placed {
		verb = "places a firewall on"
	}
	return newEvent(turn, phase, player, EventFirewall, "%s %s %s", playerName(player), verb, Square(x, y))
}

func NewVirusCheckEvent(turn int, phase string, player int, x, y int, cardType string) GameEvent {
	return newEvent(turn, phase, player, EventVirusCheck, "%s runs a virus check on %s: %s",
		playerName(player), Square(x, y), cardType)
}

func NewError404Event(turn int, phase string, player int, x1, y1, x2, y2 int, swapped bool) GameEvent {
	suffix := ""
	if swapped {
		suffix = " (swapped)"
	}
	return newEvent(turn, phase, player, EventError404, "%s plays 404 Not Found on %s and %s%s",
		playerName(player), Square(x1, y1), Square(x2, y2), suffix)
}

func NewRejectedEvent(turn int, phase string, player int, command string, reason error) GameEvent {
	return newEvent(turn, phase, player, EventRejected, "%s command %q rejected: %v", playerName(player), command, reason)
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return newEvent(turn, phase, winner, EventWin, "%s wins! (%s)", playerName(winner), reason)
}

// NewAbortEvent is the only constructor that takes a severity: a fatal stack
// overflow aborts at error level, a quit at info level.
func NewAbortEvent(turn int, phase string, player int, reason string, severity Severity) GameEvent {
	e := newEvent(turn, phase, player, EventAbort, "Game aborted (%s)", reason)
	e.Severity = severity
	return e
}
