package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventDeploy
	EventMove
	EventCapture
	EventServerEntry
	EventBoost
	EventFirewall
	EventVirusCheck
	EventError404
	EventRejected
	EventWin
	EventAbort
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventDeploy:
		return "Deploy"
	case EventMove:
		return "Move"
	case EventCapture:
		return "Capture"
	case EventServerEntry:
		return "ServerEntry"
	case EventBoost:
		return "Boost"
	case EventFirewall:
		return "Firewall"
	case EventVirusCheck:
		return "VirusCheck"
	case EventError404:
		return "Error404"
	case EventRejected:
		return "Rejected"
	case EventWin:
		return "Win"
	case EventAbort:
		return "Abort"
	default:
		return "Unknown"
	}
}

// Severity separates regular game events from internal failures.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "INFO"
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq      int       // monotonic sequence number
	Turn     int       // turn counter at the time of the event
	Phase    string    // phase name after the event (e.g. "Player1Turn")
	Player   int       // acting player (1 or 2), 0 if none
	Type     EventType // event type
	Severity Severity
	Details  string // human-readable detail string
}
