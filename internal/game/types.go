package game

import "fmt"

// --- Enums ---

type Phase int

const (
	PhaseWaitingForPlayers Phase = iota
	PhasePlayerJoining
	PhaseDeployment
	PhasePlayer1Turn
	PhasePlayer2Turn
	PhasePlayer1Win
	PhasePlayer2Win
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "WaitingForPlayers"
	case PhasePlayerJoining:
		return "PlayerJoining"
	case PhaseDeployment:
		return "Deployment"
	case PhasePlayer1Turn:
		return "Player1Turn"
	case PhasePlayer2Turn:
		return "Player2Turn"
	case PhasePlayer1Win:
		return "Player1Win"
	case PhasePlayer2Win:
		return "Player2Win"
	case PhaseAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// IsTurn reports whether a player is expected to move.
func (p Phase) IsTurn() bool {
	return p == PhasePlayer1Turn || p == PhasePlayer2Turn
}

// IsOver reports whether the phase is terminal.
func (p Phase) IsOver() bool {
	return p == PhasePlayer1Win || p == PhasePlayer2Win || p == PhaseAborted
}

// CurrentPlayer returns the player whose turn it is, or 0 outside turn phases.
func (p Phase) CurrentPlayer() int {
	switch p {
	case PhasePlayer1Turn:
		return 1
	case PhasePlayer2Turn:
		return 2
	default:
		return 0
	}
}

// Winner returns 1 or 2 for a win phase, 0 otherwise.
func (p Phase) Winner() int {
	switch p {
	case PhasePlayer1Win:
		return 1
	case PhasePlayer2Win:
		return 2
	default:
		return 0
	}
}

func turnPhase(player int) Phase {
	if player == 1 {
		return PhasePlayer1Turn
	}
	return PhasePlayer2Turn
}

func winPhase(player int) Phase {
	if player == 1 {
		return PhasePlayer1Win
	}
	return PhasePlayer2Win
}

// OnlineCardType is the hidden identity of an online card.
// Unknown only appears in snapshots where the type is redacted.
type OnlineCardType int

const (
	Unknown OnlineCardType = iota
	Link
	Virus
)

func (t OnlineCardType) String() string {
	switch t {
	case Link:
		return "Link"
	case Virus:
		return "Virus"
	default:
		return "Unknown"
	}
}

// --- Cards ---

// Card is either an *OnlineCard or a *FirewallCard.
type Card interface {
	Owner() *Player
	isCard()
}

// OnlineCard is a stealth card. Its owner never changes; capturing only
// relocates it to the capturer's stack row.
type OnlineCard struct {
	Type   OnlineCardType
	FaceUp bool
	Boost  bool
	owner  *Player
}

func NewOnlineCard(owner *Player) *OnlineCard {
	return &OnlineCard{Type: Link, owner: owner}
}

func (c *OnlineCard) Owner() *Player { return c.owner }
func (*OnlineCard) isCard()          {}

// FirewallCard blocks movement onto its field.
type FirewallCard struct {
	owner *Player
}

func NewFirewallCard(owner *Player) *FirewallCard {
	return &FirewallCard{owner: owner}
}

func (c *FirewallCard) Owner() *Player { return c.owner }
func (*FirewallCard) isCard()          {}

// ownerNumber returns the owning player's number, 0 for an unowned card.
func ownerNumber(c Card) int {
	if c == nil || c.Owner() == nil {
		return 0
	}
	return c.Owner().Number
}

var phaseNames = map[string]Phase{
	"WaitingForPlayers": PhaseWaitingForPlayers,
	"PlayerJoining":     PhasePlayerJoining,
	"Deployment":        PhaseDeployment,
	"Player1Turn":       PhasePlayer1Turn,
	"Player2Turn":       PhasePlayer2Turn,
	"Player1Win":        PhasePlayer1Win,
	"Player2Win":        PhasePlayer2Win,
	"Aborted":           PhaseAborted,
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	v, ok := phaseNames[string(text)]
	if !ok {
		return fmt.Errorf("unknown phase %q", text)
	}
	*p = v
	return nil
}

func (t OnlineCardType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *OnlineCardType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Link":
		*t = Link
	case "Virus":
		*t = Virus
	case "Unknown", "":
		*t = Unknown
	default:
		return fmt.Errorf("unknown card type %q", text)
	}
	return nil
}
