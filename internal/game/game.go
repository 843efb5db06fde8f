package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/peterkuimelis/accessbattle/internal/log"
)

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	Logger log.EventLogger
	Seed   int64 // RNG seed for the starting player (0 for time based)
}

// Game is the complete state of one match. Every exported method takes the
// game's lock, so a Game can be shared between network handlers and actors.
type Game struct {
	mu sync.Mutex

	phase     Phase
	board     *Board
	players   [2]*Player
	cards     [2][CardsPerPlayer]*OnlineCard
	firewalls [2]*FirewallCard
	deployed  [2]bool
	turn      int

	rng    *rand.Rand
	logger log.EventLogger
}

// NewGame creates a game waiting for players. All cards are created here and
// live as long as the game.
func NewGame(cfg GameConfig) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		phase:  PhaseWaitingForPlayers,
		board:  NewBoard(),
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
	for p := 0; p < 2; p++ {
		g.players[p] = newPlayer(p + 1)
		for c := 0; c < CardsPerPlayer; c++ {
			g.cards[p][c] = NewOnlineCard(g.players[p])
		}
		g.firewalls[p] = NewFirewallCard(g.players[p])
	}
	return g
}

// BeginJoin marks that a second player is connecting.
func (g *Game) BeginJoin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseWaitingForPlayers {
		return false
	}
	g.setPhase(PhasePlayerJoining)
	return true
}

// SetPlayerName renames a seat. Empty names are ignored.
func (g *Game) SetPlayerName(player int, name string) {
	if !validPlayer(player) || name == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players[player-1].Name = name
}

// InitGame resets the board, the cards and the one-shot abilities and enters
// the deployment phase. Cards are placed face-down in a default layout so
// that a player who never deploys still has a legal board.
func (g *Game) InitGame() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.board.Clear()
	for p := 0; p < 2; p++ {
		g.players[p].resetAbilities()
		for c := 0; c < CardsPerPlayer; c++ {
			card := g.cards[p][c]
			card.Type = Link
			if c >= CardsPerPlayer/2 {
				card.Type = Virus
			}
			card.FaceUp = false
			card.Boost = false
		}
		outer, inner := 0, 1
		if p == 1 {
			outer, inner = MainRows-1, MainRows-2
		}
		for i := 0; i < CardsPerPlayer; i++ {
			y := outer
			if i == 3 || i == 4 {
				y = inner
			}
			c := i
			if p == 0 {
				c = CardsPerPlayer - 1 - i
			}
			g.board.Field(i, y).Card = g.cards[p][c]
		}
		g.deployed[p] = false
	}
	g.turn = 0
	g.setPhase(PhaseDeployment)
}

// Win ends the match immediately. Any player other than 1 or 2 aborts it.
// A match that is already over is left alone.
func (g *Game) Win(player int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !validPlayer(player) {
		g.abort(0, "no winner", log.SeverityInfo)
		return
	}
	g.finish(player, "declared winner")
}

// Abort ends the match without a winner. A finished match stays finished.
func (g *Game) Abort() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.abort(0, "aborted", log.SeverityInfo)
}

// ExecuteCommand parses and applies one command for the given player. It
// returns false and leaves the game untouched if the command is rejected;
// the reason is recorded in the event log.
func (g *Game) ExecuteCommand(command string, player int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.execute(command, player); err != nil {
		g.logger.Log(log.NewRejectedEvent(g.turn, g.phase.String(), player, command, err))
		return false
	}
	return true
}

func (g *Game) execute(command string, player int) error {
	if !validPlayer(player) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	cmd, err := ParseCommand(command)
	if err != nil {
		return err
	}

	if cmd.Verb == VerbDeploy {
		return g.deploy(cmd, player)
	}
	if !g.phase.IsTurn() {
		return fmt.Errorf("%w: %s during %s", ErrWrongPhase, cmd.Verb, g.phase)
	}
	if g.phase.CurrentPlayer() != player {
		return ErrNotYourTurn
	}

	switch cmd.Verb {
	case VerbMove:
		err = g.move(cmd, player)
	case VerbBoost:
		err = g.boost(cmd, player)
	case VerbFirewall:
		err = g.firewall(cmd, player)
	case VerbVirusCheck:
		err = g.virusCheck(cmd, player)
	case VerbError404:
		err = g.error404(cmd, player)
	default:
		err = ErrUnknownVerb
	}
	if err != nil {
		return err
	}
	g.switchTurn()
	return nil
}

// --- Verbs ---

func (g *Game) deploy(cmd Command, player int) error {
	if g.phase != PhaseDeployment {
		return fmt.Errorf("%w: deploy during %s", ErrWrongPhase, g.phase)
	}
	p := player - 1
	if g.deployed[p] {
		return fmt.Errorf("%w: player %d already deployed", ErrPrecondition, player)
	}

	links, viruses := 0, CardsPerPlayer/2
	for i, t := range cmd.Layout {
		var card *OnlineCard
		if t == Link {
			card = g.cards[p][links]
			links++
		} else {
			card = g.cards[p][viruses]
			viruses++
		}
		card.Type = t
		card.FaceUp = false
		card.Boost = false
		g.board.deploymentField(player, i).Card = card
	}
	g.deployed[p] = true
	g.logger.Log(log.NewDeployEvent(g.turn, g.phase.String(), player))

	if g.deployed[0] && g.deployed[1] {
		g.beginTurns()
	}
	return nil
}

func (g *Game) move(cmd Command, player int) error {
	from := g.board.Field(cmd.X1, cmd.Y1)
	to := g.board.Field(cmd.X2, cmd.Y2)
	card := from.OnlineCard()
	if card == nil || ownerNumber(card) != player {
		return fmt.Errorf("%w: no own card on %s", ErrIllegalMove, log.Square(cmd.X1, cmd.Y1))
	}
	if !containsField(MoveTargets(g.board, g.phase, from), to) {
		return fmt.Errorf("%w: %s cannot reach %s", ErrIllegalMove, log.Square(cmd.X1, cmd.Y1), log.Square(cmd.X2, cmd.Y2))
	}

	g.logger.Log(log.NewMoveEvent(g.turn, g.phase.String(), player, cmd.X1, cmd.Y1, cmd.X2, cmd.Y2))

	if to.Card != nil {
		target := to.OnlineCard()
		target.FaceUp = true
		slot, ok := g.placeOnStack(to, player)
		if !ok {
			return nil
		}
		g.logger.Log(log.NewCaptureEvent(g.turn, g.phase.String(), player, target.Type.String(), cmd.X2, cmd.Y2, slot))
	}
	if to.IsServerArea() {
		slot, ok := g.placeOnStack(from, player)
		if !ok {
			return nil
		}
		g.logger.Log(log.NewServerEntryEvent(g.turn, g.phase.String(), player, slot))
	}
	to.Card = from.Card
	from.Card = nil
	return nil
}

func (g *Game) boost(cmd Command, player int) error {
	card := g.board.Field(cmd.X1, cmd.Y1).OnlineCard()
	if card == nil || ownerNumber(card) != player {
		return fmt.Errorf("%w: no own card on %s", ErrPrecondition, log.Square(cmd.X1, cmd.Y1))
	}
	boosted := g.boostedCard(player)
	if cmd.Flag {
		if boosted != nil {
			return fmt.Errorf("%w: boost already placed", ErrPrecondition)
		}
		card.Boost = true
	} else {
		if boosted != card {
			return fmt.Errorf("%w: card on %s is not boosted", ErrPrecondition, log.Square(cmd.X1, cmd.Y1))
		}
		card.Boost = false
	}
	g.logger.Log(log.NewBoostEvent(g.turn, g.phase.String(), player, cmd.X1, cmd.Y1, cmd.Flag))
	return nil
}

func (g *Game) firewall(cmd Command, player int) error {
	field := g.board.Field(cmd.X1, cmd.Y1)
	if cmd.Flag {
		if field.Card != nil {
			return fmt.Errorf("%w: %s is occupied", ErrPrecondition, log.Square(cmd.X1, cmd.Y1))
		}
		if g.firewallField(player) != nil {
			return fmt.Errorf("%w: firewall already placed", ErrPrecondition)
		}
		field.Card = g.firewalls[player-1]
	} else {
		fw, ok := field.Card.(*FirewallCard)
		if !ok || ownerNumber(fw) != player {
			return fmt.Errorf("%w: no own firewall on %s", ErrPrecondition, log.Square(cmd.X1, cmd.Y1))
		}
		field.Card = nil
	}
	g.logger.Log(log.NewFirewallEvent(g.turn, g.phase.String(), player, cmd.X1, cmd.Y1, cmd.Flag))
	return nil
}

func (g *Game) virusCheck(cmd Command, player int) error {
	p := g.players[player-1]
	if p.DidVirusCheck {
		return fmt.Errorf("%w: virus check", ErrAbilityUsed)
	}
	card := g.board.Field(cmd.X1, cmd.Y1).OnlineCard()
	if card == nil || ownerNumber(card) == player || card.FaceUp {
		return fmt.Errorf("%w: no face-down opponent card on %s", ErrPrecondition, log.Square(cmd.X1, cmd.Y1))
	}
	card.FaceUp = true
	p.DidVirusCheck = true
	g.logger.Log(log.NewVirusCheckEvent(g.turn, g.phase.String(), player, cmd.X1, cmd.Y1, card.Type.String()))
	return nil
}

func (g *Game) error404(cmd Command, player int) error {
	p := g.players[player-1]
	if p.DidError404 {
		return fmt.Errorf("%w: error 404", ErrAbilityUsed)
	}
	f1 := g.board.Field(cmd.X1, cmd.Y1)
	f2 := g.board.Field(cmd.X2, cmd.Y2)
	if f1 == f2 {
		return fmt.Errorf("%w: error 404 needs two different cards", ErrPrecondition)
	}
	c1, c2 := f1.OnlineCard(), f2.OnlineCard()
	if c1 == nil || c2 == nil || ownerNumber(c1) != player || ownerNumber(c2) != player {
		return fmt.Errorf("%w: error 404 needs two own cards", ErrPrecondition)
	}

	c1.FaceUp = false
	c2.FaceUp = false
	if cmd.Flag {
		f1.Card, f2.Card = c2, c1
		// The boost stays on its field.
		if c2.Boost {
			c1.Boost, c2.Boost = true, false
		} else if c1.Boost {
			c1.Boost, c2.Boost = false, true
		}
	}
	p.DidError404 = true
	g.logger.Log(log.NewError404Event(g.turn, g.phase.String(), player, cmd.X1, cmd.Y1, cmd.X2, cmd.Y2, cmd.Flag))
	return nil
}

// --- Phase handling ---

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	g.phase = p
	g.logger.Log(log.NewPhaseChangeEvent(g.turn, p.String()))
}

// beginTurns picks the starting player at random.
func (g *Game) beginTurns() {
	g.turn = 1
	player := g.rng.Intn(2) + 1
	g.setPhase(turnPhase(player))
	g.logger.Log(log.NewTurnEvent(g.turn, g.phase.String(), player))
}

// switchTurn hands the turn to the other player. It does nothing once the
// match has ended.
func (g *Game) switchTurn() {
	current := g.phase.CurrentPlayer()
	if current == 0 {
		return
	}
	g.turn++
	next := Opponent(current)
	g.setPhase(turnPhase(next))
	g.logger.Log(log.NewTurnEvent(g.turn, g.phase.String(), next))
}

func (g *Game) finish(winner int, reason string) {
	if g.phase.IsOver() {
		return
	}
	g.players[winner-1].Points++
	g.setPhase(winPhase(winner))
	g.logger.Log(log.NewWinEvent(g.turn, g.phase.String(), winner, reason))
}

func (g *Game) abort(player int, reason string, severity log.Severity) {
	if g.phase.IsOver() {
		return
	}
	g.setPhase(PhaseAborted)
	g.logger.Log(log.NewAbortEvent(g.turn, g.phase.String(), player, reason, severity))
}

// --- Lookups (caller holds the lock) ---

func (g *Game) boostedCard(player int) *OnlineCard {
	for _, c := range g.cards[player-1] {
		if c.Boost {
			return c
		}
	}
	return nil
}

func (g *Game) firewallField(player int) *Field {
	for y := 0; y < MainRows; y++ {
		for x := 0; x < BoardWidth; x++ {
			f := g.board.Field(x, y)
			if fw, ok := f.Card.(*FirewallCard); ok && ownerNumber(fw) == player {
				return f
			}
		}
	}
	return nil
}

// --- Read API ---

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Turn returns the turn counter. It is 0 until the first turn starts.
func (g *Game) Turn() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn
}

// HasDeployed reports whether the player has sent a deploy command.
func (g *Game) HasDeployed(player int) bool {
	if !validPlayer(player) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deployed[player-1]
}

// Player returns a copy of the player's state.
func (g *Game) Player(player int) Player {
	if !validPlayer(player) {
		return Player{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.players[player-1]
}

// MoveTargets returns the zero-based destinations of the card on (x, y) in
// the current phase.
func (g *Game) MoveTargets(x, y int) [][2]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	var result [][2]int
	for _, f := range MoveTargets(g.board, g.phase, g.board.Field(x, y)) {
		result = append(result, [2]int{f.X, f.Y})
	}
	return result
}
