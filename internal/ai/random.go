package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/peterkuimelis/accessbattle/internal/game"
)

// ErrNoMove is returned when an actor is asked to play but has nothing to do.
var ErrNoMove = errors.New("no move available")

// RandomActor plays uniformly random legal commands. It only looks at the
// snapshot it is given, so it never sees hidden opponent cards.
type RandomActor struct {
	// Layouts are the presets to deploy from. When empty a shuffled
	// LLLLVVVV is used.
	Layouts []game.LayoutEntry

	// BoostChance is the probability of toggling the boost instead of moving.
	BoostChance float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomActor creates a random actor. Seed 0 means time based.
func NewRandomActor(seed int64, layouts []game.LayoutEntry) *RandomActor {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomActor{
		Layouts:     layouts,
		BoostChance: 0.1,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// PlayTurn implements game.Actor.
func (a *RandomActor) PlayTurn(ctx context.Context, state *game.Sync) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	me := state.Viewer
	switch {
	case state.Phase == game.PhaseDeployment:
		return game.FormatDeploy(a.layout()), nil
	case state.Phase.CurrentPlayer() != me:
		return "", fmt.Errorf("%w: player %d during %s", ErrNoMove, me, state.Phase)
	}

	var own []game.FieldSync
	var moves [][4]int
	boosted := -1
	for _, f := range state.Fields {
		if f.Card.Firewall || f.Card.Owner != me || f.Y >= game.MainRows {
			continue
		}
		if f.Card.Boost {
			boosted = len(own)
		}
		own = append(own, f)
		for _, t := range state.MoveTargets(f.X, f.Y) {
			moves = append(moves, [4]int{f.X, f.Y, t[0], t[1]})
		}
	}
	if len(own) == 0 {
		return "", fmt.Errorf("%w: player %d has no cards on the board", ErrNoMove, me)
	}

	if len(moves) == 0 || a.rng.Float64() < a.BoostChance {
		if boosted >= 0 {
			f := own[boosted]
			return game.FormatBoost(f.X, f.Y, false), nil
		}
		f := own[a.rng.Intn(len(own))]
		return game.FormatBoost(f.X, f.Y, true), nil
	}

	m := moves[a.rng.Intn(len(moves))]
	return game.FormatMove(m[0], m[1], m[2], m[3]), nil
}

// layout picks a preset or shuffles the default split.
func (a *RandomActor) layout() string {
	if len(a.Layouts) > 0 {
		return a.Layouts[a.rng.Intn(len(a.Layouts))].Layout
	}
	cards := []byte("LLLLVVVV")
	a.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return string(cards)
}
