package game

import "fmt"

const CardsPerPlayer = 8

// Player represents one seat. Players are created with the game and only
// ever reset, never replaced.
type Player struct {
	Name   string
	Number int // 1 or 2
	Points int // matches won

	DidVirusCheck bool
	DidError404   bool
}

func newPlayer(number int) *Player {
	return &Player{Name: fmt.Sprintf("Player %d", number), Number: number}
}

// resetAbilities clears the one-shot flags at the start of a match.
func (p *Player) resetAbilities() {
	p.DidVirusCheck = false
	p.DidError404 = false
}

// Opponent returns the number of the other player.
func Opponent(player int) int {
	return 3 - player
}

func validPlayer(player int) bool {
	return player == 1 || player == 2
}
