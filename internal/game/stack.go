package game

import (
	"fmt"

	"github.com/peterkuimelis/accessbattle/internal/log"
)

const (
	linkSlots  = 0 // slots 0..3
	virusSlots = 4 // slots 4..7
	slotRange  = 4
)

// placeOnStack moves the online card on field into the stack row of player
// and runs the win check for that row. It returns the slot used. If the row
// is full the game is aborted and ok is false; the card stays where it was.
func (g *Game) placeOnStack(field *Field, player int) (slot int, ok bool) {
	card := field.OnlineCard()
	if card == nil {
		return -1, false
	}
	row := StackRow(player)

	first, second := linkSlots, virusSlots
	if card.FaceUp && card.Type == Virus {
		first, second = virusSlots, linkSlots
	}
	slot = g.freeSlot(row, first)
	if slot < 0 {
		slot = g.freeSlot(row, second)
	}
	if slot < 0 {
		g.abort(player, fmt.Sprintf("stack row of player %d is full", player), log.SeverityError)
		return -1, false
	}

	card.Boost = false
	g.board.Field(slot, row).Card = card
	field.Card = nil

	g.checkStackWin(player)
	return slot, true
}

func (g *Game) freeSlot(row, start int) int {
	for x := start; x < start+slotRange; x++ {
		if g.board.Field(x, row).Card == nil {
			return x
		}
	}
	return -1
}

// checkStackWin counts the cards on a stack row. Four viruses lose the game
// for the row's owner, four links win it; the link rule takes precedence.
func (g *Game) checkStackWin(player int) {
	links, viruses := StackCounts(g.board, player)
	winner := 0
	reason := ""
	if viruses >= 4 {
		winner = Opponent(player)
		reason = fmt.Sprintf("player %d collected four viruses", player)
	}
	if links >= 4 {
		winner = player
		reason = fmt.Sprintf("player %d collected four links", player)
	}
	if winner != 0 {
		g.finish(winner, reason)
	}
}

// StackCounts returns the number of links and viruses on a player's stack row.
func StackCounts(b *Board, player int) (links, viruses int) {
	row := StackRow(player)
	for x := 0; x < BoardWidth; x++ {
		c := b.Field(x, row).OnlineCard()
		if c == nil {
			continue
		}
		switch c.Type {
		case Link:
			links++
		case Virus:
			viruses++
		}
	}
	return links, viruses
}
