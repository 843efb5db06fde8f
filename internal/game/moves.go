package game

// MoveTargets returns the fields the online card on from may move to in the
// given phase. The result is empty when from holds no online card, the card
// has no owner, or it is not the owner's turn.
//
// Coordinates are never flipped for player 2; only the notion of "current
// player" changes with the phase.
func MoveTargets(b *Board, phase Phase, from *Field) []*Field {
	if from == nil {
		return nil
	}
	card := from.OnlineCard()
	if card == nil || card.Owner() == nil {
		return nil
	}
	current := phase.CurrentPlayer()
	if current == 0 || card.Owner().Number != current {
		return nil
	}

	fields := stepTargets(b, from, current)
	if !card.Boost {
		return fields
	}

	seen := make(map[*Field]bool, len(fields))
	for _, f := range fields {
		seen[f] = true
	}
	base := fields
	for _, relay := range base {
		// Any card on the relay field blocks the second hop.
		if relay.Card != nil {
			continue
		}
		for _, f := range stepTargets(b, relay, current) {
			if seen[f] {
				continue
			}
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields
}

// stepTargets computes the one-step destinations from a field for the
// current player: down, up, left, right.
func stepTargets(b *Board, from *Field, current int) []*Field {
	x, y := from.X, from.Y
	var candidates [4]*Field

	if y > 0 && y < MainRows {
		candidates[0] = b.Field(x, y-1)
	} else if y == 0 && from.IsExit() && current == 2 {
		candidates[0] = b.OpponentServer(2)
	}

	if y >= 0 && y < MainRows-1 {
		candidates[1] = b.Field(x, y+1)
	} else if y == MainRows-1 && from.IsExit() && current == 1 {
		candidates[1] = b.OpponentServer(1)
	}

	// Stack rows are never a move source.
	if x > 0 && y < MainRows {
		candidates[2] = b.Field(x-1, y)
	}
	if x < BoardWidth-1 && y < MainRows {
		candidates[3] = b.Field(x+1, y)
	}

	var fields []*Field
	for _, f := range candidates {
		if f == nil {
			continue
		}
		if f.Card != nil && ownerNumber(f.Card) == current {
			continue
		}
		if _, ok := f.Card.(*FirewallCard); ok {
			continue
		}
		if f.IsStack() {
			continue
		}
		// Only the opponent's exits may be entered.
		if f.IsExit() {
			if current == 1 && f.Y == 0 {
				continue
			}
			if current == 2 && f.Y == MainRows-1 {
				continue
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// containsField reports whether f is in fields.
func containsField(fields []*Field, f *Field) bool {
	for _, c := range fields {
		if c == f {
			return true
		}
	}
	return false
}
