package game

const (
	BoardWidth  = 8
	BoardHeight = 11
	MainRows    = 8 // rows 0..7 are the playing area

	// Stack rows hold captured or smuggled cards. Slots 0..3 are reserved
	// for links, 4..7 for viruses.
	Player1StackRow = 8
	Player2StackRow = 9
	ServerRow       = 10

	// Player 2 smuggles into (4,10) from the bottom exits, player 1 into
	// (5,10) from the top exits.
	Player1ServerX = 4
	Player2ServerX = 5
)

// Field is a single board cell. It references a card but does not own it.
type Field struct {
	X, Y int
	Card Card
}

// IsServerArea reports whether the field is one of the two server cells.
func (f *Field) IsServerArea() bool {
	return f.Y == ServerRow && (f.X == Player1ServerX || f.X == Player2ServerX)
}

// IsExit reports whether the field is an exit cell next to a server.
func (f *Field) IsExit() bool {
	return f.X >= 3 && f.X <= 4 && (f.Y == 0 || f.Y == MainRows-1)
}

// IsStack reports whether the field belongs to a stack row.
func (f *Field) IsStack() bool {
	return f.Y == Player1StackRow || f.Y == Player2StackRow
}

// IsMain reports whether the field is part of the 8x8 playing area.
func (f *Field) IsMain() bool {
	return f.Y >= 0 && f.Y < MainRows
}

// OnlineCard returns the field's card if it is an online card.
func (f *Field) OnlineCard() *OnlineCard {
	oc, _ := f.Card.(*OnlineCard)
	return oc
}

// Board is the fixed grid of fields. Only rows 0..9 and the two server cells
// are meaningful; the remaining row 10 cells exist but are never used.
type Board struct {
	fields [BoardWidth][BoardHeight]*Field
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	b := &Board{}
	for x := 0; x < BoardWidth; x++ {
		for y := 0; y < BoardHeight; y++ {
			b.fields[x][y] = &Field{X: x, Y: y}
		}
	}
	return b
}

// Field returns the field at (x, y), or nil if out of range.
func (b *Board) Field(x, y int) *Field {
	if x < 0 || x >= BoardWidth || y < 0 || y >= BoardHeight {
		return nil
	}
	return b.fields[x][y]
}

// Clear removes every card reference from the board.
func (b *Board) Clear() {
	for x := 0; x < BoardWidth; x++ {
		for y := 0; y < BoardHeight; y++ {
			b.fields[x][y].Card = nil
		}
	}
}

// OccupiedFields returns all fields holding a card, row by row.
func (b *Board) OccupiedFields() []*Field {
	var result []*Field
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			if b.fields[x][y].Card != nil {
				result = append(result, b.fields[x][y])
			}
		}
	}
	return result
}

// StackRow returns the stack row index of the given player.
func StackRow(player int) int {
	if player == 1 {
		return Player1StackRow
	}
	return Player2StackRow
}

// OpponentServer returns the server cell the given player must reach.
func (b *Board) OpponentServer(player int) *Field {
	if player == 1 {
		return b.Field(Player2ServerX, ServerRow)
	}
	return b.Field(Player1ServerX, ServerRow)
}

// deploymentField returns the field of deployment slot i (0..7, visual left
// to right) for a player. The two center slots sit on the inner row.
func (b *Board) deploymentField(player, i int) *Field {
	outer, inner := 0, 1
	x := i
	if player == 2 {
		outer, inner = MainRows-1, MainRows-2
		x = BoardWidth - 1 - i
	}
	y := outer
	if i == 3 || i == 4 {
		y = inner
	}
	return b.Field(x, y)
}
