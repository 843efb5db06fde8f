package game

// Sync is a serializable view of a game as seen by one viewer. Only occupied
// fields are listed.
type Sync struct {
	Phase   Phase         `json:"phase"`
	Viewer  int           `json:"viewer"` // 1 or 2, 0 for a spectator
	Turn    int           `json:"turn"`
	Players [2]PlayerSync `json:"players"`
	Fields  []FieldSync   `json:"fields"`
}

type PlayerSync struct {
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Points        int    `json:"points"`
	DidVirusCheck bool   `json:"did_virus_check"`
	DidError404   bool   `json:"did_error404"`
	HasDeployed   bool   `json:"has_deployed"`
}

type FieldSync struct {
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Card CardSync `json:"card"`
}

type CardSync struct {
	Firewall bool           `json:"firewall,omitempty"`
	Type     OnlineCardType `json:"type"`
	FaceUp   bool           `json:"face_up"`
	Boost    bool           `json:"boost"`
	Owner    int            `json:"owner"`
}

// Snapshot returns the game as seen by viewer.
func (g *Game) Snapshot(viewer int) *Sync {
	g.mu.Lock()
	s := g.fullSync()
	g.mu.Unlock()
	return Redact(s, viewer)
}

// fullSync captures the unfiltered state. Caller holds the lock.
func (g *Game) fullSync() *Sync {
	s := &Sync{Phase: g.phase, Turn: g.turn}
	for p := 0; p < 2; p++ {
		pl := g.players[p]
		s.Players[p] = PlayerSync{
			Name:          pl.Name,
			Number:        pl.Number,
			Points:        pl.Points,
			DidVirusCheck: pl.DidVirusCheck,
			DidError404:   pl.DidError404,
			HasDeployed:   g.deployed[p],
		}
	}
	for _, f := range g.board.OccupiedFields() {
		fs := FieldSync{X: f.X, Y: f.Y, Card: CardSync{Owner: ownerNumber(f.Card)}}
		switch c := f.Card.(type) {
		case *FirewallCard:
			fs.Card.Firewall = true
		case *OnlineCard:
			fs.Card.Type = c.Type
			fs.Card.FaceUp = c.FaceUp
			fs.Card.Boost = c.Boost
		}
		s.Fields = append(s.Fields, fs)
	}
	return s
}

// Redact returns a copy of s for viewer. The type of every face-down online
// card not owned by the viewer becomes Unknown; a spectator (viewer 0) sees
// no face-down type at all. Boost flags and firewalls stay visible.
func Redact(s *Sync, viewer int) *Sync {
	out := *s
	out.Viewer = viewer
	out.Fields = make([]FieldSync, len(s.Fields))
	copy(out.Fields, s.Fields)
	for i := range out.Fields {
		c := &out.Fields[i].Card
		if c.Firewall || c.FaceUp {
			continue
		}
		if viewer == 0 || c.Owner != viewer {
			c.Type = Unknown
		}
	}
	return &out
}

// Field returns the occupied field at (x, y), or nil.
func (s *Sync) Field(x, y int) *FieldSync {
	for i := range s.Fields {
		if s.Fields[i].X == x && s.Fields[i].Y == y {
			return &s.Fields[i]
		}
	}
	return nil
}

// BoardFromSync rebuilds a board from a snapshot. Card types are taken as
// given, so redacted cards come back as Unknown.
func BoardFromSync(s *Sync) *Board {
	b := NewBoard()
	players := [2]*Player{newPlayer(1), newPlayer(2)}
	for i, ps := range s.Players {
		if ps.Name != "" {
			players[i].Name = ps.Name
		}
	}
	for _, fs := range s.Fields {
		f := b.Field(fs.X, fs.Y)
		if f == nil {
			continue
		}
		var owner *Player
		if validPlayer(fs.Card.Owner) {
			owner = players[fs.Card.Owner-1]
		}
		if fs.Card.Firewall {
			f.Card = NewFirewallCard(owner)
			continue
		}
		f.Card = &OnlineCard{Type: fs.Card.Type, FaceUp: fs.Card.FaceUp, Boost: fs.Card.Boost, owner: owner}
	}
	return b
}

// MoveTargets runs the move generator on the snapshot's board.
func (s *Sync) MoveTargets(x, y int) [][2]int {
	b := BoardFromSync(s)
	var result [][2]int
	for _, f := range MoveTargets(b, s.Phase, b.Field(x, y)) {
		result = append(result, [2]int{f.X, f.Y})
	}
	return result
}

// Commands lists what the viewer can send for the field (x, y) on their
// turn: the moves and the boost toggle of an own card, the firewall toggle
// of an empty or own firewalled field and the virus check of a hidden
// opponent card. Error 404 needs two fields and is not listed.
func (s *Sync) Commands(x, y int) []string {
	if !s.Phase.IsTurn() || s.Phase.CurrentPlayer() != s.Viewer {
		return nil
	}
	if x < 0 || x >= BoardWidth || y < 0 || y >= MainRows {
		return nil
	}

	var cmds []string
	f := s.Field(x, y)
	switch {
	case f == nil:
		if !s.has(func(c CardSync) bool { return c.Firewall }) {
			cmds = append(cmds, FormatFirewall(x, y, true))
		}
	case f.Card.Firewall:
		if f.Card.Owner == s.Viewer {
			cmds = append(cmds, FormatFirewall(x, y, false))
		}
	case f.Card.Owner == s.Viewer:
		for _, t := range s.MoveTargets(x, y) {
			cmds = append(cmds, FormatMove(x, y, t[0], t[1]))
		}
		if f.Card.Boost {
			cmds = append(cmds, FormatBoost(x, y, false))
		} else if !s.has(func(c CardSync) bool { return c.Boost }) {
			cmds = append(cmds, FormatBoost(x, y, true))
		}
	case !f.Card.FaceUp && !s.Players[s.Viewer-1].DidVirusCheck:
		cmds = append(cmds, FormatVirusCheck(x, y))
	}
	return cmds
}

// has reports whether one of the viewer's cards matches.
func (s *Sync) has(match func(CardSync) bool) bool {
	for _, f := range s.Fields {
		if f.Card.Owner == s.Viewer && match(f.Card) {
			return true
		}
	}
	return false
}
