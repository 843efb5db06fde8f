package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"

	"github.com/peterkuimelis/accessbattle/internal/game"
)

// playTurnFunc is the global a script must define. It receives the board
// as a table and returns a command string.
const playTurnFunc = "play_turn"

// LuaActor runs a Lua script as an opponent. Coordinates inside the script
// are 1-based like the command syntax. Besides the standard libraries the
// script can call targets(x, y), which lists the destinations of a card as
// {x, y} pairs.
type LuaActor struct {
	mu      sync.Mutex
	state   *lua.State
	current *game.Sync
}

// NewLuaActor compiles source and checks that it defines play_turn.
func NewLuaActor(source string) (*LuaActor, error) {
	a := newLuaActor()
	if err := lua.LoadString(a.state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return a.init()
}

// LoadLuaActor reads a script from a file.
func LoadLuaActor(path string) (*LuaActor, error) {
	a := newLuaActor()
	if err := lua.LoadFile(a.state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return a.init()
}

func newLuaActor() *LuaActor {
	a := &LuaActor{state: lua.NewState()}
	lua.OpenLibraries(a.state)
	a.state.Register("targets", a.targets)
	return a
}

// init runs the loaded chunk so its globals exist.
func (a *LuaActor) init() (*LuaActor, error) {
	if err := a.state.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	a.state.Global(playTurnFunc)
	defer a.state.Pop(1)
	if !a.state.IsFunction(-1) {
		return nil, errors.New("lua script must define play_turn(state)")
	}
	return a, nil
}

// PlayTurn implements game.Actor.
func (a *LuaActor) PlayTurn(ctx context.Context, state *game.Sync) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.current = state
	defer func() { a.current = nil }()

	l := a.state
	l.Global(playTurnFunc)
	pushSync(l, state)
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		l.Pop(1)
		return "", fmt.Errorf("play_turn: %w", err)
	}
	defer l.Pop(1)
	cmd, ok := l.ToString(-1)
	if !ok || cmd == "" {
		return "", fmt.Errorf("play_turn returned %s, want a command", lua.TypeNameOf(l, -1))
	}
	return cmd, nil
}

// targets(x, y) is callable from Lua while play_turn runs.
func (a *LuaActor) targets(l *lua.State) int {
	x := lua.CheckInteger(l, 1)
	y := lua.CheckInteger(l, 2)
	l.NewTable()
	if a.current == nil {
		return 1
	}
	for i, t := range a.current.MoveTargets(x-1, y-1) {
		l.NewTable()
		l.PushInteger(t[0] + 1)
		l.SetField(-2, "x")
		l.PushInteger(t[1] + 1)
		l.SetField(-2, "y")
		l.RawSetInt(-2, i+1)
	}
	return 1
}

// pushSync converts a snapshot to a Lua table:
//
//	{phase, viewer, turn, my_turn, deployed, players = {...}, cards = {...}}
func pushSync(l *lua.State, s *game.Sync) {
	l.NewTable()
	l.PushString(s.Phase.String())
	l.SetField(-2, "phase")
	l.PushInteger(s.Viewer)
	l.SetField(-2, "viewer")
	l.PushInteger(s.Turn)
	l.SetField(-2, "turn")
	l.PushBoolean(s.Phase.CurrentPlayer() == s.Viewer)
	l.SetField(-2, "my_turn")
	deployed := s.Viewer >= 1 && s.Viewer <= 2 && s.Players[s.Viewer-1].HasDeployed
	l.PushBoolean(deployed)
	l.SetField(-2, "deployed")

	l.NewTable()
	for i, p := range s.Players {
		l.NewTable()
		l.PushString(p.Name)
		l.SetField(-2, "name")
		l.PushInteger(p.Points)
		l.SetField(-2, "points")
		l.PushBoolean(p.DidVirusCheck)
		l.SetField(-2, "did_virus_check")
		l.PushBoolean(p.DidError404)
		l.SetField(-2, "did_error404")
		l.RawSetInt(-2, i+1)
	}
	l.SetField(-2, "players")

	l.NewTable()
	for i, f := range s.Fields {
		l.NewTable()
		l.PushInteger(f.X + 1)
		l.SetField(-2, "x")
		l.PushInteger(f.Y + 1)
		l.SetField(-2, "y")
		l.PushInteger(f.Card.Owner)
		l.SetField(-2, "owner")
		l.PushBoolean(f.Card.Firewall)
		l.SetField(-2, "firewall")
		l.PushString(f.Card.Type.String())
		l.SetField(-2, "type")
		l.PushBoolean(f.Card.FaceUp)
		l.SetField(-2, "face_up")
		l.PushBoolean(f.Card.Boost)
		l.SetField(-2, "boost")
		l.RawSetInt(-2, i+1)
	}
	l.SetField(-2, "cards")
}
