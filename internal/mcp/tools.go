package mcp

import (
	"context"
	stdnet "net"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/accessbattle/internal/game"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// port is the TCP port for the human player connection, set by main.
var port string

// seed seeds the starting player of new games, set by main.
var seed int64

// maxWait bounds how long get_game_state waits for the human.
const maxWait = 5 * time.Minute

// SetPort sets the TCP port for the human player connection.
func SetPort(p string) {
	port = p
}

// SetSeed sets the RNG seed for new games. Zero means time based.
func SetSeed(s int64) {
	seed = s
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(executeCommandTool(), handleExecuteCommand)
	s.AddTool(legalMovesTool(), handleLegalMoves)
	s.AddTool(getGameStateTool(), handleGetGameState)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Access Battle match. Returns the session id, the board and whether it is your move. "+
			"The human player connects via `accessbattle join --addr localhost:<port>` in a separate terminal. "+
			"This call blocks until the human connects. Both players first deploy with `dp`, e.g. `dp LLVVLLVV`."),
		mcp.WithNumber("player", mcp.Required(), mcp.Description("Your seat: 1 (bottom rows, enters the server from row 8) or 2 (top rows)")),
		mcp.WithString("name", mcp.Description("Your display name")),
	)
}

func executeCommandTool() mcp.Tool {
	return mcp.NewTool("execute_command",
		mcp.WithDescription("Send a game command for your seat. Coordinates are 1-based; columns may be letters a-h. "+
			"Commands: `dp LLLLVVVV`, `mv x1,y1,x2,y2` (y2=11 enters the server), `bs x,y,1|0`, `fw x,y,1|0`, "+
			"`vc x,y`, `er x1,y1,x2,y2,1|0`. When the command is accepted the call blocks until it is your move again "+
			"or the game is over. Check `ok` to see whether the command was accepted."),
		mcp.WithString("command", mcp.Required(), mcp.Description("Command text, e.g. 'mv 1,1,1,2' or 'mv a1,a2'")),
	)
}

func legalMovesTool() mcp.Tool {
	return mcp.NewTool("legal_moves",
		mcp.WithDescription("List the commands available for a field on your turn, ready to send: the moves and the boost toggle of your card, "+
			"the firewall toggle of an empty field or your firewall, and the virus check of a hidden opponent card. Read-only."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Column, 1-8")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Row, 1-8")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current board as seen from your seat and the events since the last call. "+
			"Set wait to block until it is your move."),
		mcp.WithBoolean("wait", mcp.Description("Block until it is your move or the game is over")),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	player := request.GetInt("player", 0)
	if player != 1 && player != 2 {
		return mcp.NewToolResultError("player must be 1 or 2"), nil
	}
	name := request.GetString("name", "Claude")

	ln, err := stdnet.Listen("tcp", ":"+port)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to listen on port %s: %v", port, err), nil
	}
	sess, err := NewGameSession(ctx, ln, SessionConfig{Player: player, Name: name, Seed: seed})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	activeSession = sess

	resp := sess.response()
	resp.Port = port
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleExecuteCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	sess := activeSession

	command := request.GetString("command", "")
	if command == "" {
		return mcp.NewToolResultError("command must not be empty"), nil
	}
	if !sess.seat.MyMove() {
		return mcp.NewToolResultError("It is not your move. Use get_game_state with wait=true."), nil
	}

	resp, err := sess.Submit(ctx, command)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for the opponent: %v", err), nil
	}
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	sess := activeSession

	x := request.GetInt("x", 0)
	y := request.GetInt("y", 0)
	if x < 1 || x > game.BoardWidth || y < 1 || y > game.MainRows {
		return mcp.NewToolResultErrorf("Field %d,%d is outside the board.", x, y), nil
	}

	resp := sess.response()
	resp.Moves = sess.Commands(x-1, y-1)
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	sess := activeSession

	var resp *ToolResponse
	if request.GetBool("wait", false) {
		var err error
		resp, err = sess.waitForTurn(ctx, maxWait)
		if err != nil {
			return mcp.NewToolResultErrorf("Error waiting for the opponent: %v", err), nil
		}
	} else {
		resp = sess.response()
	}

	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
