package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Rejection reasons. The command API itself only reports success; these
// end up in the event log.
var (
	ErrMalformed     = errors.New("malformed command")
	ErrUnknownVerb   = errors.New("unknown command")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrWrongPhase    = errors.New("wrong phase")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalMove   = errors.New("illegal move")
	ErrAbilityUsed   = errors.New("ability already used")
	ErrPrecondition  = errors.New("precondition failed")
)

type Verb int

const (
	VerbDeploy Verb = iota
	VerbMove
	VerbBoost
	VerbFirewall
	VerbVirusCheck
	VerbError404
)

func (v Verb) String() string {
	switch v {
	case VerbDeploy:
		return "dp"
	case VerbMove:
		return "mv"
	case VerbBoost:
		return "bs"
	case VerbFirewall:
		return "fw"
	case VerbVirusCheck:
		return "vc"
	case VerbError404:
		return "er"
	default:
		return "??"
	}
}

// Command is a parsed command line. Coordinates are zero-based.
type Command struct {
	Verb   Verb
	Layout [CardsPerPlayer]OnlineCardType // dp only, visual left to right

	X1, Y1 int
	X2, Y2 int  // mv, er
	Flag   bool // bs/fw enable, er swap
}

// argument layout per verb: number of tokens and which of them are x values.
var verbArgs = map[Verb]struct {
	count int
	xs    []int
}{
	VerbMove:       {4, []int{0, 2}},
	VerbBoost:      {3, []int{0}},
	VerbFirewall:   {3, []int{0}},
	VerbVirusCheck: {2, []int{0}},
	VerbError404:   {5, []int{0, 2}},
}

var verbNames = map[string]Verb{
	"dp": VerbDeploy,
	"mv": VerbMove,
	"bs": VerbBoost,
	"fw": VerbFirewall,
	"vc": VerbVirusCheck,
	"er": VerbError404,
}

// ParseCommand parses a protocol line such as "mv 1,2,1,3" or "dp LLVVLVVL".
// Coordinates are 1-based; letters a-h are accepted for x, and chess style
// squares ("mv a2,a3") are expanded before parsing.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if len(line) < 4 || line[2] != ' ' {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	verb, ok := verbNames[strings.ToLower(line[:2])]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownVerb, line[:2])
	}
	rest := strings.TrimSpace(line[3:])

	if verb == VerbDeploy {
		return parseDeploy(rest)
	}

	spec := verbArgs[verb]
	tokens := expandSquares(strings.Split(rest, ","))
	if len(tokens) != spec.count {
		return Command{}, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrMalformed, verb, spec.count, len(tokens))
	}
	for _, i := range spec.xs {
		tokens[i] = aliasColumn(tokens[i])
	}
	nums := make([]int, len(tokens))
	for i, t := range tokens {
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			return Command{}, fmt.Errorf("%w: bad number %q", ErrMalformed, t)
		}
		nums[i] = n
	}

	cmd := Command{Verb: verb}
	switch verb {
	case VerbMove:
		cmd.X1, cmd.Y1, cmd.X2, cmd.Y2 = nums[0]-1, nums[1]-1, nums[2]-1, nums[3]-1
		if !inMain(cmd.X1, cmd.Y1) || !(inMain(cmd.X2, cmd.Y2) || (inColumns(cmd.X2) && cmd.Y2 == ServerRow)) {
			return Command{}, fmt.Errorf("%w: coordinates out of range", ErrMalformed)
		}
	case VerbBoost, VerbFirewall:
		cmd.X1, cmd.Y1 = nums[0]-1, nums[1]-1
		if !inMain(cmd.X1, cmd.Y1) || nums[2] > 1 {
			return Command{}, fmt.Errorf("%w: arguments out of range", ErrMalformed)
		}
		cmd.Flag = nums[2] == 1
	case VerbVirusCheck:
		cmd.X1, cmd.Y1 = nums[0]-1, nums[1]-1
		if !inMain(cmd.X1, cmd.Y1) {
			return Command{}, fmt.Errorf("%w: coordinates out of range", ErrMalformed)
		}
	case VerbError404:
		cmd.X1, cmd.Y1, cmd.X2, cmd.Y2 = nums[0]-1, nums[1]-1, nums[2]-1, nums[3]-1
		if !inMain(cmd.X1, cmd.Y1) || !inMain(cmd.X2, cmd.Y2) || nums[4] > 1 {
			return Command{}, fmt.Errorf("%w: arguments out of range", ErrMalformed)
		}
		cmd.Flag = nums[4] == 1
	}
	return cmd, nil
}

func parseDeploy(layout string) (Command, error) {
	if len(layout) != CardsPerPlayer {
		return Command{}, fmt.Errorf("%w: layout must have %d cards", ErrMalformed, CardsPerPlayer)
	}
	cmd := Command{Verb: VerbDeploy}
	links, viruses := 0, 0
	for i := 0; i < CardsPerPlayer; i++ {
		switch layout[i] {
		case 'L', 'l':
			links++
			cmd.Layout[i] = Link
		case 'V', 'v':
			viruses++
			cmd.Layout[i] = Virus
		default:
			return Command{}, fmt.Errorf("%w: unexpected %q in layout", ErrMalformed, layout[i])
		}
	}
	if links != 4 || viruses != 4 {
		return Command{}, fmt.Errorf("%w: layout needs 4 links and 4 viruses", ErrMalformed)
	}
	return cmd, nil
}

// expandSquares splits chess style tokens ("b3") into a column and a row token.
func expandSquares(tokens []string) []string {
	out := make([]string, 0, len(tokens)+2)
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if len(t) >= 2 && isColumnLetter(t[0]) && t[1] >= '0' && t[1] <= '9' {
			out = append(out, t[:1], t[1:])
			continue
		}
		out = append(out, t)
	}
	return out
}

// aliasColumn maps a-h to 1-8.
func aliasColumn(t string) string {
	if len(t) == 1 && isColumnLetter(t[0]) {
		return strconv.Itoa(int(lower(t[0])-'a') + 1)
	}
	return t
}

func isColumnLetter(c byte) bool {
	c = lower(c)
	return c >= 'a' && c <= 'h'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func inColumns(x int) bool { return x >= 0 && x < BoardWidth }

func inMain(x, y int) bool { return inColumns(x) && y >= 0 && y < MainRows }

// --- Command builders (1-based output, zero-based input) ---

// FormatDeploy builds a deploy command from a layout string such as "LLVVLVVL".
func FormatDeploy(layout string) string {
	return "dp " + layout
}

func FormatMove(x1, y1, x2, y2 int) string {
	return fmt.Sprintf("mv %d,%d,%d,%d", x1+1, y1+1, x2+1, y2+1)
}

func FormatBoost(x, y int, enable bool) string {
	return fmt.Sprintf("bs %d,%d,%d", x+1, y+1, boolArg(enable))
}

func FormatFirewall(x, y int, enable bool) string {
	return fmt.Sprintf("fw %d,%d,%d", x+1, y+1, boolArg(enable))
}

func FormatVirusCheck(x, y int) string {
	return fmt.Sprintf("vc %d,%d", x+1, y+1)
}

func boolArg(b bool) int {
	if b {
		return 1
	}
	return 0
}
