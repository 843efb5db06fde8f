package game

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"mv 1,2,1,3", Command{Verb: VerbMove, X1: 0, Y1: 1, X2: 0, Y2: 2}},
		{"  MV 8,8,8,7  ", Command{Verb: VerbMove, X1: 7, Y1: 7, X2: 7, Y2: 6}},
		{"mv c2,c3", Command{Verb: VerbMove, X1: 2, Y1: 1, X2: 2, Y2: 2}},
		{"mv d,8,f,11", Command{Verb: VerbMove, X1: 3, Y1: 7, X2: 5, Y2: 10}},
		{"bs 2,3,1", Command{Verb: VerbBoost, X1: 1, Y1: 2, Flag: true}},
		{"Bs b3,0", Command{Verb: VerbBoost, X1: 1, Y1: 2}},
		{"fw 4,5,1", Command{Verb: VerbFirewall, X1: 3, Y1: 4, Flag: true}},
		{"vc h,8", Command{Verb: VerbVirusCheck, X1: 7, Y1: 7}},
		{"er 1,1,2,2,1", Command{Verb: VerbError404, X1: 0, Y1: 0, X2: 1, Y2: 1, Flag: true}},
		{"er a1,b2,0", Command{Verb: VerbError404, X1: 0, Y1: 0, X2: 1, Y2: 1}},
		{"dp LVLVlvlv", Command{Verb: VerbDeploy, Layout: [CardsPerPlayer]OnlineCardType{
			Link, Virus, Link, Virus, Link, Virus, Link, Virus,
		}}},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.line)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.line, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"", ErrMalformed},
		{"mv", ErrMalformed},
		{"mv1,1,1,2", ErrMalformed},
		{"zz 1,1", ErrUnknownVerb},
		{"mv 1,1,1", ErrMalformed},
		{"mv 1,1,1,2,3", ErrMalformed},
		{"mv 1,1,i,2", ErrMalformed},
		{"mv 1,a,1,2", ErrMalformed}, // letters only on x
		{"mv 9,1,1,2", ErrMalformed},
		{"mv 1,11,1,10", ErrMalformed}, // server row only as destination
		{"mv 1,1,1,10", ErrMalformed},
		{"mv -1,1,1,2", ErrMalformed},
		{"bs 1,1,2", ErrMalformed},
		{"fw 1,9,1", ErrMalformed},
		{"vc 1,1,1", ErrMalformed},
		{"er 1,1,2,2", ErrMalformed},
		{"er 1,1,2,11,0", ErrMalformed},
		{"dp LLLLLVVV", ErrMalformed},
		{"dp LLLL VVVV", ErrMalformed},
	}
	for _, tt := range tests {
		_, err := ParseCommand(tt.line)
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.line, tt.want, err)
		}
	}
}

func TestFormatCommandsRoundTrip(t *testing.T) {
	for _, line := range []string{
		FormatMove(3, 7, 5, 10),
		FormatBoost(0, 0, true),
		FormatFirewall(2, 3, false),
		FormatVirusCheck(7, 7),
		FormatDeploy("LLVVLLVV"),
	} {
		if _, err := ParseCommand(line); err != nil {
			t.Errorf("%q does not parse: %v", line, err)
		}
	}
	if got := FormatMove(0, 1, 0, 2); got != "mv 1,2,1,3" {
		t.Errorf("unexpected move format %q", got)
	}
}
