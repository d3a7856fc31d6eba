package hei

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nelhage/hexai/hex"
)

// TimeControl is the clock state sent with "go".
type TimeControl struct {
	MoveTime time.Duration

	A    time.Duration
	B    time.Duration
	AInc time.Duration
	BInc time.Duration
}

func formatTime(d time.Duration) string {
	ms := d / time.Millisecond
	if ms < 0 {
		ms = 0
	}
	return strconv.FormatUint(uint64(ms), 10)
}

// Args renders tc as "go" arguments.
func (tc TimeControl) Args() []string {
	var out []string
	if tc.MoveTime > 0 {
		out = append(out, "movetime", formatTime(tc.MoveTime))
	}
	for _, f := range []struct {
		name string
		d    time.Duration
	}{
		{"atime", tc.A}, {"btime", tc.B}, {"ainc", tc.AInc}, {"binc", tc.BInc},
	} {
		if f.d > 0 {
			out = append(out, f.name, formatTime(f.d))
		}
	}
	return out
}

func parseTimeControl(words []string) (TimeControl, error) {
	var tc TimeControl
	if len(words)%2 != 0 {
		return tc, errors.New("expected <key> <ms> pairs")
	}
	for i := 0; i < len(words); i += 2 {
		ms, err := strconv.ParseUint(words[i+1], 10, 64)
		if err != nil {
			return tc, fmt.Errorf("bad ms: %v", words[i+1])
		}
		d := time.Duration(ms) * time.Millisecond
		switch words[i] {
		case "movetime":
			tc.MoveTime = d
		case "atime":
			tc.A = d
		case "btime":
			tc.B = d
		case "ainc":
			tc.AInc = d
		case "binc":
			tc.BInc = d
		default:
			return tc, fmt.Errorf("unknown time control: %q", words[i])
		}
	}
	return tc, nil
}

// Budget is how long side may think. Zero means unlimited.
func (tc TimeControl) Budget(side hex.Side) time.Duration {
	game, inc := tc.A, tc.AInc
	if side == hex.SideB {
		game, inc = tc.B, tc.BInc
	}
	return calcBudget(tc.MoveTime, game, inc)
}

func calcBudget(move, game, inc time.Duration) time.Duration {
	if game == 0 {
		return move
	}
	budget := game/20 + inc/2
	if budget >= game {
		budget = game / 2
	}
	if move != 0 && move < budget {
		budget = move
	}
	return budget
}
