package rollout

import (
	"context"
	"sort"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/hex"
)

// PolicyFunc picks the next move for side during a simulated game. It
// reports false if there is nothing to play.
type PolicyFunc func(ctx context.Context, b *hex.Board, side hex.Side) (hex.Pos, bool)

func RandomPolicy(ctx context.Context, b *hex.Board, side hex.Side) (hex.Pos, bool) {
	empty := b.EmptySet()
	n := empty.Len()
	if n == 0 {
		return hex.Pos{}, false
	}
	k := GetRand(ctx).Intn(n)
	var out hex.Pos
	empty.Each(func(i uint) {
		if k == 0 {
			out = b.PosAt(i)
		}
		k--
	})
	return out, true
}

const strategicTop = 3

// StrategicPolicy favors cells touching side's stones, near side's
// edges and near the center, choosing uniformly among the best three.
func StrategicPolicy(ctx context.Context, b *hex.Board, side hex.Side) (hex.Pos, bool) {
	type scored struct {
		p hex.Pos
		v float64
	}
	var cells []scored
	b.EmptySet().Each(func(i uint) {
		p := b.PosAt(i)
		v := 2*float64(ai.Adjacent(b, side, p)) +
			ai.EdgeProgress(b, side, p) +
			0.5*ai.CenterBias(b, p)
		cells = append(cells, scored{p, v})
	})
	if len(cells) == 0 {
		return hex.Pos{}, false
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].v > cells[j].v
	})
	top := strategicTop
	if len(cells) < top {
		top = len(cells)
	}
	return cells[GetRand(ctx).Intn(top)].p, true
}

// MixedPolicy plays explore with probability rate and exploit otherwise.
func MixedPolicy(rate float64, explore, exploit PolicyFunc) PolicyFunc {
	return func(ctx context.Context, b *hex.Board, side hex.Side) (hex.Pos, bool) {
		if rate > 0 && GetRand(ctx).Float64() < rate {
			return explore(ctx, b, side)
		}
		return exploit(ctx, b, side)
	}
}
