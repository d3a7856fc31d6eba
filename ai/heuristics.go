package ai

import (
	"math"

	"github.com/nelhage/hexai/hex"
)

// Adjacent counts the side's stones next to p.
func Adjacent(b *hex.Board, side hex.Side, p hex.Pos) int {
	n := 0
	for _, d := range hex.Directions {
		q := p.Add(d)
		if b.InBounds(q) && b.At(q) == side {
			n++
		}
	}
	return n
}

// EdgeProgress is in (0, 1] and grows as p approaches either of the
// side's target edges.
func EdgeProgress(b *hex.Board, side hex.Side, p hex.Pos) float64 {
	n, i := b.Cols(), p.Col
	if side == hex.SideB {
		n, i = b.Rows(), p.Row
	}
	d := i
	if n-1-i < d {
		d = n - 1 - i
	}
	return float64(n-d) / float64(n)
}

// CenterBias is 1 at the board center and falls off linearly with
// Euclidean distance.
func CenterBias(b *hex.Board, p hex.Pos) float64 {
	cr, cc := float64(b.Rows())/2, float64(b.Cols())/2
	maxD := math.Max(float64(b.Rows()), float64(b.Cols())) / 2
	d := math.Hypot(float64(p.Row)-cr, float64(p.Col)-cc)
	return (maxD - d) / maxD
}

// CenterMove returns the empty cell closest to the center, preferring
// the earliest in row-major order on ties.
func CenterMove(b *hex.Board) (hex.Pos, bool) {
	cr, cc := float64(b.Rows())/2, float64(b.Cols())/2
	var best hex.Pos
	bestD := math.Inf(1)
	for _, p := range b.EmptyCells() {
		d := math.Hypot(float64(p.Row)-cr, float64(p.Col)-cc)
		if d < bestD {
			best, bestD = p, d
		}
	}
	return best, !math.IsInf(bestD, 1)
}
