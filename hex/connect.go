package hex

import "github.com/nelhage/hexai/bitboard"

type Connection struct {
	Won bool
	// Path runs from the start edge to the target edge.
	Path []Pos
}

// Checker decides whether a side has connected its edges.
type Checker interface {
	Evaluate(b *Board, s Side) Connection
}

// DFS is the default Checker.
type DFS struct{}

func (DFS) Evaluate(b *Board, s Side) Connection {
	return Evaluate(b, s)
}

func startEdge(b *Board, s Side) bitboard.Set {
	if s == SideA {
		return b.cfg.c.L
	}
	return b.cfg.c.T
}

func targetEdge(b *Board, s Side) bitboard.Set {
	if s == SideA {
		return b.cfg.c.R
	}
	return b.cfg.c.B
}

func onTarget(b *Board, s Side, p Pos) bool {
	if s == SideA {
		return p.Col == b.cfg.Cols-1
	}
	return p.Row == b.cfg.Rows-1
}

// Evaluate searches depth-first from each of the side's start-edge
// stones and returns the first spanning chain it finds.
func Evaluate(b *Board, s Side) Connection {
	if !s.Valid() {
		return Connection{}
	}
	owned := b.owned[s-1]
	starts := bitboard.And(owned, startEdge(b, s))
	if starts.Empty() {
		return Connection{}
	}
	visited := b.cfg.c.New()
	var path []Pos

	var dfs func(p Pos) bool
	dfs = func(p Pos) bool {
		visited.Add(b.Index(p))
		path = append(path, p)
		if onTarget(b, s, p) {
			return true
		}
		for _, d := range Directions {
			n := p.Add(d)
			if !b.InBounds(n) {
				continue
			}
			i := b.Index(n)
			if visited.Has(i) || !owned.Has(i) {
				continue
			}
			if dfs(n) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	for _, i := range starts.Slice() {
		if visited.Has(i) {
			continue
		}
		if dfs(b.PosAt(i)) {
			return Connection{Won: true, Path: path}
		}
	}
	return Connection{}
}

// HasWon is Evaluate without the path, using a bitboard flood fill.
func HasWon(b *Board, s Side) bool {
	if !s.Valid() {
		return false
	}
	c := &b.cfg.c
	owned := b.owned[s-1]
	seed := bitboard.And(owned, startEdge(b, s))
	if seed.Empty() {
		return false
	}
	return bitboard.Flood(c, owned, seed).Intersects(targetEdge(b, s))
}

// Winner reports the connected side, checking SideA first.
func Winner(b *Board) Side {
	if HasWon(b, SideA) {
		return SideA
	}
	if HasWon(b, SideB) {
		return SideB
	}
	return NoSide
}

// Regions returns the side's connected groups, ordered by their first
// cell in row-major order.
func Regions(b *Board, s Side) [][]Pos {
	groups := bitboard.FloodGroups(&b.cfg.c, b.owned[s-1], nil)
	out := make([][]Pos, 0, len(groups))
	for _, g := range groups {
		var ps []Pos
		g.Each(func(i uint) { ps = append(ps, b.PosAt(i)) })
		out = append(out, ps)
	}
	return out
}

// Occupancy is the fraction of occupied cells.
func Occupancy(b *Board) float64 {
	return float64(b.owned[0].Len()+b.owned[1].Len()) / float64(b.Size())
}
