package ai

import (
	"fmt"

	"github.com/nelhage/hexai/bitboard"
	"github.com/nelhage/hexai/hex"
)

// Frontier tracks, per side, the empty cells adjacent to that side's
// stones. It is built by a full scan and then kept current by calling
// Update once for every stone placed by either side.
type Frontier struct {
	c     *bitboard.Constants
	sets  [2]bitboard.Set
	ready bool

	rebuilds, updates int
}

func (f *Frontier) Ready() bool {
	return f.ready
}

// Matches reports whether the frontier was built for b's dimensions.
func (f *Frontier) Matches(b *hex.Board) bool {
	return f.ready && f.c.Rows == uint(b.Rows()) && f.c.Cols == uint(b.Cols())
}

func (f *Frontier) Rebuild(b *hex.Board) {
	f.c = b.Constants()
	occupied := b.Occupied()
	for i, s := range []hex.Side{hex.SideA, hex.SideB} {
		g := bitboard.Grow(f.c, f.c.Mask, b.Owned(s))
		g.AndNotWith(occupied)
		f.sets[i] = g
	}
	f.ready = true
	f.rebuilds++
}

// Update applies m, which must already be on b.
func (f *Frontier) Update(b *hex.Board, m hex.Move) {
	if !f.Matches(b) || !m.Side.Valid() {
		return
	}
	at := f.c.New()
	at.Add(b.Index(m.Pos))
	grown := bitboard.Grow(f.c, f.c.Mask, at)
	grown.AndNotWith(b.Occupied())

	f.sets[0].AndNotWith(at)
	f.sets[1].AndNotWith(at)
	f.sets[m.Side-1].OrWith(grown)
	f.updates++
}

func (f *Frontier) Reset() {
	f.sets = [2]bitboard.Set{}
	f.ready = false
	f.rebuilds, f.updates = 0, 0
}

// Of returns the side's frontier. It must not be modified.
func (f *Frontier) Of(s hex.Side) bitboard.Set {
	if !f.ready || !s.Valid() {
		return nil
	}
	return f.sets[s-1]
}

func (f *Frontier) Cells(b *hex.Board, s hex.Side) []hex.Pos {
	var out []hex.Pos
	if set := f.Of(s); set != nil {
		set.Each(func(i uint) { out = append(out, b.PosAt(i)) })
	}
	return out
}

func (f *Frontier) Equal(o *Frontier) bool {
	if f.ready != o.ready {
		return false
	}
	if !f.ready {
		return true
	}
	return f.sets[0].Equal(o.sets[0]) && f.sets[1].Equal(o.sets[1])
}

func (f *Frontier) String() string {
	if !f.ready {
		return "frontier: uninitialized"
	}
	return fmt.Sprintf("frontier: A=%d B=%d rebuilds=%d updates=%d",
		f.sets[0].Len(), f.sets[1].Len(), f.rebuilds, f.updates)
}
