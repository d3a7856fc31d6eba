package bitboard

import "math/bits"

// Set is a board-sized bitset. Bit i is cell (i / Cols, i % Cols).
type Set []uint64

// Constants holds the per-geometry masks. L and R are the first and
// last columns, T and B the first and last rows.
type Constants struct {
	Rows, Cols uint
	Words      int
	L, R, T, B Set
	Edge       Set
	Mask       Set
}

func Precompute(rows, cols uint) Constants {
	var c Constants
	c.Rows = rows
	c.Cols = cols
	c.Words = int((rows*cols + 63) / 64)
	c.L = c.New()
	c.R = c.New()
	c.T = c.New()
	c.B = c.New()
	c.Mask = c.New()
	for r := uint(0); r < rows; r++ {
		c.L.Add(r * cols)
		c.R.Add(r*cols + cols - 1)
	}
	for col := uint(0); col < cols; col++ {
		c.T.Add(col)
		c.B.Add((rows-1)*cols + col)
	}
	for i := uint(0); i < rows*cols; i++ {
		c.Mask.Add(i)
	}
	c.Edge = Or(Or(c.L, c.R), Or(c.T, c.B))
	return c
}

func (c *Constants) New() Set {
	return make(Set, c.Words)
}

func (c *Constants) Index(row, col int) uint {
	return uint(row)*c.Cols + uint(col)
}

func (c *Constants) Coords(i uint) (row, col int) {
	return int(i / c.Cols), int(i % c.Cols)
}

func (s Set) Has(i uint) bool {
	return s[i/64]&(1<<(i%64)) != 0
}

func (s Set) Add(i uint) {
	s[i/64] |= 1 << (i % 64)
}

func (s Set) Remove(i uint) {
	s[i/64] &^= 1 << (i % 64)
}

func (s Set) Len() int {
	n := 0
	for _, w := range s {
		n += Popcount(w)
	}
	return n
}

func (s Set) Empty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

func (s Set) Clear() {
	for i := range s {
		s[i] = 0
	}
}

func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Set) Intersects(o Set) bool {
	for i := range s {
		if s[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

// Each calls fn for every set bit in ascending order.
func (s Set) Each(fn func(i uint)) {
	for wi, w := range s {
		for w != 0 {
			next := w & (w - 1)
			fn(uint(wi)*64 + TrailingZeros(w&^next))
			w = next
		}
	}
}

func (s Set) Slice() []uint {
	out := make([]uint, 0, s.Len())
	s.Each(func(i uint) { out = append(out, i) })
	return out
}

func (s Set) OrWith(o Set) {
	for i := range s {
		s[i] |= o[i]
	}
}

func (s Set) AndWith(o Set) {
	for i := range s {
		s[i] &= o[i]
	}
}

func (s Set) AndNotWith(o Set) {
	for i := range s {
		s[i] &^= o[i]
	}
}

func Or(a, b Set) Set {
	out := a.Clone()
	out.OrWith(b)
	return out
}

func And(a, b Set) Set {
	out := a.Clone()
	out.AndWith(b)
	return out
}

func AndNot(a, b Set) Set {
	out := a.Clone()
	out.AndNotWith(b)
	return out
}

func shiftLeft(dst, src Set, n uint) {
	w, b := int(n/64), n%64
	for i := len(dst) - 1; i >= 0; i-- {
		var v uint64
		if j := i - w; j >= 0 {
			v = src[j] << b
			if b != 0 && j > 0 {
				v |= src[j-1] >> (64 - b)
			}
		}
		dst[i] = v
	}
}

func shiftRight(dst, src Set, n uint) {
	w, b := int(n/64), n%64
	for i := range dst {
		var v uint64
		if j := i + w; j < len(src) {
			v = src[j] >> b
			if b != 0 && j+1 < len(src) {
				v |= src[j+1] << (64 - b)
			}
		}
		dst[i] = v
	}
}

// Grow returns seed plus every hex neighbor of seed, restricted to
// within. Neighbors of (r, c) are (r-1,c) (r-1,c+1) (r,c-1) (r,c+1)
// (r+1,c-1) (r+1,c).
func Grow(c *Constants, within Set, seed Set) Set {
	next := seed.Clone()
	tmp := c.New()
	notR := AndNot(seed, c.R)
	notL := AndNot(seed, c.L)

	shiftRight(tmp, seed, c.Cols)
	next.OrWith(tmp)
	shiftRight(tmp, notR, c.Cols-1)
	next.OrWith(tmp)
	shiftRight(tmp, notL, 1)
	next.OrWith(tmp)
	shiftLeft(tmp, notR, 1)
	next.OrWith(tmp)
	shiftLeft(tmp, notL, c.Cols-1)
	next.OrWith(tmp)
	shiftLeft(tmp, seed, c.Cols)
	next.OrWith(tmp)

	next.AndWith(within)
	return next
}

func Flood(c *Constants, within Set, seed Set) Set {
	for {
		next := Grow(c, within, seed)
		if next.Equal(seed) {
			return next
		}
		seed = next
	}
}

// FloodGroups partitions bits into connected groups, ordered by their
// lowest cell.
func FloodGroups(c *Constants, bits Set, out []Set) []Set {
	seen := c.New()
	bits.Each(func(i uint) {
		if seen.Has(i) {
			return
		}
		seed := c.New()
		seed.Add(i)
		g := Flood(c, bits, seed)
		out = append(out, g)
		seen.OrWith(g)
	})
	return out
}

func Popcount(x uint64) int {
	return bits.OnesCount64(x)
}

func TrailingZeros(x uint64) uint {
	return uint(bits.TrailingZeros64(x))
}
