package hex

import (
	"errors"
	"fmt"

	"github.com/nelhage/hexai/bitboard"
)

const MaxSize = 26

var (
	ErrOutOfRange = errors.New("position out of range")
	ErrOccupied   = errors.New("position occupied")
	ErrNoSide     = errors.New("move has no side")
)

type Config struct {
	Rows int
	Cols int

	c bitboard.Constants
}

type Board struct {
	cfg *Config

	owned [2]bitboard.Set
	last  [2]Move
	moved [2]bool
	ply   int
}

// New returns an empty board. Dimensions outside [1, MaxSize] are a
// programming error and panic.
func New(g Config) *Board {
	if g.Rows < 1 || g.Rows > MaxSize || g.Cols < 1 || g.Cols > MaxSize {
		panic(fmt.Sprintf("hex: illegal board size %dx%d", g.Rows, g.Cols))
	}
	g.c = bitboard.Precompute(uint(g.Rows), uint(g.Cols))
	return &Board{
		cfg:   &g,
		owned: [2]bitboard.Set{g.c.New(), g.c.New()},
	}
}

func (b *Board) Rows() int { return b.cfg.Rows }
func (b *Board) Cols() int { return b.cfg.Cols }
func (b *Board) Size() int { return b.cfg.Rows * b.cfg.Cols }

func (b *Board) Config() Config {
	return Config{Rows: b.cfg.Rows, Cols: b.cfg.Cols}
}

func (b *Board) Constants() *bitboard.Constants {
	return &b.cfg.c
}

func (b *Board) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < b.cfg.Rows && p.Col >= 0 && p.Col < b.cfg.Cols
}

func (b *Board) Index(p Pos) uint {
	return b.cfg.c.Index(p.Row, p.Col)
}

func (b *Board) PosAt(i uint) Pos {
	r, c := b.cfg.c.Coords(i)
	return Pos{r, c}
}

func (b *Board) At(p Pos) Side {
	i := b.Index(p)
	switch {
	case b.owned[0].Has(i):
		return SideA
	case b.owned[1].Has(i):
		return SideB
	}
	return NoSide
}

func (b *Board) Empty(p Pos) bool {
	return b.InBounds(p) && b.At(p) == NoSide
}

// Owned returns the side's stones. The set is shared with the board
// and must not be modified.
func (b *Board) Owned(s Side) bitboard.Set {
	return b.owned[s-1]
}

func (b *Board) Occupied() bitboard.Set {
	return bitboard.Or(b.owned[0], b.owned[1])
}

func (b *Board) EmptySet() bitboard.Set {
	return bitboard.AndNot(b.cfg.c.Mask, b.Occupied())
}

// EmptyCells lists empty positions in row-major order.
func (b *Board) EmptyCells() []Pos {
	var out []Pos
	b.EmptySet().Each(func(i uint) {
		out = append(out, b.PosAt(i))
	})
	return out
}

func (b *Board) Stones(s Side) int {
	return b.owned[s-1].Len()
}

func (b *Board) Full() bool {
	return b.owned[0].Len()+b.owned[1].Len() == b.Size()
}

func (b *Board) Ply() int {
	return b.ply
}

// Neighbors returns the on-board neighbors of p in Directions order.
func (b *Board) Neighbors(p Pos) []Pos {
	out := make([]Pos, 0, len(Directions))
	for _, d := range Directions {
		if n := p.Add(d); b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

func (b *Board) check(p Pos, s Side) error {
	if !s.Valid() {
		return ErrNoSide
	}
	if !b.InBounds(p) {
		return fmt.Errorf("%v: %w", p, ErrOutOfRange)
	}
	if b.At(p) != NoSide {
		return fmt.Errorf("%v: %w", p, ErrOccupied)
	}
	return nil
}

// Set puts a stone on the board without recording it as a move.
func (b *Board) Set(p Pos, s Side) error {
	if err := b.check(p, s); err != nil {
		return err
	}
	b.owned[s-1].Add(b.Index(p))
	b.ply++
	return nil
}

// Place plays m, remembering it as the last move of m.Side.
func (b *Board) Place(m Move) error {
	if err := b.Set(m.Pos, m.Side); err != nil {
		return err
	}
	b.last[m.Side-1] = m
	b.moved[m.Side-1] = true
	return nil
}

func (b *Board) LastMove(s Side) (Move, bool) {
	if !s.Valid() {
		return Move{}, false
	}
	return b.last[s-1], b.moved[s-1]
}

func (b *Board) Reset() {
	b.owned[0].Clear()
	b.owned[1].Clear()
	b.last = [2]Move{}
	b.moved = [2]bool{}
	b.ply = 0
}

func (b *Board) Clone() *Board {
	out := &Board{cfg: b.cfg}
	out.owned[0] = b.owned[0].Clone()
	out.owned[1] = b.owned[1].Clone()
	out.last = b.last
	out.moved = b.moved
	out.ply = b.ply
	return out
}

// CloneInto copies b into dst, reusing dst's storage when the
// dimensions match. It returns the copy.
func (b *Board) CloneInto(dst *Board) *Board {
	if dst == nil || dst.cfg.Rows != b.cfg.Rows || dst.cfg.Cols != b.cfg.Cols {
		return b.Clone()
	}
	dst.cfg = b.cfg
	copy(dst.owned[0], b.owned[0])
	copy(dst.owned[1], b.owned[1])
	dst.last = b.last
	dst.moved = b.moved
	dst.ply = b.ply
	return dst
}

func (b *Board) Equal(o *Board) bool {
	return b.cfg.Rows == o.cfg.Rows && b.cfg.Cols == o.cfg.Cols &&
		b.owned[0].Equal(o.owned[0]) && b.owned[1].Equal(o.owned[1])
}
