package hex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlace(t *testing.T) {
	b := New(Config{Rows: 5, Cols: 5})
	if err := b.Place(NewMove(Pos{2, 2}, SideA)); err != nil {
		t.Fatal("place:", err)
	}
	if b.At(Pos{2, 2}) != SideA {
		t.Errorf("at=%s", b.At(Pos{2, 2}))
	}
	cases := []struct {
		m   Move
		err error
	}{
		{Move{Pos: Pos{2, 2}, Side: SideB}, ErrOccupied},
		{Move{Pos: Pos{5, 0}, Side: SideB}, ErrOutOfRange},
		{Move{Pos: Pos{0, -1}, Side: SideB}, ErrOutOfRange},
		{Move{Pos: Pos{0, 0}, Side: NoSide}, ErrNoSide},
	}
	for i, tc := range cases {
		if err := b.Place(tc.m); !errors.Is(err, tc.err) {
			t.Errorf("%d: Place(%v)=%v, want %v", i, tc.m, err, tc.err)
		}
	}
	if b.Ply() != 1 {
		t.Errorf("ply=%d", b.Ply())
	}
	last, ok := b.LastMove(SideA)
	assert.True(t, ok)
	assert.Equal(t, Pos{2, 2}, last.Pos)
	_, ok = b.LastMove(SideB)
	assert.False(t, ok)
}

func TestNewPanics(t *testing.T) {
	assert.Panics(t, func() { New(Config{Rows: 0, Cols: 5}) })
	assert.Panics(t, func() { New(Config{Rows: 5, Cols: 27}) })
	assert.NotPanics(t, func() { New(Config{Rows: 26, Cols: 26}) })
}

func TestClone(t *testing.T) {
	b := New(Config{Rows: 11, Cols: 11})
	b.Place(NewMove(Pos{5, 9}, SideA))
	c := b.Clone()
	c.Place(NewMove(Pos{0, 0}, SideB))
	if b.At(Pos{0, 0}) != NoSide {
		t.Error("clone shares storage")
	}
	if c.At(Pos{5, 9}) != SideA {
		t.Error("clone lost stone")
	}

	scratch := New(Config{Rows: 11, Cols: 11})
	got := c.CloneInto(scratch)
	assert.True(t, got == scratch)
	assert.True(t, got.Equal(c))
	got.Place(NewMove(Pos{1, 1}, SideA))
	assert.Equal(t, NoSide, c.At(Pos{1, 1}))

	other := New(Config{Rows: 5, Cols: 5})
	got = c.CloneInto(other)
	assert.False(t, got == other)
	assert.True(t, got.Equal(c))
}

func TestHash(t *testing.T) {
	a := New(Config{Rows: 7, Cols: 7})
	a.Place(NewMove(Pos{1, 1}, SideA))
	a.Place(NewMove(Pos{2, 3}, SideB))
	a.Place(NewMove(Pos{4, 4}, SideA))

	b := New(Config{Rows: 7, Cols: 7})
	b.Place(NewMove(Pos{4, 4}, SideA))
	b.Place(NewMove(Pos{1, 1}, SideA))
	b.Place(NewMove(Pos{2, 3}, SideB))

	assert.Equal(t, a.Hash(), b.Hash(), "hash depends on move order")

	c := New(Config{Rows: 7, Cols: 7})
	c.Place(NewMove(Pos{1, 1}, SideB))
	c.Place(NewMove(Pos{2, 3}, SideA))
	c.Place(NewMove(Pos{4, 4}, SideA))
	assert.NotEqual(t, a.Hash(), c.Hash(), "hash ignores owner")

	empty7 := New(Config{Rows: 7, Cols: 7})
	empty5 := New(Config{Rows: 5, Cols: 5})
	assert.NotEqual(t, empty7.Hash(), empty5.Hash())
}

func TestNeighbors(t *testing.T) {
	b := New(Config{Rows: 5, Cols: 5})
	cases := []struct {
		p   Pos
		out []Pos
	}{
		{Pos{2, 2}, []Pos{{1, 2}, {1, 3}, {2, 1}, {2, 3}, {3, 1}, {3, 2}}},
		{Pos{0, 0}, []Pos{{0, 1}, {1, 0}}},
		{Pos{0, 4}, []Pos{{0, 3}, {1, 3}, {1, 4}}},
		{Pos{4, 0}, []Pos{{3, 0}, {3, 1}, {4, 1}}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, b.Neighbors(tc.p), "%v", tc.p)
	}
}

func TestEmptyCells(t *testing.T) {
	b := New(Config{Rows: 2, Cols: 3})
	b.Place(NewMove(Pos{0, 1}, SideA))
	b.Place(NewMove(Pos{1, 0}, SideB))
	assert.Equal(t, []Pos{{0, 0}, {0, 2}, {1, 1}, {1, 2}}, b.EmptyCells())
	assert.False(t, b.Full())
	for _, p := range b.EmptyCells() {
		b.Place(NewMove(p, SideA))
	}
	assert.True(t, b.Full())
	assert.Empty(t, b.EmptyCells())

	b.Reset()
	assert.Len(t, b.EmptyCells(), 6)
	assert.Equal(t, 0, b.Ply())
	_, ok := b.LastMove(SideA)
	assert.False(t, ok)
}

func TestMoveEqual(t *testing.T) {
	a := NewMove(Pos{1, 2}, SideA)
	b := Move{Pos: Pos{1, 2}, Side: SideA}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Move{Pos: Pos{1, 2}, Side: SideB}))
	assert.Equal(t, SideB, SideA.Flip())
	assert.Equal(t, NoSide, NoSide.Flip())
}
