package notation

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/hexai/hex"
)

func TestParsePos(t *testing.T) {
	cases := []struct {
		in  string
		out hex.Pos
		ok  bool
	}{
		{"a1", hex.Pos{Row: 0, Col: 0}, true},
		{"c3", hex.Pos{Row: 2, Col: 2}, true},
		{"e11", hex.Pos{Row: 10, Col: 4}, true},
		{"k2", hex.Pos{Row: 1, Col: 10}, true},
		{"a0", hex.Pos{}, false},
		{"A1", hex.Pos{}, false},
		{"c", hex.Pos{}, false},
		{"cz", hex.Pos{}, false},
	}
	for _, tc := range cases {
		got, err := ParsePos(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		if assert.NoError(t, err, tc.in) {
			assert.Equal(t, tc.out, got, tc.in)
			assert.Equal(t, tc.in, FormatPos(got))
		}
	}
}

func TestParseBoard(t *testing.T) {
	b, side, err := ParseBoard("x5/x2,1,x2/x,2,1,x2/x5/2,x4 2")
	require.NoError(t, err)
	assert.Equal(t, hex.SideB, side)
	assert.Equal(t, 5, b.Rows())
	assert.Equal(t, 5, b.Cols())
	assert.Equal(t, hex.SideA, b.At(hex.Pos{Row: 1, Col: 2}))
	assert.Equal(t, hex.SideB, b.At(hex.Pos{Row: 2, Col: 1}))
	assert.Equal(t, hex.SideA, b.At(hex.Pos{Row: 2, Col: 2}))
	assert.Equal(t, hex.SideB, b.At(hex.Pos{Row: 4, Col: 0}))
	assert.Equal(t, 4, b.Ply())
	_, moved := b.LastMove(hex.SideA)
	assert.False(t, moved)
}

func TestFormatBoard(t *testing.T) {
	cases := []string{
		"x5/x5/x5/x5/x5 1",
		"1,1,1,1,x/x5/x5/x5/x5 1",
		"x2,1,x2/x,2,1,x2/x5/x2,2,x2/x5 2",
		"x11/x11/x11/x11/x11/x5,1,x5/x11/x11/x11/x11/x11 2",
		"1,2,x/x3 1",
		"x5/x2,1,x2/x,2,1,x2/x5/x5 2 c3",
		"x5/x2,1,x2/x,2,1,x2/x5/x5 1 b3",
	}
	for _, tc := range cases {
		b, side, err := ParseBoard(tc)
		if !assert.NoError(t, err, tc) {
			continue
		}
		assert.Equal(t, tc, FormatBoard(b, side))
	}
}

func TestParseBoardErrors(t *testing.T) {
	cases := []string{
		"",
		"x5/x5 3",
		"x5/x4 1",
		"x5/x2,3,x2 1",
		"x5/x0 1",
		"x5",
		"x5/x2,1,x2 2 a1",
		"x5/x2,1,x2 1 c2",
		"x5/x2,1,x2 2 z9",
		"x5/x2,1,x2 2 c2 d2",
		"x27 1",
		"1,x26 1",
		strings.Repeat("x/", hex.MaxSize) + "x 1",
	}
	for _, tc := range cases {
		_, _, err := ParseBoard(tc)
		assert.Error(t, err, tc)
	}
}

func TestParseBoardLastMove(t *testing.T) {
	b, side, err := ParseBoard("x5/x2,1,x2/x,2,1,x2/x5/x5 2 c3")
	require.NoError(t, err)
	assert.Equal(t, hex.SideB, side)
	assert.Equal(t, 3, b.Ply())
	m, ok := b.LastMove(hex.SideA)
	require.True(t, ok)
	assert.Equal(t, hex.Pos{Row: 2, Col: 2}, m.Pos)
	assert.Equal(t, hex.SideA, m.Side)
	_, ok = b.LastMove(hex.SideB)
	assert.False(t, ok)
}

func TestParseBoardHugeRun(t *testing.T) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, _, err := ParseBoard("x200000000 1")
	runtime.ReadMemStats(&after)
	assert.Error(t, err)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestParseMoves(t *testing.T) {
	ms, err := ParseMoves("a1 b2 c3", hex.SideB)
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.True(t, ms[0].Equal(hex.Move{Pos: hex.Pos{Row: 0, Col: 0}, Side: hex.SideB}))
	assert.Equal(t, hex.SideA, ms[1].Side)
	assert.Equal(t, hex.SideB, ms[2].Side)
	assert.Equal(t, "a1 b2 c3", FormatMoves(ms))
}
