package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/hextest"
)

func TestRandom(t *testing.T) {
	b := hextest.Board("1,2,1/x,2,x/1,x2 1")
	r := NewRandom(7)
	seen := make(map[hex.Pos]bool)
	for i := 0; i < 50; i++ {
		m, err := r.GetMove(context.Background(), b, hex.SideA)
		require.NoError(t, err)
		assert.True(t, b.Empty(m.Pos), "%v", m.Pos)
		assert.Equal(t, hex.SideA, m.Side)
		seen[m.Pos] = true
	}
	assert.Len(t, seen, 4)

	full := hextest.Board("1,2/2,1 1")
	_, err := r.GetMove(context.Background(), full, hex.SideB)
	assert.Equal(t, ErrNoMoves, err)
}
