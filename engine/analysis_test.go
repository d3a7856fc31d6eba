package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/hextest"
)

func TestAnalyze(t *testing.T) {
	cases := []struct {
		name  string
		board string
		side  hex.Side
		win   bool
		block bool
	}{
		{"win", "1,1,1,1,x/x5/x5/x5/x5 1", hex.SideA, true, false},
		{"block", "1,1,1,1,x/x5/x5/x5/x5 2", hex.SideB, false, true},
		{"quiet", "x5/x5/x2,1,x2/x5/x5 2", hex.SideB, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newController(t, testConfig(Hybrid))
			a, err := c.Analyze(context.Background(), hextest.Board(tc.board), tc.side, 3)
			require.NoError(t, err)
			assert.Equal(t, tc.win, a.Win != nil)
			assert.Equal(t, tc.block, a.Block != nil)
			require.Len(t, a.Ranked, 3)
			require.Len(t, a.Breakdown, 3)
			require.Len(t, a.Rollouts, 3)
			for i := range a.Ranked {
				assert.Equal(t, a.Ranked[i].Pos, a.Rollouts[i].Pos)
				assert.Equal(t, a.Ranked[i].Score, a.Breakdown[i].Total)
				assert.Positive(t, a.Rollouts[i].Simulations)
			}
			if tc.win || tc.block {
				require.NotNil(t, a.Forced)
				assert.Contains(t, []ai.ThreatKind{ai.ThreatWin, ai.ThreatBlock}, a.Forced.Kind)
				assert.Equal(t, SourceThreat, a.Decision.Source)
				assert.Equal(t, hex.Pos{Row: 0, Col: 4}, a.Decision.Move.Pos)
			}
			assert.Equal(t, int64(1), c.Stats().Decisions)
		})
	}
}

func TestAnalyzeWithoutEvaluators(t *testing.T) {
	cfg := testConfig(Hybrid)
	cfg.NoThreat, cfg.NoRollout, cfg.NoPositional = true, true, true
	c := newController(t, cfg)
	a, err := c.Analyze(context.Background(), hextest.Board("x5/x5/x5/x5/x5 1"), hex.SideA, 5)
	require.NoError(t, err)
	assert.Nil(t, a.Forced)
	assert.Empty(t, a.Ranked)
	assert.Empty(t, a.Rollouts)
	assert.Equal(t, SourceRandom, a.Decision.Source)

	_, err = c.Analyze(context.Background(), hextest.Board("x5/x5/x5/x5/x5 1"), hex.NoSide, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
