package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/hexai/hex"
)

func TestMoveCacheEvictsOldestHalf(t *testing.T) {
	c := NewMoveCache(4)
	for i := 0; i < 4; i++ {
		c.Put(uint64(i), hex.SideA, hex.NewMove(hex.Pos{Row: i}, hex.SideA))
	}
	assert.Equal(t, 4, c.Len())

	c.Put(4, hex.SideA, hex.NewMove(hex.Pos{Row: 4}, hex.SideA))
	assert.Equal(t, 3, c.Len())
	for i, want := range []bool{false, false, true, true, true} {
		_, ok := c.Get(uint64(i), hex.SideA)
		assert.Equal(t, want, ok, "entry %d", i)
	}

	_, ok := c.Get(3, hex.SideB)
	assert.False(t, ok, "side is part of the key")

	hits, misses := c.Hits()
	assert.Equal(t, int64(3), hits)
	assert.Equal(t, int64(3), misses)
}

func TestMoveCacheBound(t *testing.T) {
	c := NewMoveCache(defaultCacheSize)
	for i := 0; i < 5*defaultCacheSize; i++ {
		c.Put(uint64(i), hex.SideB, hex.Move{})
		require.LessOrEqual(t, c.Len(), defaultCacheSize)
	}
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestMoveCacheOverwrite(t *testing.T) {
	c := NewMoveCache(2)
	c.Put(1, hex.SideA, hex.NewMove(hex.Pos{Row: 1}, hex.SideA))
	c.Put(1, hex.SideA, hex.NewMove(hex.Pos{Row: 2}, hex.SideA))
	assert.Equal(t, 1, c.Len())
	m, ok := c.Get(1, hex.SideA)
	require.True(t, ok)
	assert.Equal(t, 2, m.Pos.Row)
}

func TestPolicyText(t *testing.T) {
	for _, p := range allPolicies {
		bs, err := p.MarshalText()
		require.NoError(t, err)
		var q Policy
		require.NoError(t, q.UnmarshalText(bs))
		assert.Equal(t, p, q)
	}
	p, err := ParsePolicy(" Rollout ")
	require.NoError(t, err)
	assert.Equal(t, RolloutFocused, p)
	_, err = ParsePolicy("minimax")
	assert.Error(t, err)
	assert.Equal(t, "policy(9)", Policy(9).String())
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`{
		"rows": 7, "cols": 9, "policy": "positional",
		"simulations": 50,
		"weights": {"strength": 0.5, "offsets": {"0,1": 4}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Rows)
	assert.Equal(t, 9, cfg.Cols)
	assert.Equal(t, PositionalOnly, cfg.Policy)
	assert.Equal(t, 50, cfg.Simulations)
	require.NotNil(t, cfg.Weights)
	assert.Equal(t, 0.5, cfg.Weights.Strength)
	assert.Equal(t, 10000.0, cfg.Weights.Win, "unset weights keep their defaults")
	assert.Len(t, cfg.Weights.Offsets, 1)

	_, err = LoadConfig(strings.NewReader(`{"rows": 40}`))
	assert.Error(t, err)
	_, err = LoadConfig(strings.NewReader(`{"bogus": 1}`))
	assert.Error(t, err)

	bs, err := json.Marshal(Config{Policy: ThreatFocused})
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"policy":"threat"`)
}
