package opt

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/hexai/engine"
)

func parse(t *testing.T, args ...string) *Engine {
	t.Helper()
	var o Engine
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &o
}

func TestBuildConfig(t *testing.T) {
	cfg, err := parse(t).BuildConfig(7, 9)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Rows)
	assert.Equal(t, 9, cfg.Cols)
	assert.Equal(t, engine.Hybrid, cfg.Policy)
	assert.Nil(t, cfg.Weights)
	assert.False(t, cfg.NoExplore)

	cfg, err = parse(t, "-policy", "rollout", "-strength", "0.25",
		"-simulations", "50", "-explore=false", "-no-cache").BuildConfig(5, 5)
	require.NoError(t, err)
	assert.Equal(t, engine.RolloutFocused, cfg.Policy)
	require.NotNil(t, cfg.Weights)
	assert.Equal(t, 0.25, cfg.Weights.Strength)
	assert.Equal(t, 50, cfg.Simulations)
	assert.True(t, cfg.NoExplore)
	assert.True(t, cfg.NoCache)

	_, err = parse(t, "-policy", "bogus").BuildConfig(5, 5)
	assert.Error(t, err)
	_, err = parse(t).BuildConfig(3, 3)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"policy": "threat", "simulations": 80, "weights": {"noise": 0.5}}`), 0644))

	cfg, err := parse(t, "-config", path, "-simulations", "10").BuildConfig(11, 11)
	require.NoError(t, err)
	assert.Equal(t, engine.ThreatFocused, cfg.Policy)
	assert.Equal(t, 10, cfg.Simulations)
	require.NotNil(t, cfg.Weights)
	assert.Equal(t, 0.5, cfg.Weights.Noise)

	require.NoError(t, os.WriteFile(path, []byte(`{"frobs": 1}`), 0644))
	_, err = parse(t, "-config", path).BuildConfig(11, 11)
	assert.Error(t, err)
}
