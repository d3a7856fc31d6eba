package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nelhage/hexai/ai"
)

const (
	MinSize     = 5
	MaxSize     = 19
	DefaultSize = 11

	defaultHybridCandidates = 5
	defaultCacheSize        = 1000
)

// Config bundles everything a Controller needs. Zero values select
// defaults.
type Config struct {
	Rows   int    `json:"rows,omitempty"`
	Cols   int    `json:"cols,omitempty"`
	Policy Policy `json:"policy"`

	// Weights configures the positional evaluator; nil means
	// ai.DefaultWeights.
	Weights *ai.Weights `json:"weights,omitempty"`

	ThreatCandidates int     `json:"threat_candidates,omitempty"`
	TwoStepWeight    float64 `json:"two_step_weight,omitempty"`
	ConnectionWeight float64 `json:"connection_weight,omitempty"`
	BridgeWeight     float64 `json:"bridge_weight,omitempty"`
	NoHeuristic      bool    `json:"no_heuristic,omitempty"`

	Simulations        int     `json:"simulations,omitempty"`
	RolloutCandidates  int     `json:"rollout_candidates,omitempty"`
	ExplorationRate    float64 `json:"exploration_rate,omitempty"`
	NoExplore          bool    `json:"no_explore,omitempty"`
	NoEarlyTermination bool    `json:"no_early_termination,omitempty"`
	Threshold          float64 `json:"threshold,omitempty"`
	MinSimulations     int     `json:"min_simulations,omitempty"`
	MaxDepth           int     `json:"max_depth,omitempty"`
	Threads            int     `json:"threads,omitempty"`

	// HybridCandidates is how many of the best positional moves the
	// hybrid policy re-scores with rollouts.
	HybridCandidates int `json:"hybrid_candidates,omitempty"`

	CacheSize int  `json:"cache_size,omitempty"`
	NoCache   bool `json:"no_cache,omitempty"`

	NoThreat     bool `json:"no_threat,omitempty"`
	NoRollout    bool `json:"no_rollout,omitempty"`
	NoPositional bool `json:"no_positional,omitempty"`

	Seed  int64 `json:"seed,omitempty"`
	Debug int   `json:"debug,omitempty"`
}

func (c *Config) withDefaults() {
	if c.Rows == 0 {
		c.Rows = DefaultSize
	}
	if c.Cols == 0 {
		c.Cols = DefaultSize
	}
	if c.HybridCandidates == 0 {
		c.HybridCandidates = defaultHybridCandidates
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaultCacheSize
	}
}

// Validate checks the settings the controller itself depends on.
// Evaluator settings are checked when the evaluators are built; an
// evaluator with bad settings is left out rather than failing the
// whole configuration.
func (c Config) Validate() error {
	c.withDefaults()
	if c.Rows < MinSize || c.Rows > MaxSize || c.Cols < MinSize || c.Cols > MaxSize {
		return fmt.Errorf("%w: board %dx%d (want %d..%d)",
			ErrInvalidInput, c.Rows, c.Cols, MinSize, MaxSize)
	}
	if !c.Policy.Valid() {
		return fmt.Errorf("%w: policy %v", ErrInvalidInput, c.Policy)
	}
	if c.HybridCandidates < 0 || c.CacheSize < 0 {
		return fmt.Errorf("%w: hybrid_candidates=%d cache_size=%d",
			ErrInvalidInput, c.HybridCandidates, c.CacheSize)
	}
	return nil
}

// WeightsOrDefault returns a copy of the positional weights in effect.
func (c Config) WeightsOrDefault() ai.Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return ai.DefaultWeights
}

func validWeights(w *ai.Weights) error {
	switch {
	case w.Win < 0 || w.Block < 0:
		return fmt.Errorf("negative bonus: win=%v block=%v", w.Win, w.Block)
	case w.Strength < 0 || w.Strength > 1:
		return fmt.Errorf("strength %v outside [0,1]", w.Strength)
	case w.Noise < 0:
		return fmt.Errorf("negative noise %v", w.Noise)
	}
	return nil
}

// LoadConfig decodes a JSON configuration. Weights present in the
// input are laid over ai.DefaultWeights.
func LoadConfig(r io.Reader) (Config, error) {
	w := ai.DefaultWeights
	cfg := Config{Weights: &w}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
