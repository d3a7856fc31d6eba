package opt

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/nelhage/hexai/engine"
)

// Engine holds the command-line settings for an in-process engine.
type Engine struct {
	Config  string
	Policy  string
	Seed    int64
	Debug   int
	Weights string

	Simulations int
	Candidates  int
	Threads     int
	Strength    float64
	CacheSize   int

	NoCache   bool
	NoThreat  bool
	NoRollout bool
	Explore   bool
}

func (o *Engine) AddFlags(flags *flag.FlagSet) {
	flags.StringVar(&o.Config, "config", "", "JSON engine configuration file; flags override it")
	flags.StringVar(&o.Policy, "policy", "", "decision policy: hybrid, threat, rollout or positional")
	flags.Int64Var(&o.Seed, "seed", 0, "specify a seed")
	flags.IntVar(&o.Debug, "debug", 0, "debug level")
	flags.StringVar(&o.Weights, "weights", "", "JSON-encoded positional weights")
	flags.IntVar(&o.Simulations, "simulations", 0, "rollouts per candidate")
	flags.IntVar(&o.Candidates, "candidates", 0, "positional candidates re-scored by rollouts")
	flags.IntVar(&o.Threads, "threads", 0, "rollout worker threads")
	flags.Float64Var(&o.Strength, "strength", -1, "positional strength in [0,1]")
	flags.IntVar(&o.CacheSize, "cache-size", 0, "decision cache entries")
	flags.BoolVar(&o.NoCache, "no-cache", false, "disable the decision cache")
	flags.BoolVar(&o.NoThreat, "no-threat", false, "disable the threat detector")
	flags.BoolVar(&o.NoRollout, "no-rollout", false, "disable rollouts")
	flags.BoolVar(&o.Explore, "explore", true, "randomize rollout move choice")
}

// BuildConfig merges the configuration file, if any, with the flags.
func (o *Engine) BuildConfig(rows, cols int) (engine.Config, error) {
	var cfg engine.Config
	if o.Config != "" {
		f, err := os.Open(o.Config)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		cfg, err = engine.LoadConfig(f)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", o.Config, err)
		}
	}
	cfg.Rows, cfg.Cols = rows, cols
	if o.Policy != "" {
		p, err := engine.ParsePolicy(o.Policy)
		if err != nil {
			return cfg, err
		}
		cfg.Policy = p
	}
	if o.Weights != "" || o.Strength >= 0 {
		w := cfg.WeightsOrDefault()
		if o.Weights != "" {
			if err := json.Unmarshal([]byte(o.Weights), &w); err != nil {
				return cfg, fmt.Errorf("parse weights: %w", err)
			}
		}
		if o.Strength >= 0 {
			w.Strength = o.Strength
		}
		cfg.Weights = &w
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}
	if o.Debug != 0 {
		cfg.Debug = o.Debug
	}
	if o.Simulations != 0 {
		cfg.Simulations = o.Simulations
	}
	if o.Candidates != 0 {
		cfg.HybridCandidates = o.Candidates
	}
	if o.Threads != 0 {
		cfg.Threads = o.Threads
	}
	if o.CacheSize != 0 {
		cfg.CacheSize = o.CacheSize
	}
	cfg.NoCache = cfg.NoCache || o.NoCache
	cfg.NoThreat = cfg.NoThreat || o.NoThreat
	cfg.NoRollout = cfg.NoRollout || o.NoRollout
	cfg.NoExplore = cfg.NoExplore || !o.Explore
	return cfg, cfg.Validate()
}

// Factory adapts BuildConfig for front ends that size the board
// themselves. Call BuildConfig once first to surface errors; a config
// that fails validation here is rejected again by engine.New.
func (o *Engine) Factory() func(rows, cols int) engine.Config {
	return func(rows, cols int) engine.Config {
		cfg, _ := o.BuildConfig(rows, cols)
		return cfg
	}
}

// NewPlayer builds a controller for a rows x cols game.
func (o *Engine) NewPlayer(rows, cols int) (engine.Tracking, error) {
	cfg, err := o.BuildConfig(rows, cols)
	if err != nil {
		return engine.Tracking{}, err
	}
	ctl, err := engine.New(cfg)
	if err != nil {
		return engine.Tracking{}, err
	}
	return engine.Tracking{Controller: ctl}, nil
}
