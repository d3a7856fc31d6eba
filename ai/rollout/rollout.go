package rollout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/hex"
)

var ErrInvalidConfig = errors.New("invalid rollout config")

type Config struct {
	Simulations     int
	MaxCandidates   int
	ExplorationRate float64
	NoExplore       bool

	NoEarlyTermination bool
	Threshold          float64
	// MinSimulations is raised to at least 20.
	MinSimulations int

	// MaxDepth bounds the plies of one rollout. Zero plays until the
	// board is full.
	MaxDepth int
	Threads  int
	Seed     int64
	Debug    int

	// Policy defaults to StrategicPolicy mixed with RandomPolicy at
	// ExplorationRate.
	Policy PolicyFunc
}

const (
	defaultSimulations    = 100
	defaultMaxCandidates  = 10
	defaultExploration    = 0.3
	defaultThreshold      = 0.8
	defaultMinSimulations = 20
)

type Result struct {
	WinRate     float64
	Wins        int
	Simulations int
	Elapsed     time.Duration
}

type Scored struct {
	Pos hex.Pos
	Result
}

type Stats struct {
	Evaluations int64
	Simulations int64
	Elapsed     time.Duration
}

// Evaluator estimates the strength of a move by playing out games from
// the resulting position.
type Evaluator struct {
	cfg Config

	mu    sync.Mutex
	stats Stats
}

func New(cfg Config) (*Evaluator, error) {
	e := &Evaluator{cfg: cfg}
	if e.cfg.Simulations == 0 {
		e.cfg.Simulations = defaultSimulations
	}
	if e.cfg.MaxCandidates == 0 {
		e.cfg.MaxCandidates = defaultMaxCandidates
	}
	if e.cfg.NoExplore {
		e.cfg.ExplorationRate = 0
	} else if e.cfg.ExplorationRate == 0 {
		e.cfg.ExplorationRate = defaultExploration
	}
	if e.cfg.Threshold == 0 {
		e.cfg.Threshold = defaultThreshold
	}
	if e.cfg.MinSimulations >= 0 && e.cfg.MinSimulations < defaultMinSimulations {
		e.cfg.MinSimulations = defaultMinSimulations
	}
	if e.cfg.Threads == 0 {
		e.cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if e.cfg.Seed == 0 {
		e.cfg.Seed = time.Now().UnixNano()
	}

	switch {
	case e.cfg.Simulations < 0:
		return nil, fmt.Errorf("%w: simulations=%d", ErrInvalidConfig, e.cfg.Simulations)
	case e.cfg.MaxCandidates < 0:
		return nil, fmt.Errorf("%w: max candidates=%d", ErrInvalidConfig, e.cfg.MaxCandidates)
	case e.cfg.ExplorationRate < 0 || e.cfg.ExplorationRate > 1:
		return nil, fmt.Errorf("%w: exploration=%v", ErrInvalidConfig, e.cfg.ExplorationRate)
	case e.cfg.Threshold <= 0.5 || e.cfg.Threshold > 1:
		return nil, fmt.Errorf("%w: threshold=%v", ErrInvalidConfig, e.cfg.Threshold)
	case e.cfg.MaxDepth < 0 || e.cfg.Threads < 0 || e.cfg.MinSimulations < 0:
		return nil, fmt.Errorf("%w: depth=%d threads=%d min=%d", ErrInvalidConfig,
			e.cfg.MaxDepth, e.cfg.Threads, e.cfg.MinSimulations)
	}

	if e.cfg.Policy == nil {
		e.cfg.Policy = MixedPolicy(e.cfg.ExplorationRate, RandomPolicy, StrategicPolicy)
	}
	return e, nil
}

func (e *Evaluator) Config() Config {
	return e.cfg
}

func (e *Evaluator) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Evaluator) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = Stats{}
}

// seed derives a per-candidate seed so results do not depend on which
// worker evaluates which candidate.
func (e *Evaluator) seed(b *hex.Board, p hex.Pos) int64 {
	h := b.Hash() ^ uint64(e.cfg.Seed)*0x9e3779b97f4a7c15
	h ^= uint64(b.Index(p)+1) * 0xbf58476d1ce4e5b9
	return int64(h)
}

// Evaluate returns the fraction of simulated games side wins after
// playing p. It stops early on a lopsided estimate or when ctx is done.
func (e *Evaluator) Evaluate(ctx context.Context, b *hex.Board, side hex.Side, p hex.Pos) (Result, error) {
	if !side.Valid() {
		return Result{}, hex.ErrNoSide
	}
	if !b.InBounds(p) {
		return Result{}, fmt.Errorf("%v: %w", p, hex.ErrOutOfRange)
	}
	if b.At(p) != hex.NoSide {
		return Result{}, fmt.Errorf("%v: %w", p, hex.ErrOccupied)
	}

	start := time.Now()
	ctx = WithRand(ctx, rand.New(rand.NewSource(e.seed(b, p))))
	root := b.Clone()
	root.Set(p, side)
	scratch := root.Clone()

	var res Result
	for res.Simulations < e.cfg.Simulations {
		if ctx.Err() != nil {
			break
		}
		if e.simulate(ctx, root.CloneInto(scratch), side) {
			res.Wins++
		}
		res.Simulations++
		if !e.cfg.NoEarlyTermination && res.Simulations >= e.cfg.MinSimulations {
			rate := float64(res.Wins) / float64(res.Simulations)
			if rate >= e.cfg.Threshold || rate <= 1-e.cfg.Threshold {
				break
			}
		}
	}
	if res.Simulations > 0 {
		res.WinRate = float64(res.Wins) / float64(res.Simulations)
	}
	res.Elapsed = time.Since(start)

	e.mu.Lock()
	e.stats.Evaluations++
	e.stats.Simulations += int64(res.Simulations)
	e.stats.Elapsed += res.Elapsed
	e.mu.Unlock()

	if e.cfg.Debug > 2 {
		log.Printf("[rollout] candidate=%v n=%d w=%d rate=%.3f", p, res.Simulations, res.Wins, res.WinRate)
	}
	return res, nil
}

// simulate plays b out, opponent first, and reports whether side wins.
// Games that run past MaxDepth count as losses.
func (e *Evaluator) simulate(ctx context.Context, b *hex.Board, side hex.Side) bool {
	if hex.HasWon(b, side) {
		return true
	}
	depth := e.cfg.MaxDepth
	if depth == 0 {
		depth = b.Size()
	}
	mover := side.Flip()
	for ply := 0; ply < depth; ply++ {
		p, ok := e.cfg.Policy(ctx, b, mover)
		if !ok {
			return false
		}
		if b.Set(p, mover) != nil {
			return false
		}
		if hex.HasWon(b, mover) {
			return mover == side
		}
		mover = mover.Flip()
	}
	return false
}

// Priority is the cheap pre-ranking used to prune candidates.
func Priority(b *hex.Board, side hex.Side, p hex.Pos) float64 {
	return 3*float64(ai.Adjacent(b, side, p)) +
		2*float64(ai.Adjacent(b, side.Flip(), p)) +
		2*ai.EdgeProgress(b, side, p) +
		ai.CenterBias(b, p)
}

// Candidates keeps the MaxCandidates empty cells of moves with the
// highest Priority. Equal priorities keep their input order.
func (e *Evaluator) Candidates(b *hex.Board, side hex.Side, moves []hex.Pos) []hex.Pos {
	type scored struct {
		p hex.Pos
		v float64
	}
	cells := make([]scored, 0, len(moves))
	for _, p := range moves {
		if b.Empty(p) {
			cells = append(cells, scored{p, Priority(b, side, p)})
		}
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].v > cells[j].v
	})
	if len(cells) > e.cfg.MaxCandidates {
		cells = cells[:e.cfg.MaxCandidates]
	}
	out := make([]hex.Pos, len(cells))
	for i, c := range cells {
		out[i] = c.p
	}
	return out
}

// EvaluateAll runs Evaluate for every candidate on a pool of Threads
// workers. Results are in candidate order; candidates skipped because
// ctx finished have zero Simulations.
func (e *Evaluator) EvaluateAll(ctx context.Context, b *hex.Board, side hex.Side, cands []hex.Pos) ([]Scored, error) {
	out := make([]Scored, len(cands))
	input := make(chan int)
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer close(input)
		for i := range cands {
			select {
			case input <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})
	for w := 0; w < e.cfg.Threads; w++ {
		grp.Go(func() error {
			for i := range input {
				res, err := e.Evaluate(gctx, b, side, cands[i])
				if err != nil {
					return err
				}
				out[i] = Scored{Pos: cands[i], Result: res}
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// BestMove evaluates the pruned candidates from moves (every empty
// cell if moves is nil) and returns the highest win rate, first seen
// on ties.
func (e *Evaluator) BestMove(ctx context.Context, b *hex.Board, side hex.Side, moves []hex.Pos) (Scored, bool, error) {
	if moves == nil {
		moves = b.EmptyCells()
	}
	cands := e.Candidates(b, side, moves)
	if len(cands) == 0 {
		return Scored{}, false, nil
	}
	start := time.Now()
	scored, err := e.EvaluateAll(ctx, b, side, cands)
	if err != nil {
		return Scored{}, false, err
	}
	var best Scored
	found := false
	for _, s := range scored {
		if s.Simulations == 0 {
			continue
		}
		if !found || s.WinRate > best.WinRate {
			best = s
			found = true
		}
	}
	if e.cfg.Debug > 0 && found {
		log.Printf("[rollout] evaluated candidates=%d best=%v rate=%.3f n=%d time=%s",
			len(cands), best.Pos, best.WinRate, best.Simulations, time.Since(start))
	}
	return best, found, nil
}
