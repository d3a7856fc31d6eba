// Package engine chooses moves by combining the threat, rollout and
// positional evaluators under a configurable policy.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/ai/rollout"
	"github.com/nelhage/hexai/bitboard"
	"github.com/nelhage/hexai/hex"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoLegalMoves = errors.New("no legal moves")
	ErrCancelled    = errors.New("decision cancelled")
)

// Source records which step of a policy produced a decision.
type Source int

const (
	SourceNone Source = iota
	SourceCache
	SourceOnlyMove
	SourceThreat
	SourceRollout
	SourcePositional
	SourceRandom
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceOnlyMove:
		return "only-move"
	case SourceThreat:
		return "threat"
	case SourceRollout:
		return "rollout"
	case SourcePositional:
		return "positional"
	case SourceRandom:
		return "random"
	case SourceFallback:
		return "fallback"
	}
	return "none"
}

type Decision struct {
	Move   hex.Move
	Source Source

	// Threat is set when Source is SourceThreat.
	Threat ai.ThreatKind
	// Score is the threat or positional score behind the move.
	Score float64
	// Rollout is set when Source is SourceRollout.
	Rollout rollout.Result

	Elapsed time.Duration
}

// Outcome is the result delivered by Go.
type Outcome struct {
	Decision
	Err error
}

type Option func(*Controller)

// WithChecker replaces the connectivity checker used by every
// evaluator.
func WithChecker(c hex.Checker) Option {
	return func(ctl *Controller) { ctl.checker = c }
}

// WithBoard makes b the authoritative board. Its dimensions must
// match the configuration.
func WithBoard(b *hex.Board) Option {
	return func(ctl *Controller) { ctl.board = b }
}

type stats struct {
	decisions int64
	elapsed   time.Duration
	fallbacks int64
	cached    int64
}

// Controller owns the authoritative board and the evaluators that
// pick moves on it.
type Controller struct {
	mu sync.Mutex

	cfg     Config
	checker hex.Checker
	board   *hex.Board
	rand    *rand.Rand

	threat     *ai.ThreatDetector
	rollout    *rollout.Evaluator
	positional *ai.PositionalEvaluator

	cache *MoveCache
	st    stats
}

var _ ai.Player = &Controller{}

func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.withDefaults()
	c := &Controller{cfg: cfg}
	for _, o := range opts {
		o(c)
	}
	if c.checker == nil {
		c.checker = hex.DFS{}
	}
	if c.board == nil {
		c.board = hex.New(hex.Config{Rows: cfg.Rows, Cols: cfg.Cols})
	} else if c.board.Rows() != cfg.Rows || c.board.Cols() != cfg.Cols {
		return nil, fmt.Errorf("%w: board is %dx%d, config wants %dx%d", ErrInvalidInput,
			c.board.Rows(), c.board.Cols(), cfg.Rows, cfg.Cols)
	}
	c.build()
	return c, nil
}

func (c *Controller) build() {
	if c.cfg.Seed == 0 {
		c.cfg.Seed = time.Now().UnixNano()
	}
	c.rand = rand.New(rand.NewSource(c.cfg.Seed))
	c.cache = NewMoveCache(c.cfg.CacheSize)

	c.threat = nil
	if !c.cfg.NoThreat {
		c.threat = ai.NewThreatDetector(c.threatConfig())
	}

	c.positional = nil
	if !c.cfg.NoPositional {
		w := c.cfg.WeightsOrDefault()
		if err := validWeights(&w); err != nil {
			log.Printf("[engine] positional evaluator unavailable: %v", err)
		} else {
			c.positional = ai.NewPositional(ai.PositionalConfig{
				Weights: &w,
				Seed:    c.cfg.Seed,
				Checker: c.checker,
				Debug:   c.cfg.Debug,
			})
		}
	}

	c.rollout = nil
	if !c.cfg.NoRollout {
		ro, err := rollout.New(rollout.Config{
			Simulations:        c.cfg.Simulations,
			MaxCandidates:      c.cfg.RolloutCandidates,
			ExplorationRate:    c.cfg.ExplorationRate,
			NoExplore:          c.cfg.NoExplore,
			NoEarlyTermination: c.cfg.NoEarlyTermination,
			Threshold:          c.cfg.Threshold,
			MinSimulations:     c.cfg.MinSimulations,
			MaxDepth:           c.cfg.MaxDepth,
			Threads:            c.cfg.Threads,
			Seed:               c.cfg.Seed,
			Debug:              c.cfg.Debug,
		})
		if err != nil {
			log.Printf("[engine] rollout evaluator unavailable: %v", err)
		} else {
			c.rollout = ro
		}
	}
}

func (c *Controller) threatConfig() ai.ThreatConfig {
	return ai.ThreatConfig{
		MaxCandidates:    c.cfg.ThreatCandidates,
		TwoStepWeight:    c.cfg.TwoStepWeight,
		ConnectionWeight: c.cfg.ConnectionWeight,
		BridgeWeight:     c.cfg.BridgeWeight,
		NoHeuristic:      c.cfg.NoHeuristic,
		Checker:          c.checker,
		Debug:            c.cfg.Debug,
	}
}

func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Controller) Policy() Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Policy
}

// Board returns a copy of the authoritative board.
func (c *Controller) Board() *hex.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Clone()
}

// GetBestMove picks a move for side on b. b is never modified. The
// error is ErrInvalidInput, ErrNoLegalMoves or ErrCancelled; any other
// failure while scoring is logged and answered with the empty cell
// closest to the center.
func (c *Controller) GetBestMove(ctx context.Context, b *hex.Board, side hex.Side) (Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decide(ctx, b, side)
}

func (c *Controller) check(ctx context.Context, b *hex.Board, side hex.Side) error {
	if b == nil {
		return fmt.Errorf("%w: nil board", ErrInvalidInput)
	}
	if b.Rows() != c.cfg.Rows || b.Cols() != c.cfg.Cols {
		return fmt.Errorf("%w: board is %dx%d, want %dx%d",
			ErrInvalidInput, b.Rows(), b.Cols(), c.cfg.Rows, c.cfg.Cols)
	}
	if !side.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, hex.ErrNoSide)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}

func (c *Controller) decide(ctx context.Context, b *hex.Board, side hex.Side) (Decision, error) {
	start := time.Now()
	if err := c.check(ctx, b, side); err != nil {
		return Decision{}, err
	}

	h := b.Hash()
	if !c.cfg.NoCache {
		if m, ok := c.cache.Get(h, side); ok && b.Empty(m.Pos) {
			d := Decision{Move: hex.NewMove(m.Pos, side), Source: SourceCache}
			c.st.cached++
			c.record(&d, start)
			return d, nil
		}
	}

	moves := b.EmptyCells()
	var d Decision
	switch len(moves) {
	case 0:
		return Decision{}, ErrNoLegalMoves
	case 1:
		d = Decision{Move: hex.NewMove(moves[0], side), Source: SourceOnlyMove}
	default:
		d = c.dispatch(ctx, b, side, moves)
	}

	if !c.cfg.NoCache && ctx.Err() == nil {
		c.cache.Put(h, side, d.Move)
	}
	c.record(&d, start)
	return d, nil
}

func (c *Controller) record(d *Decision, start time.Time) {
	d.Elapsed = time.Since(start)
	c.st.decisions++
	c.st.elapsed += d.Elapsed
	if c.cfg.Debug > 0 {
		extra := ""
		switch d.Source {
		case SourceThreat:
			extra = fmt.Sprintf(" threat=%s", d.Threat)
		case SourceRollout:
			extra = fmt.Sprintf(" rate=%.3f n=%d", d.Rollout.WinRate, d.Rollout.Simulations)
		case SourcePositional:
			extra = fmt.Sprintf(" score=%.2f", d.Score)
		}
		log.Printf("[engine] decision policy=%s move=%s source=%s%s elapsed=%s",
			c.cfg.Policy, d.Move, d.Source, extra, d.Elapsed)
	}
}

// dispatch runs the policy chain. It never fails: errors and panics
// turn into the center fallback.
func (c *Controller) dispatch(ctx context.Context, b *hex.Board, side hex.Side, moves []hex.Pos) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engine] recovered from panic policy=%s: %v", c.cfg.Policy, r)
			d = c.fallback(b, side)
		}
	}()

	var err error
	switch c.cfg.Policy {
	case ThreatFocused:
		d, err = c.threatFocused(ctx, b, side, moves)
	case RolloutFocused:
		d, err = c.rolloutFocused(ctx, b, side, moves)
	case PositionalOnly:
		d, err = c.positionalMove(b, side, moves)
	default:
		d, err = c.hybrid(ctx, b, side, moves)
	}
	if err != nil {
		log.Printf("[engine] policy=%s failed: %v", c.cfg.Policy, err)
		return c.fallback(b, side)
	}
	if !b.Empty(d.Move.Pos) {
		log.Printf("[engine] policy=%s chose illegal move %s", c.cfg.Policy, d.Move)
		return c.fallback(b, side)
	}
	return d
}

// detector returns a threat detector whose frontier describes b. The
// controller's own detector tracks the authoritative board; any other
// snapshot gets a fresh one.
func (c *Controller) detector(b *hex.Board) *ai.ThreatDetector {
	if c.threat == nil {
		return nil
	}
	if b == c.board || b.Equal(c.board) {
		return c.threat
	}
	t := ai.NewThreatDetector(c.threatConfig())
	t.Rebuild(b)
	return t
}

func (c *Controller) forced(b *hex.Board, side hex.Side, heuristic bool) (Decision, bool) {
	t := c.detector(b)
	if t == nil {
		return Decision{}, false
	}
	var th ai.Threat
	var ok bool
	if heuristic {
		th, ok = t.FindForcedMove(b, side)
	} else if p, win := t.WinningMove(b, side); win {
		th, ok = ai.Threat{Pos: p, Kind: ai.ThreatWin}, true
	} else if p, block := t.BlockingMove(b, side); block {
		th, ok = ai.Threat{Pos: p, Kind: ai.ThreatBlock}, true
	}
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Move:   hex.NewMove(th.Pos, side),
		Source: SourceThreat,
		Threat: th.Kind,
		Score:  th.Score,
	}, true
}

func (c *Controller) threatFocused(ctx context.Context, b *hex.Board, side hex.Side, moves []hex.Pos) (Decision, error) {
	if d, ok := c.forced(b, side, true); ok {
		return d, nil
	}
	return c.positionalMove(b, side, moves)
}

func (c *Controller) rolloutFocused(ctx context.Context, b *hex.Board, side hex.Side, moves []hex.Pos) (Decision, error) {
	if c.rollout != nil {
		best, ok, err := c.rollout.BestMove(ctx, b, side, moves)
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return Decision{
				Move:    hex.NewMove(best.Pos, side),
				Source:  SourceRollout,
				Score:   best.WinRate,
				Rollout: best.Result,
			}, nil
		}
	}
	return c.positionalMove(b, side, moves)
}

// positionalMove is the last step of every chain. Without a positional
// evaluator it picks uniformly at random.
func (c *Controller) positionalMove(b *hex.Board, side hex.Side, moves []hex.Pos) (Decision, error) {
	if c.positional != nil {
		if cand, ok := c.positional.BestMove(b, side, moves); ok {
			return Decision{
				Move:   hex.NewMove(cand.Pos, side),
				Source: SourcePositional,
				Score:  cand.Score,
			}, nil
		}
	}
	if len(moves) == 0 {
		return Decision{}, ErrNoLegalMoves
	}
	return Decision{
		Move:   hex.NewMove(moves[c.rand.Intn(len(moves))], side),
		Source: SourceRandom,
	}, nil
}

func (c *Controller) hybrid(ctx context.Context, b *hex.Board, side hex.Side, moves []hex.Pos) (Decision, error) {
	if d, ok := c.forced(b, side, false); ok {
		return d, nil
	}
	if c.positional == nil {
		return c.rolloutFocused(ctx, b, side, moves)
	}

	ranked := c.positional.Rank(b, side, moves)
	if len(ranked) == 0 {
		return Decision{}, ErrNoLegalMoves
	}
	k := c.cfg.HybridCandidates
	if c.rollout == nil || k <= 1 || ranked[0].Score >= c.positional.Weights().Block || ctx.Err() != nil {
		return c.positionalMove(b, side, moves)
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	top := make([]hex.Pos, k)
	for i := range top {
		top[i] = ranked[i].Pos
	}
	scored, err := c.rollout.EvaluateAll(ctx, b, side, top)
	if err != nil {
		return Decision{}, err
	}
	found := false
	var best rollout.Scored
	for _, s := range scored {
		if s.Simulations == 0 {
			continue
		}
		if !found || s.WinRate > best.WinRate {
			best, found = s, true
		}
	}
	if !found {
		return c.positionalMove(b, side, moves)
	}
	if c.cfg.Debug > 1 {
		log.Printf("[engine] hybrid candidates=%d best=%v rate=%.3f", k, best.Pos, best.WinRate)
	}
	return Decision{
		Move:    hex.NewMove(best.Pos, side),
		Source:  SourceRollout,
		Score:   best.WinRate,
		Rollout: best.Result,
	}, nil
}

// fallback is the empty cell nearest the board center.
func (c *Controller) fallback(b *hex.Board, side hex.Side) Decision {
	c.st.fallbacks++
	p, _ := ai.CenterMove(b)
	return Decision{Move: hex.NewMove(p, side), Source: SourceFallback}
}

// Go runs GetBestMove in the background on a copy of b.
func (c *Controller) Go(ctx context.Context, b *hex.Board, side hex.Side) <-chan Outcome {
	out := make(chan Outcome, 1)
	var snap *hex.Board
	if b != nil {
		snap = b.Clone()
	}
	go func() {
		d, err := c.GetBestMove(ctx, snap, side)
		out <- Outcome{Decision: d, Err: err}
		close(out)
	}()
	return out
}

// GetMove implements ai.Player.
func (c *Controller) GetMove(ctx context.Context, b *hex.Board, side hex.Side) (hex.Move, error) {
	d, err := c.GetBestMove(ctx, b, side)
	if err != nil {
		return hex.Move{}, err
	}
	return d.Move, nil
}

// ApplyMove plays m on the authoritative board and updates the threat
// detector's frontiers.
func (c *Controller) ApplyMove(m hex.Move) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.board.Place(m); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, m, err)
	}
	if c.threat != nil {
		c.threat.Update(c.board, m)
	}
	return nil
}

// Sync brings the authoritative board up to b by applying the stones
// b has and the board lacks. If b is missing a stone the board has, or
// has different dimensions, the game is restarted from b. Each side's
// last move is applied after its other new stones, and the side to
// move's opponent goes last, so the frontier sees the same final reply
// as b records.
func (c *Controller) Sync(b *hex.Board, toMove hex.Side) error {
	c.mu.Lock()
	if b == nil || b.Rows() != c.cfg.Rows || b.Cols() != c.cfg.Cols {
		c.mu.Unlock()
		return fmt.Errorf("%w: sync board", ErrInvalidInput)
	}
	restart := false
	for _, s := range []hex.Side{hex.SideA, hex.SideB} {
		if !bitboard.AndNot(c.board.Owned(s), b.Owned(s)).Empty() {
			restart = true
		}
	}
	c.mu.Unlock()
	if restart {
		c.Reset()
	}

	c.mu.Lock()
	if c.threat != nil && !c.threat.Ready() {
		c.threat.Rebuild(c.board)
	}
	var pending [2][]hex.Move
	var last [2]*hex.Move
	for i, s := range []hex.Side{hex.SideA, hex.SideB} {
		lm, ok := b.LastMove(s)
		bitboard.AndNot(b.Owned(s), c.board.Owned(s)).Each(func(idx uint) {
			p := b.PosAt(idx)
			if ok && lm.Pos == p {
				m := hex.NewMove(p, s)
				last[i] = &m
				return
			}
			pending[i] = append(pending[i], hex.NewMove(p, s))
		})
		if last[i] != nil {
			pending[i] = append(pending[i], *last[i])
		}
	}
	c.mu.Unlock()

	order := []int{0, 1}
	if toMove == hex.SideB {
		// A's stones last
		order = []int{1, 0}
	}
	for _, i := range order {
		for _, m := range pending[i] {
			if err := c.ApplyMove(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// Tracking is an ai.Player for callers that only hand over board
// snapshots. Each request is synced onto the controller's board first,
// so the threat frontier is maintained incrementally.
type Tracking struct {
	*Controller
}

func (t Tracking) Decide(ctx context.Context, b *hex.Board, side hex.Side) (Decision, error) {
	if err := t.Sync(b, side); err != nil {
		return Decision{}, err
	}
	return t.GetBestMove(ctx, t.Board(), side)
}

func (t Tracking) GetMove(ctx context.Context, b *hex.Board, side hex.Side) (hex.Move, error) {
	d, err := t.Decide(ctx, b, side)
	if err != nil {
		return hex.Move{}, err
	}
	return d.Move, nil
}

// Reset clears the board, frontiers, cache and statistics.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.board.Reset()
	if c.threat != nil {
		c.threat.Reset()
	}
	if c.rollout != nil {
		c.rollout.ResetStats()
	}
	c.cache.Clear()
	c.st = stats{}
}

// UpdateConfig swaps in cfg, rebuilding the evaluators and clearing
// the cache. A change of dimensions starts a new, empty board.
func (c *Controller) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.withDefaults()
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.board
	c.cfg = cfg
	if old.Rows() != cfg.Rows || old.Cols() != cfg.Cols {
		c.board = hex.New(hex.Config{Rows: cfg.Rows, Cols: cfg.Cols})
	}
	c.build()
	if c.threat != nil && c.board.Ply() > 0 {
		c.threat.Rebuild(c.board)
	}
	return nil
}

// SetPolicy switches policy. Changing policy clears the cache.
func (c *Controller) SetPolicy(p Policy) error {
	if !p.Valid() {
		return fmt.Errorf("%w: policy %v", ErrInvalidInput, p)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p != c.cfg.Policy {
		c.cfg.Policy = p
		c.cache.Clear()
	}
	return nil
}

// FrontierStats describes the threat detector's frontiers.
func (c *Controller) FrontierStats() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.threat == nil {
		return "frontier: threat detector disabled"
	}
	return c.threat.String()
}
