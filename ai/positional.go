package ai

import (
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/nelhage/hexai/hex"
)

// OffsetScore rewards the cell at Offset from the opponent's last move.
type OffsetScore struct {
	Offset hex.Pos
	Score  float64
}

type Weights struct {
	Win   float64
	Block float64

	LastMove float64

	Noise      float64
	Strength   float64
	Randomness bool

	Offsets []OffsetScore
}

// DefaultOffsets is the eighteen-entry table over two rings around the
// opponent's last move.
var DefaultOffsets = []OffsetScore{
	{hex.Pos{Row: 0, Col: 1}, 10},
	{hex.Pos{Row: 0, Col: -1}, 10},
	{hex.Pos{Row: -1, Col: 1}, 10},
	{hex.Pos{Row: 1, Col: -1}, 10},
	{hex.Pos{Row: -2, Col: 1}, 10},
	{hex.Pos{Row: 1, Col: 1}, 10},
	{hex.Pos{Row: -1, Col: -1}, 10},
	{hex.Pos{Row: 2, Col: -1}, 10},
	{hex.Pos{Row: -1, Col: 2}, 10},
	{hex.Pos{Row: 2, Col: -2}, 10},

	{hex.Pos{Row: -1, Col: 0}, 8},
	{hex.Pos{Row: 1, Col: 0}, 8},

	{hex.Pos{Row: -2, Col: 0}, 5},
	{hex.Pos{Row: 2, Col: 0}, 5},
	{hex.Pos{Row: 0, Col: -2}, 5},
	{hex.Pos{Row: -1, Col: -2}, 5},
	{hex.Pos{Row: 1, Col: -2}, 5},
	{hex.Pos{Row: 1, Col: 2}, 5},
}

var DefaultWeights = Weights{
	Win:   10000,
	Block: 9000,

	LastMove: 1.0,

	Noise:      0.1,
	Strength:   1.0,
	Randomness: true,

	Offsets: DefaultOffsets,
}

type PositionalConfig struct {
	// Weights defaults to DefaultWeights.
	Weights *Weights
	Seed    int64
	Checker hex.Checker
	Debug   int
}

type PositionalEvaluator struct {
	cfg PositionalConfig
	w   Weights
	r   *rand.Rand

	scratch *hex.Board
}

func NewPositional(cfg PositionalConfig) *PositionalEvaluator {
	pe := &PositionalEvaluator{cfg: cfg}
	if cfg.Weights != nil {
		pe.w = *cfg.Weights
	} else {
		pe.w = DefaultWeights
	}
	if pe.w.Win == 0 {
		pe.w.Win = DefaultWeights.Win
	}
	if pe.w.Block == 0 {
		pe.w.Block = DefaultWeights.Block
	}
	if pe.w.Block >= pe.w.Win {
		pe.w.Block = pe.w.Win * 0.9
	}
	if pe.w.Offsets == nil {
		pe.w.Offsets = DefaultOffsets
	}
	if pe.cfg.Checker == nil {
		pe.cfg.Checker = hex.DFS{}
	}
	if pe.cfg.Seed == 0 {
		pe.cfg.Seed = time.Now().UnixNano()
	}
	pe.r = rand.New(rand.NewSource(pe.cfg.Seed))
	return pe
}

func (pe *PositionalEvaluator) Weights() Weights {
	return pe.w
}

// Score is the breakdown of a positional evaluation.
type Score struct {
	Threat   float64
	LastMove float64
	Noise    float64
	Total    float64
}

// Evaluate scores side playing at p, which must be an empty cell.
func (pe *PositionalEvaluator) Evaluate(b *hex.Board, side hex.Side, p hex.Pos) float64 {
	return pe.Score(b, side, p).Total
}

func (pe *PositionalEvaluator) Score(b *hex.Board, side hex.Side, p hex.Pos) Score {
	if !b.Empty(p) {
		return Score{}
	}
	var sc Score
	sc.Threat = pe.threat(b, side, p)
	if sc.Threat >= pe.w.Block {
		sc.Total = sc.Threat
		return sc
	}
	sc.LastMove = pe.lastMove(b, side, p) * pe.w.LastMove
	if pe.w.Randomness && pe.w.Noise > 0 && pe.w.Strength < 1 {
		sc.Noise = (pe.r.Float64()*2 - 1) * pe.w.Noise * (1 - pe.w.Strength)
	}
	sc.Total = sc.Threat + sc.LastMove + sc.Noise
	return sc
}

func (pe *PositionalEvaluator) threat(b *hex.Board, side hex.Side, p hex.Pos) float64 {
	pe.scratch = b.CloneInto(pe.scratch)
	pe.scratch.Set(p, side)
	if pe.cfg.Checker.Evaluate(pe.scratch, side).Won {
		return pe.w.Win
	}
	opp := side.Flip()
	pe.scratch = b.CloneInto(pe.scratch)
	pe.scratch.Set(p, opp)
	if pe.cfg.Checker.Evaluate(pe.scratch, opp).Won {
		return pe.w.Block
	}
	return 0
}

func (pe *PositionalEvaluator) lastMove(b *hex.Board, side hex.Side, p hex.Pos) float64 {
	last, ok := b.LastMove(side.Flip())
	if !ok {
		return 0
	}
	var sum float64
	for _, o := range pe.w.Offsets {
		target := last.Pos.Add(o.Offset)
		if target == p && b.Empty(target) {
			sum += o.Score
		}
	}
	return sum
}

type Candidate struct {
	Pos   hex.Pos
	Score float64
}

// Rank scores moves (all empty cells if moves is nil) and sorts them
// best first. Equal scores keep their input order.
func (pe *PositionalEvaluator) Rank(b *hex.Board, side hex.Side, moves []hex.Pos) []Candidate {
	if moves == nil {
		moves = b.EmptyCells()
	}
	out := make([]Candidate, 0, len(moves))
	for _, p := range moves {
		if !b.Empty(p) {
			continue
		}
		out = append(out, Candidate{Pos: p, Score: pe.Evaluate(b, side, p)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// PoolSize is how many of the top n candidates a move is drawn from.
func (pe *PositionalEvaluator) PoolSize(n int) int {
	if n == 0 {
		return 0
	}
	if !pe.w.Randomness || pe.w.Strength >= 1 {
		return 1
	}
	k := int(math.Round(float64(n)*(1-pe.w.Strength) + 1))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// BestMove picks among the highest-scoring moves, widening the choice
// as Strength falls. Forced moves are never randomized away.
func (pe *PositionalEvaluator) BestMove(b *hex.Board, side hex.Side, moves []hex.Pos) (Candidate, bool) {
	ranked := pe.Rank(b, side, moves)
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	if ranked[0].Score >= pe.w.Block {
		return ranked[0], true
	}
	pool := pe.PoolSize(len(ranked))
	pick := ranked[pe.r.Intn(pool)]
	if pe.cfg.Debug > 1 {
		log.Printf("[positional] side=%s candidates=%d pool=%d best=%v(%.2f) pick=%v(%.2f)",
			side, len(ranked), pool, ranked[0].Pos, ranked[0].Score, pick.Pos, pick.Score)
	}
	return pick, true
}
