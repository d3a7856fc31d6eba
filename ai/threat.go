package ai

import (
	"log"

	"github.com/nelhage/hexai/bitboard"
	"github.com/nelhage/hexai/hex"
)

type ThreatKind int

const (
	NoThreat ThreatKind = iota
	ThreatWin
	ThreatBlock
	ThreatHeuristic
)

func (k ThreatKind) String() string {
	switch k {
	case ThreatWin:
		return "win"
	case ThreatBlock:
		return "block"
	case ThreatHeuristic:
		return "heuristic"
	}
	return "none"
}

type Threat struct {
	Pos   hex.Pos
	Kind  ThreatKind
	Score float64
}

type ThreatConfig struct {
	// MaxCandidates bounds the scan: the side's whole frontier is
	// always checked, and remaining empty cells are added in
	// row-major order until MaxCandidates is reached.
	MaxCandidates    int
	TwoStepWeight    float64
	ConnectionWeight float64
	BridgeWeight     float64
	NoHeuristic      bool

	Checker hex.Checker
	Debug   int
}

const (
	defaultThreatCandidates = 20
	defaultTwoStepWeight    = 500
	defaultConnectionWeight = 100
	defaultBridgeWeight     = 300
)

// ThreatDetector finds one-move wins and the cells that stop the
// opponent's one-move wins.
type ThreatDetector struct {
	cfg      ThreatConfig
	frontier Frontier
	scratch  *hex.Board
}

func NewThreatDetector(cfg ThreatConfig) *ThreatDetector {
	t := &ThreatDetector{cfg: cfg}
	if t.cfg.MaxCandidates == 0 {
		t.cfg.MaxCandidates = defaultThreatCandidates
	}
	if t.cfg.TwoStepWeight == 0 {
		t.cfg.TwoStepWeight = defaultTwoStepWeight
	}
	if t.cfg.ConnectionWeight == 0 {
		t.cfg.ConnectionWeight = defaultConnectionWeight
	}
	if t.cfg.BridgeWeight == 0 {
		t.cfg.BridgeWeight = defaultBridgeWeight
	}
	if t.cfg.Checker == nil {
		t.cfg.Checker = hex.DFS{}
	}
	return t
}

func (t *ThreatDetector) Config() ThreatConfig {
	return t.cfg
}

func (t *ThreatDetector) Frontier() *Frontier {
	return &t.frontier
}

func (t *ThreatDetector) Ready() bool {
	return t.frontier.Ready()
}

// Rebuild rescans b from scratch.
func (t *ThreatDetector) Rebuild(b *hex.Board) {
	t.frontier.Rebuild(b)
}

// Update records m, which must already be on b. It must be called
// exactly once per placed stone, for both sides.
func (t *ThreatDetector) Update(b *hex.Board, m hex.Move) {
	t.frontier.Update(b, m)
}

func (t *ThreatDetector) Reset() {
	t.frontier.Reset()
	t.scratch = nil
}

func (t *ThreatDetector) ensure(b *hex.Board) {
	if !t.frontier.Matches(b) {
		t.frontier.Rebuild(b)
	}
}

func (t *ThreatDetector) candidates(b *hex.Board, side hex.Side) []hex.Pos {
	empty := b.EmptySet()
	near := bitboard.And(t.frontier.Of(side), empty)
	out := make([]hex.Pos, 0, t.cfg.MaxCandidates)
	near.Each(func(i uint) {
		out = append(out, b.PosAt(i))
	})
	if len(out) < t.cfg.MaxCandidates {
		bitboard.AndNot(empty, near).Each(func(i uint) {
			if len(out) < t.cfg.MaxCandidates {
				out = append(out, b.PosAt(i))
			}
		})
	}
	return out
}

func (t *ThreatDetector) wins(b *hex.Board, side hex.Side, p hex.Pos) bool {
	t.scratch = b.CloneInto(t.scratch)
	if t.scratch.Set(p, side) != nil {
		return false
	}
	return t.cfg.Checker.Evaluate(t.scratch, side).Won
}

// WinningMove returns a cell that wins immediately for side.
func (t *ThreatDetector) WinningMove(b *hex.Board, side hex.Side) (hex.Pos, bool) {
	t.ensure(b)
	for _, p := range t.candidates(b, side) {
		if t.wins(b, side, p) {
			if t.cfg.Debug > 1 {
				log.Printf("[threat] win side=%s at=%v", side, p)
			}
			return p, true
		}
	}
	return hex.Pos{}, false
}

// BlockingMove returns a cell where the opponent of side would win
// immediately.
func (t *ThreatDetector) BlockingMove(b *hex.Board, side hex.Side) (hex.Pos, bool) {
	t.ensure(b)
	opp := side.Flip()
	for _, p := range t.candidates(b, opp) {
		if t.wins(b, opp, p) {
			if t.cfg.Debug > 1 {
				log.Printf("[threat] block side=%s at=%v", side, p)
			}
			return p, true
		}
	}
	return hex.Pos{}, false
}

// FindForcedMove returns a winning cell, else a blocking cell, else
// (unless NoHeuristic) the best frontier cell by look-ahead.
func (t *ThreatDetector) FindForcedMove(b *hex.Board, side hex.Side) (Threat, bool) {
	if p, ok := t.WinningMove(b, side); ok {
		return Threat{Pos: p, Kind: ThreatWin}, true
	}
	if p, ok := t.BlockingMove(b, side); ok {
		return Threat{Pos: p, Kind: ThreatBlock}, true
	}
	if t.cfg.NoHeuristic {
		return Threat{}, false
	}
	return t.heuristic(b, side)
}

func (t *ThreatDetector) heuristic(b *hex.Board, side hex.Side) (Threat, bool) {
	cells := bitboard.Or(t.frontier.Of(hex.SideA), t.frontier.Of(hex.SideB))
	cells.AndWith(b.EmptySet())
	if cells.Empty() {
		return Threat{}, false
	}
	bonus := t.bridgeBonus(b, side)
	var best Threat
	found := false
	cells.Each(func(i uint) {
		p := b.PosAt(i)
		score := t.cfg.ConnectionWeight*float64(Adjacent(b, side, p)) +
			t.cfg.TwoStepWeight*float64(t.followups(b, side, p)) +
			bonus[p]
		if !found || score > best.Score {
			best = Threat{Pos: p, Kind: ThreatHeuristic, Score: score}
			found = true
		}
	})
	if t.cfg.Debug > 2 {
		log.Printf("[threat] heuristic side=%s at=%v score=%.1f", side, best.Pos, best.Score)
	}
	return best, found
}

// followups counts the one-move wins side would have after playing p,
// searched over side's resulting frontier.
func (t *ThreatDetector) followups(b *hex.Board, side hex.Side, p hex.Pos) int {
	after := b.Clone()
	if after.Set(p, side) != nil {
		return 0
	}
	c := after.Constants()
	at := c.New()
	at.Add(after.Index(p))
	near := bitboard.Or(t.frontier.Of(side), bitboard.Grow(c, c.Mask, at))
	near.AndWith(after.EmptySet())

	n, checked := 0, 0
	near.Each(func(i uint) {
		if checked >= t.cfg.MaxCandidates {
			return
		}
		checked++
		if t.wins(after, side, after.PosAt(i)) {
			n++
		}
	})
	return n
}

// bridges lists the two-bridge offsets and the two cells each bridge
// relies on, relative to the first stone.
var bridges = [6]struct{ d, c1, c2 hex.Pos }{
	{hex.Pos{Row: 1, Col: 1}, hex.Pos{Row: 0, Col: 1}, hex.Pos{Row: 1, Col: 0}},
	{hex.Pos{Row: -1, Col: -1}, hex.Pos{Row: -1, Col: 0}, hex.Pos{Row: 0, Col: -1}},
	{hex.Pos{Row: -1, Col: 2}, hex.Pos{Row: 0, Col: 1}, hex.Pos{Row: -1, Col: 1}},
	{hex.Pos{Row: 2, Col: -1}, hex.Pos{Row: 1, Col: -1}, hex.Pos{Row: 1, Col: 0}},
	{hex.Pos{Row: 1, Col: -2}, hex.Pos{Row: 0, Col: -1}, hex.Pos{Row: 1, Col: -1}},
	{hex.Pos{Row: -2, Col: 1}, hex.Pos{Row: -1, Col: 0}, hex.Pos{Row: -1, Col: 1}},
}

// bridgeBonus scores the empty carrier cells of any bridge the
// opponent's last stone forms with another opponent stone.
func (t *ThreatDetector) bridgeBonus(b *hex.Board, side hex.Side) map[hex.Pos]float64 {
	opp := side.Flip()
	last, ok := b.LastMove(opp)
	if !ok {
		return nil
	}
	bonus := make(map[hex.Pos]float64)
	for _, br := range bridges {
		q := last.Pos.Add(br.d)
		if !b.InBounds(q) || b.At(q) != opp {
			continue
		}
		for _, c := range []hex.Pos{last.Pos.Add(br.c1), last.Pos.Add(br.c2)} {
			if b.Empty(c) {
				bonus[c] += t.cfg.BridgeWeight
			}
		}
	}
	return bonus
}

func (t *ThreatDetector) String() string {
	return t.frontier.String()
}
