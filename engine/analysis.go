package engine

import (
	"context"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/ai/rollout"
	"github.com/nelhage/hexai/hex"
)

// Analysis is everything each evaluator has to say about a position,
// plus the move the controller would make.
type Analysis struct {
	// Win and Block are set when side has a one-move win, or must stop
	// the opponent's.
	Win, Block *hex.Pos
	// Forced is the threat detector's full answer, heuristic included.
	Forced *ai.Threat

	// Ranked holds the best positional candidates, best first.
	Ranked []ai.Candidate
	// Breakdown is the positional score of each Ranked entry.
	Breakdown []ai.Score
	// Rollouts scores the Ranked candidates by simulation.
	Rollouts []rollout.Scored

	Decision Decision
}

// Analyze reports on up to n candidates of b for side. Evaluators that
// are unavailable leave their fields empty. The final decision goes
// through GetBestMove and is counted in the statistics.
func (c *Controller) Analyze(ctx context.Context, b *hex.Board, side hex.Side, n int) (Analysis, error) {
	var a Analysis
	c.mu.Lock()
	if err := c.check(ctx, b, side); err != nil {
		c.mu.Unlock()
		return a, err
	}
	if t := c.detector(b); t != nil {
		if p, ok := t.WinningMove(b, side); ok {
			a.Win = &p
		}
		if p, ok := t.BlockingMove(b, side); ok {
			a.Block = &p
		}
		if th, ok := t.FindForcedMove(b, side); ok {
			a.Forced = &th
		}
	}
	moves := b.EmptyCells()
	if c.positional != nil {
		a.Ranked = c.positional.Rank(b, side, moves)
		if len(a.Ranked) > n {
			a.Ranked = a.Ranked[:n]
		}
		for _, cand := range a.Ranked {
			a.Breakdown = append(a.Breakdown, c.positional.Score(b, side, cand.Pos))
		}
	}
	var cands []hex.Pos
	if c.rollout != nil {
		if a.Ranked != nil {
			for _, cand := range a.Ranked {
				cands = append(cands, cand.Pos)
			}
		} else {
			cands = c.rollout.Candidates(b, side, moves)
			if len(cands) > n {
				cands = cands[:n]
			}
		}
	}
	ro := c.rollout
	c.mu.Unlock()

	if ro != nil && len(cands) > 0 {
		scored, err := ro.EvaluateAll(ctx, b, side, cands)
		if err != nil {
			return a, err
		}
		a.Rollouts = scored
	}

	d, err := c.GetBestMove(ctx, b, side)
	if err != nil {
		return a, err
	}
	a.Decision = d
	return a, nil
}
