package rollout

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/hextest"
)

func TestEarlyTerminationOnWin(t *testing.T) {
	b := hextest.Board("x5/x5/1,1,1,1,x/x5/x5 1")
	e, err := New(Config{Seed: 1})
	require.NoError(t, err)

	res, err := e.Evaluate(context.Background(), b, hex.SideA, hex.Pos{Row: 2, Col: 4})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.WinRate)
	assert.Equal(t, defaultMinSimulations, res.Simulations)
	assert.Less(t, res.Simulations, e.Config().Simulations)
}

func TestNoEarlyTermination(t *testing.T) {
	b := hextest.Board("x5/x5/1,1,1,1,x/x5/x5 1")
	e, err := New(Config{Seed: 1, Simulations: 37, NoEarlyTermination: true})
	require.NoError(t, err)
	res, err := e.Evaluate(context.Background(), b, hex.SideA, hex.Pos{Row: 2, Col: 4})
	require.NoError(t, err)
	assert.Equal(t, 37, res.Simulations)
	assert.Equal(t, 37, res.Wins)
}

func TestDepthLimitCountsAsLoss(t *testing.T) {
	b := hex.New(hex.Config{Rows: 11, Cols: 11})
	e, err := New(Config{Seed: 1, MaxDepth: 1})
	require.NoError(t, err)
	res, err := e.Evaluate(context.Background(), b, hex.SideA, hex.Pos{Row: 5, Col: 5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.WinRate)
	assert.Equal(t, defaultMinSimulations, res.Simulations)
}

func TestMinSimulationsFloor(t *testing.T) {
	b := hextest.Board("x5/x5/1,1,1,1,x/x5/x5 1")
	for _, n := range []int{1, 19, 20} {
		e, err := New(Config{Seed: 1, MinSimulations: n})
		require.NoError(t, err)
		assert.Equal(t, defaultMinSimulations, e.Config().MinSimulations)
		res, err := e.Evaluate(context.Background(), b, hex.SideA, hex.Pos{Row: 2, Col: 4})
		require.NoError(t, err)
		assert.Equal(t, defaultMinSimulations, res.Simulations, "min=%d", n)
	}

	e, err := New(Config{Seed: 1, MinSimulations: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, e.Config().MinSimulations)
}

func TestRolloutsPlayToTheEnd(t *testing.T) {
	e, err := New(Config{Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, e.Config().MaxDepth)

	ctx := WithRand(context.Background(), rand.New(rand.NewSource(5)))
	for i := 0; i < 20; i++ {
		b := hex.New(hex.Config{Rows: 11, Cols: 11})
		require.NoError(t, b.Set(hex.Pos{Row: 5, Col: 5}, hex.SideA))
		e.simulate(ctx, b, hex.SideA)
		assert.NotEqual(t, hex.NoSide, hex.Winner(b), "rollout %d", i)
	}
}

func TestEvaluateInvalidCandidate(t *testing.T) {
	b := hextest.Board("x5/x5/1,1,1,1,x/x5/x5 1")
	e, err := New(Config{Seed: 1})
	require.NoError(t, err)

	_, err = e.Evaluate(context.Background(), b, hex.SideB, hex.Pos{Row: 2, Col: 0})
	assert.True(t, errors.Is(err, hex.ErrOccupied), "err=%v", err)
	_, err = e.Evaluate(context.Background(), b, hex.SideB, hex.Pos{Row: 5, Col: 0})
	assert.True(t, errors.Is(err, hex.ErrOutOfRange), "err=%v", err)
	_, err = e.Evaluate(context.Background(), b, hex.NoSide, hex.Pos{Row: 0, Col: 0})
	assert.True(t, errors.Is(err, hex.ErrNoSide), "err=%v", err)
	assert.Equal(t, int64(0), e.Stats().Simulations)
}

func TestConfigValidation(t *testing.T) {
	cases := []Config{
		{Simulations: -1},
		{Threshold: 0.5},
		{Threshold: 1.5},
		{ExplorationRate: 1.5},
		{ExplorationRate: -0.1},
		{MaxCandidates: -3},
		{Threads: -1},
		{MinSimulations: -1},
	}
	for i, tc := range cases {
		_, err := New(tc)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%d: New(%+v) err=%v", i, tc, err)
		}
	}

	e, err := New(Config{NoExplore: true, ExplorationRate: 0.9})
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.Config().ExplorationRate)
}

func TestDeterministic(t *testing.T) {
	b := hextest.Play(7, 7, hex.SideA, "d4 c5 e3 b5")
	var results []Scored
	for _, threads := range []int{1, 4} {
		e, err := New(Config{Seed: 42, Threads: threads, Simulations: 40})
		require.NoError(t, err)
		best, ok, err := e.BestMove(context.Background(), b, hex.SideA, nil)
		require.NoError(t, err)
		require.True(t, ok)
		results = append(results, best)
	}
	assert.Equal(t, results[0].Pos, results[1].Pos)
	assert.Equal(t, results[0].Wins, results[1].Wins)
	assert.Equal(t, results[0].Simulations, results[1].Simulations)
}

func TestCandidates(t *testing.T) {
	b := hextest.Play(7, 7, hex.SideA, "d4 c5")
	e, err := New(Config{Seed: 1, MaxCandidates: 4})
	require.NoError(t, err)
	cands := e.Candidates(b, hex.SideA, b.EmptyCells())
	require.Len(t, cands, 4)
	for i, p := range cands {
		assert.True(t, b.Empty(p))
		if i > 0 {
			assert.GreaterOrEqual(t,
				Priority(b, hex.SideA, cands[i-1]),
				Priority(b, hex.SideA, p))
		}
	}
	// touching both stones outranks everything else
	assert.Equal(t, hex.Pos{Row: 3, Col: 2}, cands[0])

	occupied := []hex.Pos{{Row: 3, Col: 3}, {Row: 0, Col: 0}}
	assert.Equal(t, []hex.Pos{{Row: 0, Col: 0}}, e.Candidates(b, hex.SideA, occupied))
}

func TestBestMoveNoMoves(t *testing.T) {
	b := hextest.Board("1,2/2,1 1")
	e, err := New(Config{Seed: 1})
	require.NoError(t, err)
	_, ok, err := e.BestMove(context.Background(), b, hex.SideA, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestBestMoveFindsWin(t *testing.T) {
	// (2,4) wins for A; anything else lets B win there
	b := hextest.Board("x4,2/x4,2/1,1,1,1,x/x4,2/x4,2 1")
	e, err := New(Config{Seed: 1})
	require.NoError(t, err)
	best, ok, err := e.BestMove(context.Background(), b, hex.SideA, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, hex.Pos{Row: 2, Col: 4}, best.Pos)
	assert.Equal(t, 1.0, best.WinRate)
}

func TestCancelled(t *testing.T) {
	b := hex.New(hex.Config{Rows: 11, Cols: 11})
	e, err := New(Config{Seed: 1})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := e.Evaluate(ctx, b, hex.SideA, hex.Pos{Row: 5, Col: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Simulations)

	_, ok, err := e.BestMove(ctx, b, hex.SideA, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	b := hextest.Board("x5/x5/1,1,1,1,x/x5/x5 1")
	e, err := New(Config{Seed: 1})
	require.NoError(t, err)
	e.Evaluate(context.Background(), b, hex.SideA, hex.Pos{Row: 2, Col: 4})
	e.Evaluate(context.Background(), b, hex.SideA, hex.Pos{Row: 2, Col: 4})
	st := e.Stats()
	assert.Equal(t, int64(2), st.Evaluations)
	assert.Equal(t, int64(2*defaultMinSimulations), st.Simulations)
	e.ResetStats()
	assert.Equal(t, Stats{}, e.Stats())
}

func TestPolicies(t *testing.T) {
	ctx := WithRand(context.Background(), rand.New(rand.NewSource(1)))
	b := hextest.Board("1,2,x/2,1,2/1,2,1 1")
	for _, pol := range []PolicyFunc{RandomPolicy, StrategicPolicy} {
		p, ok := pol(ctx, b, hex.SideA)
		assert.True(t, ok)
		assert.Equal(t, hex.Pos{Row: 0, Col: 2}, p)
	}

	full := hextest.Board("1,2/2,1 1")
	for _, pol := range []PolicyFunc{RandomPolicy, StrategicPolicy} {
		_, ok := pol(ctx, full, hex.SideA)
		assert.False(t, ok)
	}

	b = hex.New(hex.Config{Rows: 9, Cols: 9})
	for i := 0; i < 50; i++ {
		p, ok := RandomPolicy(ctx, b, hex.SideB)
		require.True(t, ok)
		assert.True(t, b.InBounds(p))
	}
}

func BenchmarkEvaluate(b *testing.B) {
	board := hextest.Play(11, 11, hex.SideA, "f6 e7 g5")
	e, err := New(Config{Seed: 1, NoEarlyTermination: true, Simulations: 10})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		e.Evaluate(context.Background(), board, hex.SideB, hex.Pos{Row: 4, Col: 4})
	}
}
