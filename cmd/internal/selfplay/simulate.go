package selfplay

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/logs"
	"github.com/nelhage/hexai/notation"
)

// A Driver hands out players, one per game. Each worker owns one
// driver per seat.
type Driver interface {
	NewGame(rows, cols int, seed int64) (ai.Player, error)
	Close()
}

type DriverFactory func() (Driver, error)

type Config struct {
	Games int

	Verbose bool

	Rows, Cols int
	// Openings are move lists, A first, that games start from.
	Openings [][]hex.Move

	P1, P2 DriverFactory

	Swap    bool
	Threads int
	Seed    int64
	Cutoff  int
	Limit   time.Duration

	// Decisions collects a row per engine move.
	Decisions bool
}

type Stats struct {
	Players [2]struct {
		Wins  int
		AWins int
		BWins int
	}
	A, B   int
	Cutoff int

	Games []Result `json:"-"`
}

func (s *Stats) Count() int {
	return s.A + s.B + s.Cutoff
}

type gameSpec struct {
	c      *Config
	moves  []hex.Move
	oi     int
	i      int
	seed   int64
	p1side hex.Side
}

func (g *gameSpec) id() string {
	return fmt.Sprintf("%d-%d", g.oi, g.i)
}

type Result struct {
	spec      gameSpec
	Start     time.Time
	Board     *hex.Board
	Moves     []hex.Move
	Winner    hex.Side
	Decisions []logs.DecisionRow
}

// P1Side is the side player 1 played.
func (r *Result) P1Side() hex.Side {
	return r.spec.p1side
}

func (r *Result) ID() string {
	return r.spec.id()
}

// Simulate plays every game and tallies the results, in the order the
// games finished.
func Simulate(ctx context.Context, c *Config) (Stats, error) {
	var st Stats
	rc := make(chan Result)
	var err error
	done := make(chan struct{})
	go func() {
		err = startGames(ctx, c, rc)
		close(done)
	}()
	for r := range rc {
		if c.Verbose {
			log.Printf("game id=%s plies=%d p1=%s winner=%s",
				r.ID(), r.Board.Ply(), r.spec.p1side, r.Winner)
		}
		switch r.Winner {
		case hex.SideA:
			st.A++
		case hex.SideB:
			st.B++
		default:
			st.Cutoff++
		}
		if r.Winner != hex.NoSide {
			pst := &st.Players[0]
			if r.Winner != r.spec.p1side {
				pst = &st.Players[1]
			}
			if r.Winner == hex.SideA {
				pst.AWins++
			} else {
				pst.BWins++
			}
			pst.Wins++
		}
		st.Games = append(st.Games, r)
	}
	<-done
	return st, err
}

func startGames(ctx context.Context, c *Config, rc chan<- Result) error {
	defer close(rc)
	gc := make(chan gameSpec)
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer close(gc)
		r := rand.New(rand.NewSource(c.Seed))
		openings := c.Openings
		if len(openings) == 0 {
			openings = [][]hex.Move{nil}
		}
		for oi, o := range openings {
			n := c.Games
			if c.Swap {
				n *= 2
			}
			for g := 0; g < n; g++ {
				p1side := hex.SideA
				if g%2 == 1 && c.Swap {
					p1side = hex.SideB
				}
				spec := gameSpec{
					c:      c,
					moves:  o,
					oi:     oi,
					i:      g,
					seed:   r.Int63(),
					p1side: p1side,
				}
				select {
				case gc <- spec:
				case <-gctx.Done():
					return nil
				}
			}
		}
		return nil
	})
	for i := 0; i < c.Threads; i++ {
		grp.Go(func() error {
			return worker(gctx, c, gc, rc)
		})
	}
	return grp.Wait()
}

type decider interface {
	Decide(ctx context.Context, b *hex.Board, side hex.Side) (engine.Decision, error)
	Policy() engine.Policy
}

func worker(ctx context.Context, c *Config, games <-chan gameSpec, out chan<- Result) error {
	d1, err := c.P1()
	if err != nil {
		return fmt.Errorf("starting player 1: %w", err)
	}
	defer d1.Close()
	d2, err := c.P2()
	if err != nil {
		return fmt.Errorf("starting player 2: %w", err)
	}
	defer d2.Close()

	for g := range games {
		r, err := playGame(ctx, c, &g, d1, d2)
		if err != nil {
			return fmt.Errorf("game %s: %w", g.id(), err)
		}
		select {
		case out <- r:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func playGame(ctx context.Context, c *Config, g *gameSpec, d1, d2 Driver) (Result, error) {
	a, err := d1.NewGame(c.Rows, c.Cols, g.seed)
	if err != nil {
		return Result{}, err
	}
	b, err := d2.NewGame(c.Rows, c.Cols, g.seed+1)
	if err != nil {
		return Result{}, err
	}
	if g.p1side != hex.SideA {
		a, b = b, a
	}

	res := Result{spec: *g, Start: time.Now()}
	board := hex.New(hex.Config{Rows: c.Rows, Cols: c.Cols})
	for _, m := range g.moves {
		if err := board.Place(m); err != nil {
			return res, fmt.Errorf("opening: %s: %w", m, err)
		}
		res.Moves = append(res.Moves, m)
	}
	toMove := hex.SideA
	if len(g.moves)%2 == 1 {
		toMove = hex.SideB
	}

	cutoff := c.Cutoff
	if cutoff <= 0 {
		cutoff = c.Rows * c.Cols
	}
	for board.Ply() < cutoff {
		p := a
		if toMove == hex.SideB {
			p = b
		}
		m, row, err := move(ctx, c, p, board, toMove)
		if err != nil {
			return res, err
		}
		if row != nil {
			row.GameID = g.id()
			res.Decisions = append(res.Decisions, *row)
		}
		m.Side = toMove
		if err := board.Place(m); err != nil {
			return res, fmt.Errorf("illegal move: %s: %w", notation.FormatPos(m.Pos), err)
		}
		res.Moves = append(res.Moves, m)
		if w := hex.Winner(board); w != hex.NoSide {
			res.Winner = w
			break
		}
		toMove = toMove.Flip()
	}
	res.Board = board

	for i := range res.Decisions {
		row := &res.Decisions[i]
		switch {
		case res.Winner == hex.NoSide:
		case row.Side == res.Winner.String():
			row.Outcome = 1
		default:
			row.Outcome = -1
		}
	}
	return res, nil
}

func move(ctx context.Context, c *Config, p ai.Player, b *hex.Board, side hex.Side) (hex.Move, *logs.DecisionRow, error) {
	if c.Limit != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Limit)
		defer cancel()
	}
	dp, ok := p.(decider)
	if !ok || !c.Decisions {
		m, err := p.GetMove(ctx, b.Clone(), side)
		return m, nil, err
	}
	d, err := dp.Decide(ctx, b.Clone(), side)
	if err != nil {
		return hex.Move{}, nil, err
	}
	row := &logs.DecisionRow{
		Ply:         int32(b.Ply()),
		Rows:        int32(b.Rows()),
		Cols:        int32(b.Cols()),
		Side:        side.String(),
		Board:       notation.FormatBoard(b, side),
		Row:         int32(d.Move.Pos.Row),
		Col:         int32(d.Move.Pos.Col),
		Source:      d.Source.String(),
		Policy:      dp.Policy().String(),
		Score:       d.Score,
		WinRate:     d.Rollout.WinRate,
		Simulations: int32(d.Rollout.Simulations),
		ElapsedUs:   d.Elapsed.Microseconds(),
	}
	return d.Move, row, nil
}
