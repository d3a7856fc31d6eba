package analyze

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/google/subcommands"

	"github.com/nelhage/hexai/cmd/internal/opt"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/logs"
	"github.com/nelhage/hexai/notation"
)

type Command struct {
	/* Global options / output options */
	quiet      bool
	cpuProfile string

	/* Options to select which position to analyze */
	db        string
	game      int64
	move      int
	variation string

	/* Options which apply to all analyzers */
	timeLimit  time.Duration
	candidates int
	explain    bool

	/* Engine options */
	remote string
	eng    opt.Engine
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Evaluate a position" }
func (*Command) Usage() string {
	return `analyze [options] 'BOARD SIDE'
analyze [options] -db GAMES.db -game ID

Evaluate a position given in board notation, or taken from a recorded
game. By default a recorded game is analyzed at its final position; use
-move to select an earlier one, and -variation to play additional moves
prior to analysis.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.quiet, "quiet", false, "don't print board diagrams")
	flags.StringVar(&c.cpuProfile, "cpuprofile", "", "write CPU profile")

	flags.StringVar(&c.db, "db", "", "game database")
	flags.Int64Var(&c.game, "game", 0, "game ID to analyze from -db")
	flags.IntVar(&c.move, "move", 0, "analyze after this many plies of the game")
	flags.StringVar(&c.variation, "variation", "", "apply the listed moves after the given position")

	flags.DurationVar(&c.timeLimit, "limit", time.Minute, "limit of how much time to use")
	flags.IntVar(&c.candidates, "n", 5, "number of candidates to show")
	flags.BoolVar(&c.explain, "explain", false, "explain positional scores")

	flags.StringVar(&c.remote, "remote", "", "ask a serve instance at this address instead")
	c.eng.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, side, err := c.position(flag.Args())
	if err != nil {
		log.Printf("analyze: %v", err)
		return subcommands.ExitUsageError
	}
	if c.variation != "" {
		side, err = applyVariation(b, side, c.variation)
		if err != nil {
			log.Printf("-variation: %v", err)
			return subcommands.ExitUsageError
		}
	}

	if c.cpuProfile != "" {
		f, e := os.OpenFile(c.cpuProfile, os.O_WRONLY|os.O_CREATE, 0644)
		if e != nil {
			log.Fatalf("open cpu-profile: %s: %v", c.cpuProfile, e)
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	analysis, err := c.buildAnalysis(ctx, b)
	if err != nil {
		log.Printf("analyze: %v", err)
		return subcommands.ExitFailure
	}
	defer analysis.Close()

	if c.timeLimit != 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, c.timeLimit)
		defer cancel()
	}
	if err := analysis.Analyze(ctx, os.Stdout, b, side); err != nil {
		log.Printf("analyze: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *Command) position(args []string) (*hex.Board, hex.Side, error) {
	if c.db == "" {
		if len(args) != 1 {
			return nil, hex.NoSide, errors.New("need one position argument")
		}
		return notation.ParseBoard(args[0])
	}
	repo, err := logs.Open(c.db)
	if err != nil {
		return nil, hex.NoSide, err
	}
	defer repo.Close()
	g, err := repo.Game(c.game)
	if err != nil {
		return nil, hex.NoSide, err
	}
	ms, err := notation.ParseMoves(g.Record, hex.SideA)
	if err != nil {
		return nil, hex.NoSide, fmt.Errorf("game %d: %w", g.ID, err)
	}
	if c.move > 0 && c.move < len(ms) {
		ms = ms[:c.move]
	}
	b := hex.New(hex.Config{Rows: g.Rows, Cols: g.Cols})
	for _, m := range ms {
		if err := b.Place(m); err != nil {
			return nil, hex.NoSide, fmt.Errorf("game %d: %s: %w", g.ID, m, err)
		}
	}
	side := hex.SideA
	if len(ms)%2 == 1 {
		side = hex.SideB
	}
	return b, side, nil
}

func applyVariation(b *hex.Board, side hex.Side, variant string) (hex.Side, error) {
	ms, err := notation.ParseMoves(variant, side)
	if err != nil {
		return side, err
	}
	for _, m := range ms {
		if err := b.Place(m); err != nil {
			return side, fmt.Errorf("bad move `%s': %w", notation.FormatPos(m.Pos), err)
		}
		side = m.Side.Flip()
	}
	return side, nil
}

func (c *Command) buildAnalysis(ctx context.Context, b *hex.Board) (Analyzer, error) {
	if c.remote != "" {
		r, err := newRemote(ctx, c, c.remote)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	ctl, err := c.eng.NewPlayer(b.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	return &localAnalysis{cmd: c, ctl: ctl.Controller}, nil
}
