package selfplay

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/nelhage/hexai/cmd/internal/opt"
	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/hei"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/logs"
	"github.com/nelhage/hexai/notation"
)

type Command struct {
	size string
	p1   string
	p2   string
	seed int64

	games  int
	cutoff int
	swap   bool

	openings string

	limit time.Duration

	threads int

	db      string
	parquet string
	summary string
	verbose bool

	memProfile string

	eng opt.Engine
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play two AIs against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]

Players are "engine" (configured by the engine flags), "rand", or
"hei:COMMAND LINE" for an external engine speaking HEI.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.size, "size", "7", "board size, N or RxC")
	flags.StringVar(&c.p1, "p1", "engine", "player 1")
	flags.StringVar(&c.p2, "p2", "rand", "player 2")

	flags.Int64Var(&c.seed, "game-seed", 0, "starting random seed")
	flags.IntVar(&c.games, "games", 10, "number of games to play per opening/side")
	flags.IntVar(&c.cutoff, "cutoff", 0, "cut games off after how many plies")
	flags.BoolVar(&c.swap, "swap", true, "swap sides each game")
	flags.StringVar(&c.openings, "openings", "", "File of openings, one move list per line")
	flags.DurationVar(&c.limit, "limit", 0, "amount of time to search each move")
	flags.IntVar(&c.threads, "games-parallel", 4, "number of games played in parallel")
	flags.StringVar(&c.db, "db", "", "record games in this sqlite database")
	flags.StringVar(&c.parquet, "parquet", "", "write engine decisions to this parquet file")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.BoolVar(&c.verbose, "v", false, "verbose output")
	flags.StringVar(&c.memProfile, "mem-profile", "", "write memory profile")
	c.eng.AddFlags(flags)
}

func readOpenings(path string) ([][]hex.Move, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out [][]hex.Move
	r := bufio.NewScanner(f)
	for r.Scan() {
		line := r.Text()
		ms, err := notation.ParseMoves(line, hex.SideA)
		if err != nil {
			return nil, fmt.Errorf("parse opening: %q: %w", line, err)
		}
		out = append(out, ms)
	}
	return out, r.Err()
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.memProfile != "" {
		defer func() {
			f, e := os.OpenFile(c.memProfile,
				os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
			if e != nil {
				log.Printf("open memory profile: %v", e)
				return
			}
			pprof.Lookup("heap").WriteTo(f, 0)
		}()
	}

	rows, cols, err := hei.ParseSize(c.size)
	if err != nil {
		log.Printf("-size: %v", err)
		return subcommands.ExitUsageError
	}
	if _, err := c.eng.BuildConfig(rows, cols); err != nil {
		log.Printf("engine: %v", err)
		return subcommands.ExitUsageError
	}
	if c.seed == 0 {
		c.seed = time.Now().Unix()
	}

	var openings [][]hex.Move
	if c.openings != "" {
		var e error
		openings, e = readOpenings(c.openings)
		if e != nil {
			log.Fatalf("-openings: %v", e)
		}
	}
	p1, err := ParseDriver(c.p1, &c.eng)
	if err != nil {
		log.Printf("-p1: %v", err)
		return subcommands.ExitUsageError
	}
	p2, err := ParseDriver(c.p2, &c.eng)
	if err != nil {
		log.Printf("-p2: %v", err)
		return subcommands.ExitUsageError
	}

	cfg := &Config{
		Rows:      rows,
		Cols:      cols,
		Swap:      c.swap,
		Games:     c.games,
		Threads:   c.threads,
		Seed:      c.seed,
		Cutoff:    c.cutoff,
		Limit:     c.limit,
		Openings:  openings,
		Verbose:   c.verbose,
		P1:        p1,
		P2:        p2,
		Decisions: c.parquet != "",
	}
	st, err := Simulate(ctx, cfg)
	if err != nil {
		log.Printf("selfplay: %v", err)
		return subcommands.ExitFailure
	}

	if c.db != "" {
		if err := c.writeGames(c.db, st.Games); err != nil {
			log.Printf("writing games: %v", err)
		}
	}
	if c.parquet != "" {
		var rows []logs.DecisionRow
		for _, r := range st.Games {
			rows = append(rows, r.Decisions...)
		}
		if err := logs.WriteDecisions(c.parquet, rows); err != nil {
			log.Printf("writing decisions: %v", err)
		}
	}
	if c.summary != "" {
		if err := c.writeSummary(c.summary, &st); err != nil {
			log.Println("writing summary: ", err.Error())
		}
	}

	log.Printf("done games=%d seed=%d cutoff=%d a=%d b=%d limit=%s",
		st.Count(), c.seed, st.Cutoff, st.A, st.B, c.limit)
	tw := tabwriter.NewWriter(os.Stderr, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\tA\tB\tsum\n")
	fmt.Fprintf(tw, "p1\t%d\t%d\t%d\n", st.Players[0].AWins, st.Players[0].BWins, st.Players[0].Wins)
	fmt.Fprintf(tw, "p2\t%d\t%d\t%d\n", st.Players[1].AWins, st.Players[1].BWins, st.Players[1].Wins)
	fmt.Fprintf(tw, "sum\t%d\t%d\t%d\n",
		st.Players[0].AWins+st.Players[1].AWins,
		st.Players[0].BWins+st.Players[1].BWins,
		st.Players[0].Wins+st.Players[1].Wins,
	)
	tw.Flush()

	a, b := int64(st.Players[0].Wins), int64(st.Players[1].Wins)
	if a < b {
		a, b = b, a
	}
	log.Printf("p[one-sided]=%f", binomTest(a, b, 0.5))

	return subcommands.ExitSuccess
}

func (c *Command) writeGames(path string, results []Result) error {
	repo, err := logs.Open(path)
	if err != nil {
		return err
	}
	defer repo.Close()
	gs := make([]*logs.Game, 0, len(results))
	for i := range results {
		gs = append(gs, gameRow(&results[i], c.p1, c.p2))
	}
	return repo.InsertGames(gs)
}

func gameRow(r *Result, p1, p2 string) *logs.Game {
	pa, pb := p1, p2
	if r.P1Side() != hex.SideA {
		pa, pb = pb, pa
	}
	g := &logs.Game{
		Timestamp: r.Start,
		Rows:      r.Board.Rows(),
		Cols:      r.Board.Cols(),
		PlayerA:   pa,
		PlayerB:   pb,
		Moves:     len(r.Moves),
		Record:    notation.FormatMoves(r.Moves),
	}
	if r.Winner != hex.NoSide {
		g.Winner = r.Winner.String()
	}
	return g
}

type Summary struct {
	Cmdline []string
	Player1 string
	Player2 string
	Limit   time.Duration
	Engine  engine.Config
	Stats   *Stats
}

func (c *Command) writeSummary(path string, stats *Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, cols, _ := hei.ParseSize(c.size)
	cfg, _ := c.eng.BuildConfig(rows, cols)
	summary := Summary{
		Cmdline: os.Args,
		Player1: c.p1,
		Player2: c.p2,
		Limit:   c.limit,
		Engine:  cfg,
		Stats:   stats,
	}

	bs, err := json.MarshalIndent(&summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = f.Write(bs)
	return err
}
