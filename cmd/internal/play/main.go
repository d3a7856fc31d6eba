package play

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/cli"
	"github.com/nelhage/hexai/cmd/internal/opt"
	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/hei"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/logs"
	"github.com/nelhage/hexai/notation"
)

type Command struct {
	a     string
	b     string
	size  string
	limit time.Duration
	db    string

	unicode bool
	eng     opt.Engine
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play from the command line" }
func (*Command) Usage() string {
	return `play [flags]

Play on the command-line, against a human or AI. Players are one of
"human", "rand[:SEED]", "engine", or "hei:COMMAND LINE".
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.a, "a", "human", "player A (left-right)")
	flags.StringVar(&c.b, "b", "engine", "player B (top-bottom)")
	flags.StringVar(&c.size, "size", strconv.Itoa(engine.DefaultSize), "board size, N or RxC")
	flags.DurationVar(&c.limit, "limit", 30*time.Second, "ai time limit")
	flags.StringVar(&c.db, "db", "", "record the game in this sqlite database")

	flags.BoolVar(&c.unicode, "unicode", false, "render board with utf8 glyphs")
	c.eng.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rows, cols, err := hei.ParseSize(c.size)
	if err != nil {
		log.Printf("-size: %v", err)
		return subcommands.ExitUsageError
	}
	in := bufio.NewReader(os.Stdin)
	pa, err := c.parsePlayer(in, c.a, rows, cols)
	if err != nil {
		log.Printf("-a: %v", err)
		return subcommands.ExitUsageError
	}
	pb, err := c.parsePlayer(in, c.b, rows, cols)
	if err != nil {
		log.Printf("-b: %v", err)
		return subcommands.ExitUsageError
	}
	st := &cli.CLI{
		Config: hex.Config{Rows: rows, Cols: cols},
		Out:    os.Stdout,
		A:      pa,
		B:      pb,
		Glyphs: glyphs(c.unicode),
	}
	start := time.Now()
	b, err := st.Play(ctx)
	if err != nil {
		log.Printf("play: %v", err)
		return subcommands.ExitFailure
	}
	if c.db != "" {
		repo, err := logs.Open(c.db)
		if err != nil {
			log.Printf("open %s: %v", c.db, err)
			return subcommands.ExitFailure
		}
		defer repo.Close()
		g := &logs.Game{
			Timestamp: start,
			Rows:      rows,
			Cols:      cols,
			PlayerA:   c.a,
			PlayerB:   c.b,
			Moves:     len(st.Moves()),
			Record:    notation.FormatMoves(st.Moves()),
		}
		if w := hex.Winner(b); w != hex.NoSide {
			g.Winner = w.String()
		}
		if err := repo.InsertGame(g); err != nil {
			log.Printf("record game: %v", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func glyphs(unicode bool) *cli.Glyphs {
	if unicode {
		return &cli.UnicodeGlyphs
	}
	return &cli.DefaultGlyphs
}

type aiWrapper struct {
	limit time.Duration
	p     ai.Player
}

func (a *aiWrapper) GetMove(ctx context.Context, b *hex.Board, side hex.Side) (hex.Move, error) {
	ctx, cancel := context.WithTimeout(ctx, a.limit)
	defer cancel()
	return a.p.GetMove(ctx, b, side)
}

func (c *Command) parsePlayer(in *bufio.Reader, s string, rows, cols int) (ai.Player, error) {
	switch {
	case s == "human":
		return cli.NewCLIPlayer(os.Stdout, in), nil
	case strings.HasPrefix(s, "rand"):
		var seed int64
		if len(s) > len("rand") {
			i, err := strconv.Atoi(s[len("rand:"):])
			if err != nil {
				return nil, err
			}
			seed = int64(i)
		}
		return ai.NewRandom(seed), nil
	case s == "engine":
		p, err := c.eng.NewPlayer(rows, cols)
		if err != nil {
			return nil, err
		}
		return &aiWrapper{c.limit, p}, nil
	case strings.HasPrefix(s, "hei:"):
		cl, err := hei.NewClient(strings.Fields(s[len("hei:"):]))
		if err != nil {
			return nil, err
		}
		p, err := cl.NewGame(rows, cols)
		if err != nil {
			cl.Close()
			return nil, err
		}
		return &aiWrapper{c.limit, p}, nil
	}
	return nil, fmt.Errorf("unparseable player: %s", s)
}
