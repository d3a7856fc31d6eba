package games

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/nelhage/hexai/logs"
)

type Command struct {
	list bool
}

func (*Command) Name() string     { return "games" }
func (*Command) Synopsis() string { return "Summarize a game database" }
func (*Command) Usage() string {
	return `games [flags] GAMES.db
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.list, "list", false, "list every game")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(flag.Args()) != 1 {
		log.Println("Must supply a game database")
		return subcommands.ExitUsageError
	}
	repo, err := logs.Open(flag.Arg(0))
	if err != nil {
		log.Printf("open: %v", err)
		return subcommands.ExitFailure
	}
	defer repo.Close()

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer tw.Flush()
	if c.list {
		gs, err := repo.Games()
		if err != nil {
			log.Printf("games: %v", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(tw, "id\ttime\tsize\tA\tB\twinner\tmoves\n")
		for _, g := range gs {
			fmt.Fprintf(tw, "%d\t%s\t%dx%d\t%s\t%s\t%s\t%d\n",
				g.ID, g.Timestamp.Format("2006-01-02 15:04"), g.Rows, g.Cols,
				g.PlayerA, g.PlayerB, g.Winner, g.Moves)
		}
		fmt.Fprintln(tw)
	}

	recs, err := repo.Records()
	if err != nil {
		log.Printf("records: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(tw, "player\tgames\twins\trate\n")
	for _, r := range recs {
		rate := 0.0
		if r.Games > 0 {
			rate = float64(r.Wins) / float64(r.Games)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\n", r.Player, r.Games, r.Wins, rate)
	}
	return subcommands.ExitSuccess
}
