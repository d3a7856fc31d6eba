package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/nelhage/hexai/cmd/internal/analyze"
	"github.com/nelhage/hexai/cmd/internal/games"
	"github.com/nelhage/hexai/cmd/internal/hei"
	"github.com/nelhage/hexai/cmd/internal/play"
	"github.com/nelhage/hexai/cmd/internal/selfplay"
	"github.com/nelhage/hexai/cmd/internal/serve"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&play.Command{}, "")
	subcommands.Register(&hei.Command{}, "")
	subcommands.Register(&analyze.Command{}, "")
	subcommands.Register(&serve.Command{}, "")
	subcommands.Register(&selfplay.Command{}, "")
	subcommands.Register(&games.Command{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
