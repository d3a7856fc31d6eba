package hei

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/nelhage/hexai/cmd/internal/opt"
	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/hei"
)

type Command struct {
	opt opt.Engine
}

func (*Command) Name() string     { return "hei" }
func (*Command) Synopsis() string { return "Launch the engine in HEI mode" }
func (*Command) Usage() string {
	return `hei [flags]

Launch the engine in HEI mode, a line protocol suitable for being
driven by an external GUI or match runner.

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.opt.AddFlags(fs)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := c.opt.BuildConfig(engine.DefaultSize, engine.DefaultSize); err != nil {
		log.Println("hei: ", err.Error())
		return subcommands.ExitUsageError
	}
	e := hei.NewEngine(os.Stdin, os.Stdout)
	e.ConfigFactory = c.opt.Factory()
	if err := e.Run(ctx); err != nil {
		log.Println("hei: ", err.Error())
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
