package serve

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/google/subcommands"
	"golang.org/x/net/netutil"
	"google.golang.org/grpc"

	"github.com/nelhage/hexai/cmd/internal/opt"
	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/rpc"
)

type Command struct {
	port     int
	maxConns int
	eng      opt.Engine
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve engine RPCs via GRPC" }
func (*Command) Usage() string {
	return `serve [flags]
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.port, "port", 55430, "bind port")
	flags.IntVar(&c.maxConns, "max-conns", 64, "maximum simultaneous connections")
	c.eng.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := c.eng.BuildConfig(engine.DefaultSize, engine.DefaultSize); err != nil {
		log.Printf("serve: %v", err)
		return subcommands.ExitUsageError
	}
	log.Printf("Listening on port %d", c.port)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", c.port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	if c.maxConns > 0 {
		lis = netutil.LimitListener(lis, c.maxConns)
	}
	grpcServer := grpc.NewServer()
	rpc.Register(grpcServer, rpc.NewServer(c.eng.Factory()))

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()
	if err := grpcServer.Serve(lis); err != nil {
		log.Printf("serve: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
