package analyze

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nelhage/hexai/cli"
	"github.com/nelhage/hexai/engine"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/notation"
	"github.com/nelhage/hexai/rpc"
)

type Analyzer interface {
	Analyze(ctx context.Context, out io.Writer, b *hex.Board, side hex.Side) error
	Close()
}

func header(cmd *Command, out io.Writer, b *hex.Board, side hex.Side) {
	if !cmd.quiet {
		cli.RenderBoard(nil, out, b)
	}
	fmt.Fprintf(out, "position: %s\n", notation.FormatBoard(b, side))
	fmt.Fprintf(out, "occupancy=%.1f%% regions: A=%d B=%d\n",
		100*hex.Occupancy(b), len(hex.Regions(b, hex.SideA)), len(hex.Regions(b, hex.SideB)))
}

type localAnalysis struct {
	cmd *Command
	ctl *engine.Controller
}

func (l *localAnalysis) Close() {}

func (l *localAnalysis) Analyze(ctx context.Context, out io.Writer, b *hex.Board, side hex.Side) error {
	header(l.cmd, out, b, side)
	a, err := l.ctl.Analyze(ctx, b, side, l.cmd.candidates)
	if err != nil {
		return err
	}
	if a.Win != nil {
		fmt.Fprintf(out, "winning move: %s\n", notation.FormatPos(*a.Win))
	}
	if a.Block != nil {
		fmt.Fprintf(out, "must block: %s\n", notation.FormatPos(*a.Block))
	}
	if a.Forced != nil && a.Win == nil && a.Block == nil {
		fmt.Fprintf(out, "threat: %s %s score=%.1f\n",
			a.Forced.Kind, notation.FormatPos(a.Forced.Pos), a.Forced.Score)
	}

	rates := make(map[hex.Pos]string)
	for _, s := range a.Rollouts {
		if s.Simulations > 0 {
			rates[s.Pos] = fmt.Sprintf("%.3f (%d)", s.WinRate, s.Simulations)
		}
	}
	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	if l.cmd.explain {
		fmt.Fprintf(tw, "move\tscore\tthreat\tlast\tnoise\trollout\n")
	} else {
		fmt.Fprintf(tw, "move\tscore\trollout\n")
	}
	for i, cand := range a.Ranked {
		if l.cmd.explain {
			sc := a.Breakdown[i]
			fmt.Fprintf(tw, "%s\t%.2f\t%.0f\t%.1f\t%+.3f\t%s\n",
				notation.FormatPos(cand.Pos), cand.Score, sc.Threat, sc.LastMove, sc.Noise, rates[cand.Pos])
		} else {
			fmt.Fprintf(tw, "%s\t%.2f\t%s\n", notation.FormatPos(cand.Pos), cand.Score, rates[cand.Pos])
		}
	}
	if len(a.Ranked) == 0 {
		for _, s := range a.Rollouts {
			fmt.Fprintf(tw, "%s\t-\t%s\n", notation.FormatPos(s.Pos), rates[s.Pos])
		}
	}
	tw.Flush()

	d := a.Decision
	fmt.Fprintf(out, "best: %s source=%s score=%.3f time=%s\n",
		notation.FormatPos(d.Move.Pos), d.Source, d.Score, d.Elapsed)
	fmt.Fprintln(out, l.ctl.FrontierStats())
	return nil
}

type remoteAnalysis struct {
	cmd    *Command
	client *rpc.Client
}

func newRemote(ctx context.Context, cmd *Command, addr string) (*remoteAnalysis, error) {
	cl, err := rpc.Dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &remoteAnalysis{cmd: cmd, client: cl}, nil
}

func (r *remoteAnalysis) Close() {
	r.client.Close()
}

func (r *remoteAnalysis) Analyze(ctx context.Context, out io.Writer, b *hex.Board, side hex.Side) error {
	header(r.cmd, out, b, side)
	resp, err := r.client.BestMove(ctx, rpc.Request{
		Position:    notation.FormatBoard(b, side),
		Policy:      r.cmd.eng.Policy,
		Simulations: r.cmd.eng.Simulations,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "best: %s source=%s score=%.3f time=%s\n",
		resp.Move, resp.Source, resp.Score, resp.Elapsed)
	if resp.Simulations > 0 {
		fmt.Fprintf(out, "rollout: rate=%.3f simulations=%d\n", resp.WinRate, resp.Simulations)
	}
	stats, err := r.client.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, stats)
	return nil
}
