package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/notation"
)

func NewCLIPlayer(out io.Writer, in *bufio.Reader) ai.Player {
	return &cliPlayer{out, in}
}

type cliPlayer struct {
	out io.Writer
	in  *bufio.Reader
}

func (c *cliPlayer) GetMove(ctx context.Context, b *hex.Board, side hex.Side) (hex.Move, error) {
	for {
		fmt.Fprintf(c.out, "%s> ", side)
		line, err := c.in.ReadString('\n')
		if err != nil {
			return hex.Move{}, err
		}
		p, err := notation.ParsePos(line)
		if err != nil {
			fmt.Fprintln(c.out, "parse error: ", err)
			continue
		}
		if !b.Empty(p) {
			fmt.Fprintln(c.out, "illegal move: ", p, "is not an empty cell")
			continue
		}
		return hex.NewMove(p, side), nil
	}
}
