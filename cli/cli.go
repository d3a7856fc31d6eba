package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nelhage/hexai/ai"
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/notation"
)

type Glyphs struct {
	A, B, Empty string
	// PathA and PathB mark the stones of a winning chain.
	PathA, PathB string
}

type CLI struct {
	moves []hex.Move
	b     *hex.Board

	Config hex.Config
	Glyphs *Glyphs
	Out    io.Writer
	A      ai.Player
	B      ai.Player
	// First defaults to side A.
	First hex.Side
}

var DefaultGlyphs = Glyphs{
	A:     "x",
	B:     "o",
	Empty: ".",
	PathA: "X",
	PathB: "O",
}

var UnicodeGlyphs = Glyphs{
	A:     "●",
	B:     "○",
	Empty: "·",
	PathA: "◆",
	PathB: "◇",
}

// Play runs a game to completion and returns the final board.
func (c *CLI) Play(ctx context.Context) (*hex.Board, error) {
	c.moves = nil
	c.b = hex.New(c.Config)
	toMove := c.First
	if !toMove.Valid() {
		toMove = hex.SideA
	}
	for {
		c.render()
		if w := hex.Winner(c.b); w != hex.NoSide {
			conn := hex.Evaluate(c.b, w)
			fmt.Fprintf(c.Out, "Game Over! %s wins by connecting %s\n", w, edges(w))
			fmt.Fprintf(c.Out, "path: %s\n", formatPath(conn.Path))
			return c.b, nil
		}
		if c.b.Full() {
			fmt.Fprintln(c.Out, "Game Over! board full")
			return c.b, nil
		}
		player := c.A
		if toMove == hex.SideB {
			player = c.B
		}
		m, err := player.GetMove(ctx, c.b.Clone(), toMove)
		if err != nil {
			return c.b, fmt.Errorf("%s: %w", toMove, err)
		}
		m.Side = toMove
		if err := c.b.Place(m); err != nil {
			fmt.Fprintln(c.Out, "illegal move:", err)
			continue
		}
		c.moves = append(c.moves, m)
		if toMove == hex.SideA {
			fmt.Fprintf(c.Out, "%d. %s", (len(c.moves)+1)/2, notation.FormatPos(m.Pos))
		} else {
			fmt.Fprintf(c.Out, "%d. ... %s", (len(c.moves)+1)/2, notation.FormatPos(m.Pos))
		}
		toMove = toMove.Flip()
	}
}

func (c *CLI) Moves() []hex.Move {
	return c.moves
}

func (c *CLI) render() {
	RenderBoard(c.Glyphs, c.Out, c.b)
}

func edges(s hex.Side) string {
	if s == hex.SideA {
		return "left and right"
	}
	return "top and bottom"
}

func formatPath(ps []hex.Pos) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = notation.FormatPos(p)
	}
	return strings.Join(out, " ")
}

// RenderBoard draws b as a rhombus, each row shifted right by half a
// cell. The stones of a winning chain, if any, use the path glyphs.
func RenderBoard(g *Glyphs, out io.Writer, b *hex.Board) {
	if g == nil {
		g = &DefaultGlyphs
	}
	onPath := make(map[hex.Pos]bool)
	if w := hex.Winner(b); w != hex.NoSide {
		for _, p := range hex.Evaluate(b, w).Path {
			onPath[p] = true
		}
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 4, 8, 1, ' ', 0)
	var hdr []string
	for col := 0; col < b.Cols(); col++ {
		hdr = append(hdr, string(rune('a'+col)))
	}
	fmt.Fprintf(w, "\t%s\n", strings.Join(hdr, " "))
	for r := 0; r < b.Rows(); r++ {
		cells := make([]string, b.Cols())
		for col := range cells {
			p := hex.Pos{Row: r, Col: col}
			switch b.At(p) {
			case hex.SideA:
				cells[col] = g.A
				if onPath[p] {
					cells[col] = g.PathA
				}
			case hex.SideB:
				cells[col] = g.B
				if onPath[p] {
					cells[col] = g.PathB
				}
			default:
				cells[col] = g.Empty
			}
		}
		fmt.Fprintf(w, "%d.\t%s%s\n", r+1, strings.Repeat(" ", r), strings.Join(cells, " "))
	}
	w.Flush()
	fmt.Fprintf(out, "stones: A:%d B:%d\n", b.Stones(hex.SideA), b.Stones(hex.SideB))
}
