package hextest

import (
	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/notation"
)

func Pos(s string) hex.Pos {
	p, e := notation.ParsePos(s)
	if e != nil {
		panic(e)
	}
	return p
}

func Board(s string) *hex.Board {
	b, _, e := notation.ParseBoard(s)
	if e != nil {
		panic(e)
	}
	return b
}

// Play returns an empty board with ms played in order, alternating
// sides starting with first.
func Play(rows, cols int, first hex.Side, ms string) *hex.Board {
	b := hex.New(hex.Config{Rows: rows, Cols: cols})
	moves, e := notation.ParseMoves(ms, first)
	if e != nil {
		panic(e)
	}
	for _, m := range moves {
		if e := b.Place(m); e != nil {
			panic(e)
		}
	}
	return b
}
