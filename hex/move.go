package hex

import (
	"fmt"
	"time"
)

type Pos struct {
	Row, Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p Pos) Add(d Pos) Pos {
	return Pos{p.Row + d.Row, p.Col + d.Col}
}

// Directions lists the six hex neighbor offsets. Every traversal in the
// engine enumerates neighbors in this order.
var Directions = [6]Pos{
	{-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0},
}

type Move struct {
	Pos  Pos
	Side Side
	At   time.Time
}

func NewMove(p Pos, s Side) Move {
	return Move{Pos: p, Side: s, At: time.Now()}
}

// Equal ignores the timestamp.
func (m Move) Equal(o Move) bool {
	return m.Pos == o.Pos && m.Side == o.Side
}

func (m Move) String() string {
	return fmt.Sprintf("%s@%s", m.Side, m.Pos)
}
