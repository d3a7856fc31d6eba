// Package notation reads and writes a compact text form of boards and
// cell coordinates.
//
// A board is written as rows from the top edge down, separated by '/'.
// Cells within a row are separated by ',' and are '1' (side A), '2'
// (side B), 'x' (empty) or 'xN' (N empty cells). The board is followed
// by a space and the side to move, '1' or '2', and optionally by the
// cell of the last move, which must hold a stone of the side that just
// moved:
//
//	x5/x2,1,x2/x,2,1,x2/x5/x5 2 c3
//
// A cell is written as a column letter followed by a 1-based row:
// "a1" is the top-left corner.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nelhage/hexai/hex"
)

func ParsePos(s string) (hex.Pos, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return hex.Pos{}, fmt.Errorf("bad position: %q", s)
	}
	col := s[0]
	if col < 'a' || col > 'z' {
		return hex.Pos{}, fmt.Errorf("bad column: %q", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 || row > hex.MaxSize {
		return hex.Pos{}, fmt.Errorf("bad row: %q", s)
	}
	return hex.Pos{Row: row - 1, Col: int(col - 'a')}, nil
}

func FormatPos(p hex.Pos) string {
	return fmt.Sprintf("%c%d", 'a'+byte(p.Col), p.Row+1)
}

func ParseSide(s string) (hex.Side, error) {
	switch s {
	case "1":
		return hex.SideA, nil
	case "2":
		return hex.SideB, nil
	}
	return hex.NoSide, fmt.Errorf("bad side: %q", s)
}

func FormatSide(s hex.Side) string {
	if s == hex.SideB {
		return "2"
	}
	return "1"
}

// ParseBoard returns the board and the side to move. Stones are placed
// without move history, except for the optional last move, which is
// played last so the board remembers it.
func ParseBoard(s string) (*hex.Board, hex.Side, error) {
	words := strings.Fields(s)
	if len(words) != 2 && len(words) != 3 {
		return nil, hex.NoSide, errors.New("bad board: wrong number of words")
	}
	toMove, err := ParseSide(words[1])
	if err != nil {
		return nil, hex.NoSide, err
	}
	var cells [][]hex.Side
	for _, r := range strings.Split(words[0], "/") {
		if len(cells) == hex.MaxSize {
			return nil, hex.NoSide, fmt.Errorf("bad size board: more than %d rows", hex.MaxSize)
		}
		row, err := parseRow(r)
		if err != nil {
			return nil, hex.NoSide, err
		}
		cells = append(cells, row)
	}
	if len(cells) > hex.MaxSize || len(cells[0]) < 1 || len(cells[0]) > hex.MaxSize {
		return nil, hex.NoSide, fmt.Errorf("bad size board: %dx%d", len(cells), len(cells[0]))
	}
	for i, r := range cells {
		if len(r) != len(cells[0]) {
			return nil, hex.NoSide, fmt.Errorf("row %d bad length: %d", i, len(r))
		}
	}
	b := hex.New(hex.Config{Rows: len(cells), Cols: len(cells[0])})
	var last *hex.Move
	if len(words) == 3 {
		p, err := ParsePos(words[2])
		if err != nil {
			return nil, hex.NoSide, fmt.Errorf("last move: %w", err)
		}
		if !b.InBounds(p) || cells[p.Row][p.Col] != toMove.Flip() {
			return nil, hex.NoSide, fmt.Errorf("last move %s: not a stone of %s", words[2], toMove.Flip())
		}
		m := hex.NewMove(p, toMove.Flip())
		last = &m
	}
	for r, row := range cells {
		for c, side := range row {
			p := hex.Pos{Row: r, Col: c}
			if side == hex.NoSide || (last != nil && p == last.Pos) {
				continue
			}
			if err := b.Set(p, side); err != nil {
				return nil, hex.NoSide, err
			}
		}
	}
	if last != nil {
		if err := b.Place(*last); err != nil {
			return nil, hex.NoSide, err
		}
	}
	return b, toMove, nil
}

func parseRow(row string) ([]hex.Side, error) {
	var out []hex.Side
	for _, bit := range strings.Split(row, ",") {
		switch {
		case bit == "1" || bit == "2":
			if len(out) == hex.MaxSize {
				return nil, fmt.Errorf("row longer than %d", hex.MaxSize)
			}
			side := hex.SideA
			if bit == "2" {
				side = hex.SideB
			}
			out = append(out, side)
		case strings.HasPrefix(bit, "x"):
			count := 1
			if len(bit) > 1 {
				n, err := strconv.Atoi(bit[1:])
				if err != nil || n < 1 {
					return nil, fmt.Errorf("bad run: %q", bit)
				}
				count = n
			}
			if len(out)+count > hex.MaxSize {
				return nil, fmt.Errorf("bad run: %q: row longer than %d", bit, hex.MaxSize)
			}
			for i := 0; i < count; i++ {
				out = append(out, hex.NoSide)
			}
		default:
			return nil, fmt.Errorf("malformed cell: %q", bit)
		}
	}
	return out, nil
}

// FormatBoard writes b. The opponent's last move is included when b
// remembers it.
func FormatBoard(b *hex.Board, toMove hex.Side) string {
	rows := make([]string, 0, b.Rows())
	for r := 0; r < b.Rows(); r++ {
		rows = append(rows, formatRow(b, r))
	}
	out := fmt.Sprintf("%s %s", strings.Join(rows, "/"), FormatSide(toMove))
	if m, ok := b.LastMove(toMove.Flip()); ok {
		out += " " + FormatPos(m.Pos)
	}
	return out
}

func formatRow(b *hex.Board, r int) string {
	var bits []string
	for c := 0; c < b.Cols(); {
		var i int
		for i = 0; c+i < b.Cols() && b.At(hex.Pos{Row: r, Col: c + i}) == hex.NoSide; i++ {
		}
		switch i {
		case 0:
			bits = append(bits, FormatSide(b.At(hex.Pos{Row: r, Col: c})))
			c++
		case 1:
			bits = append(bits, "x")
		default:
			bits = append(bits, fmt.Sprintf("x%d", i))
		}
		c += i
	}
	return strings.Join(bits, ",")
}

// ParseMoves parses space-separated cells, alternating sides starting
// with first.
func ParseMoves(s string, first hex.Side) ([]hex.Move, error) {
	var out []hex.Move
	side := first
	for _, w := range strings.Fields(s) {
		p, err := ParsePos(w)
		if err != nil {
			return nil, err
		}
		out = append(out, hex.NewMove(p, side))
		side = side.Flip()
	}
	return out, nil
}

func FormatMoves(ms []hex.Move) string {
	bits := make([]string, 0, len(ms))
	for _, m := range ms {
		bits = append(bits, FormatPos(m.Pos))
	}
	return strings.Join(bits, " ")
}
