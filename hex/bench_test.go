package hex_test

import (
	"math/rand"
	"testing"

	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/hextest"
)

func BenchmarkPlaceEmpty(b *testing.B) {
	board := hex.New(hex.Config{Rows: 11, Cols: 11})
	cells := board.EmptyCells()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%len(cells) == 0 {
			board.Reset()
		}
		board.Place(hex.NewMove(cells[i%len(cells)], hex.SideA))
	}
}

func benchmarkEvaluate(b *testing.B, board *hex.Board) {
	var dfs hex.DFS
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dfs.Evaluate(board, hex.SideA)
	}
}

func BenchmarkEvaluateEarly(b *testing.B) {
	benchmarkEvaluate(b, hextest.Play(11, 11, hex.SideA, "f6 e7 g5 d8"))
}

func BenchmarkEvaluateHalfFull(b *testing.B) {
	board := hex.New(hex.Config{Rows: 11, Cols: 11})
	r := rand.New(rand.NewSource(1))
	side := hex.SideA
	for board.Ply() < 60 {
		cells := board.EmptyCells()
		board.Place(hex.NewMove(cells[r.Intn(len(cells))], side))
		side = side.Flip()
	}
	benchmarkEvaluate(b, board)
}
