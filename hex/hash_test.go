package hex_test

import (
	"flag"
	"math/rand"
	"testing"

	"github.com/nelhage/hexai/hex"
)

var hashTests = flag.Bool("test-hash", false, "run hash collision tests")

func reportCollisions(t *testing.T, tbl map[uint64][]*hex.Board) {
	var n, collisions int
	for h, l := range tbl {
		n += len(l)
		b := l[0]
		for _, bb := range l[1:] {
			if !b.Equal(bb) {
				collisions++
				t.Logf("collision h=%x", h)
			}
		}
	}
	t.Logf("hashed n=%d collisions=%d", n, collisions)
	if collisions != 0 {
		t.Fail()
	}
}

func TestHashCollisions(t *testing.T) {
	if !*hashTests {
		t.SkipNow()
	}
	tbl := make(map[uint64][]*hex.Board)
	r := rand.New(rand.NewSource(1))
	for _, size := range []int{5, 7, 11} {
		for g := 0; g < 200; g++ {
			b := hex.New(hex.Config{Rows: size, Cols: size})
			side := hex.SideA
			for !b.Full() {
				cells := b.EmptyCells()
				b.Place(hex.NewMove(cells[r.Intn(len(cells))], side))
				side = side.Flip()
				tbl[b.Hash()] = append(tbl[b.Hash()], b.Clone())
			}
		}
	}
	reportCollisions(t, tbl)
}
