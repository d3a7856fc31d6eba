package ai

import (
	"context"
	"errors"
	"math/rand"

	"github.com/nelhage/hexai/hex"
)

var ErrNoMoves = errors.New("no legal moves")

type RandomAI struct {
	r *rand.Rand
}

func (r *RandomAI) GetMove(ctx context.Context, b *hex.Board, side hex.Side) (hex.Move, error) {
	moves := b.EmptyCells()
	if len(moves) == 0 {
		return hex.Move{}, ErrNoMoves
	}
	i := r.r.Intn(len(moves))
	return hex.NewMove(moves[i], side), nil
}

func NewRandom(seed int64) *RandomAI {
	return &RandomAI{
		r: rand.New(rand.NewSource(seed)),
	}
}
