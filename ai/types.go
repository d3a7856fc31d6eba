package ai

import (
	"context"

	"github.com/nelhage/hexai/hex"
)

// Player chooses a move for side on b. Implementations must not
// modify b.
type Player interface {
	GetMove(ctx context.Context, b *hex.Board, side hex.Side) (hex.Move, error)
}
