package hex

const (
	fnvBasis = 14695981039346656037
	fnvPrime = 1099511628211
)

func hash8(basis uint64, b byte) uint64 {
	return (basis ^ uint64(b)) * fnvPrime
}

func hash64(basis uint64, w uint64) uint64 {
	h := basis
	for i := uint(0); i < 64; i += 8 {
		h = (h ^ ((w >> i) & 0xff)) * fnvPrime
	}
	return h
}

// Hash fingerprints the stones on the board. It depends only on which
// cells each side owns, never on move order or history.
func (b *Board) Hash() uint64 {
	h := uint64(fnvBasis)
	h = hash8(h, byte(b.cfg.Rows))
	h = hash8(h, byte(b.cfg.Cols))
	for _, w := range b.owned[0] {
		h = hash64(h, w)
	}
	for _, w := range b.owned[1] {
		h = hash64(h, w)
	}
	return h
}
