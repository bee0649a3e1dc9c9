package board

import "math/rand/v2"

// Zobrist keys for incremental position hashing. Generated from a fixed
// seed so hashes are stable across runs (saved games compare hashes).
var (
	zobristPiece     [2][6][64]uint64
	zobristCastling  [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	rng := rand.New(rand.NewPCG(0x5eed0ee6c4e55, 0xb0a2d7713a5e41))

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.Uint64()
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.Uint64()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.Uint64()
	}
	zobristSide = rng.Uint64()
}
