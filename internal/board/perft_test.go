package board

import "testing"

// perft counts leaf nodes of the legal move tree to the given depth.
func perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, u)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		nodes uint64
	}{
		{"start d1", StartFEN, 1, 20},
		{"start d2", StartFEN, 2, 400},
		{"start d3", StartFEN, 3, 8902},
		{"start d4", StartFEN, 4, 197281},
		{"kiwipete d1", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
		{"kiwipete d2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
		{"kiwipete d3", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"endgame d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"endgame d4", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
		{"promotions d3", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ParseFEN(tt.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tt.fen, err)
			}
			got := perft(pos, tt.depth)
			if got != tt.nodes {
				t.Errorf("perft(%d) = %d, want %d", tt.depth, got, tt.nodes)
			}
		})
	}
}

func TestMakeUnmakeRestoresPosition(t *testing.T) {
	pos := NewPosition()
	before := pos.ToFEN()
	hash := pos.Hash

	for _, m := range pos.LegalMoves() {
		u := pos.MakeMove(m)

		// Incremental hash must agree with a full recompute.
		if pos.Hash != pos.ComputeHash() {
			t.Errorf("after %s: incremental hash %016x != recomputed %016x",
				m, pos.Hash, pos.ComputeHash())
		}

		pos.UnmakeMove(m, u)
		if got := pos.ToFEN(); got != before {
			t.Errorf("after make/unmake of %s: position %q, want %q", m, got, before)
		}
		if pos.Hash != hash {
			t.Errorf("after make/unmake of %s: hash not restored", m)
		}
	}
}
