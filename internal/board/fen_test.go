package board

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
	}
}

func TestParseFENEmptySquares(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", StartFEN, err)
	}
	for rank := 2; rank <= 5; rank++ {
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			if pc := pos.PieceAt(sq); pc != NoPiece {
				t.Errorf("PieceAt(%s) = %v, want empty", sq, pc)
			}
		}
	}

	// A lone-kings position leaves all but two squares empty.
	pos, err = ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if n := len(pos.LegalMoves()); n != 5 {
		t.Errorf("lone king has %d moves, want 5", n)
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",          // missing fields
		"rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", // 7 ranks
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1",                              // no kings
		"Pnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN1 w - - 0 1",  // pawn on rank 8
	}

	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q): expected error, got nil", fen)
		}
	}
}

func TestStartingPosition(t *testing.T) {
	pos := NewPosition()

	if pos.SideToMove != White {
		t.Error("Starting position must have white to move")
	}
	if pos.Castling != AllCastling {
		t.Error("Starting position must have all castling rights")
	}
	if pos.PieceAt(E1) != WhiteKing || pos.PieceAt(E8) != BlackKing {
		t.Error("Kings not on their starting squares")
	}
	if pos.KingSquare(White) != E1 || pos.KingSquare(Black) != E8 {
		t.Error("Cached king squares are wrong")
	}
	if pos.Material() != 0 {
		t.Errorf("Starting material balance = %d, want 0", pos.Material())
	}
}
