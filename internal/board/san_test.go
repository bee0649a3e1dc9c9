package board

import "testing"

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want string
	}{
		{"pawn push", StartFEN, "e2e4", "e4"},
		{"knight", StartFEN, "g1f3", "Nf3"},
		{"pawn capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
		{"kingside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queenside castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"promotion", "8/P7/8/8/8/8/k6K/8 w - - 0 1", "a7a8q", "a8=Q+"},
		{"file disambiguation", "k7/8/8/8/8/8/8/KR4R1 w - - 0 1", "b1d1", "Rbd1"},
		{"mate", "6k1/5ppp/8/8/8/8/8/K2R4 w - - 0 1", "d1d8", "Rd8#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ParseFEN(tt.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tt.fen, err)
			}
			m, err := ParseMove(tt.uci, pos)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tt.uci, err)
			}
			if got := pos.SAN(m); got != tt.want {
				t.Errorf("SAN(%s) = %q, want %q", tt.uci, got, tt.want)
			}
		})
	}
}
