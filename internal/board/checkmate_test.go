package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king on h8 boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
	if n := len(pos.LegalMoves()); n != 0 {
		t.Errorf("Expected no legal moves, got %d", n)
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("Checkmate position reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// King can capture the checking rook.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
}

func TestStalemate(t *testing.T) {
	// Classic stalemate: black king on a8, white queen covers every escape.
	pos, err := ParseFEN("k7/2Q5/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if pos.InCheck() {
		t.Error("Stalemated king should not be in check")
	}
	if !pos.IsStalemate() {
		t.Error("Expected stalemate but got false")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"k7/8/8/8/8/8/8/K7 w - - 0 1", true},                // bare kings
		{"k7/8/8/8/8/8/8/KB6 w - - 0 1", true},               // king + bishop
		{"k7/8/8/8/8/8/8/KN6 w - - 0 1", true},               // king + knight
		{"kb6/8/8/8/8/8/8/KB6 w - - 0 1", false},             // bishops on opposite shades
		{"k7/8/8/8/8/8/8/KQ6 w - - 0 1", false},              // queen mates
		{"k7/p7/8/8/8/8/8/K7 w - - 0 1", false},              // pawn can promote
	}

	for _, tt := range tests {
		pos, err := ParseFEN(tt.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", tt.fen, err)
		}
		if got := pos.InsufficientMaterial(); got != tt.want {
			t.Errorf("InsufficientMaterial(%q) = %v, want %v", tt.fen, got, tt.want)
		}
	}
}
