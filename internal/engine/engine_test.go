package engine

import (
	"testing"
	"time"

	"github.com/quangh/eegchess/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	move := eng.Search(pos)
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move)
}

func TestSearchFindsMateInOne(t *testing.T) {
	// White mates with Rd8.
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/K2R4 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	eng := NewEngine()
	eng.SetDifficulty(Medium)

	move := eng.SearchWithLimits(pos, SearchLimits{Depth: 3, MoveTime: 5 * time.Second})
	want := board.NewMove(board.D1, board.D8)
	if move != want {
		t.Errorf("Search = %s, want %s", move, want)
	}
}

func TestSearchReturnsNoMoveWhenGameOver(t *testing.T) {
	pos, err := board.ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	eng := NewEngine()
	for _, d := range []Difficulty{Easy, Medium} {
		eng.SetDifficulty(d)
		if move := eng.Search(pos); move != board.NoMove {
			t.Errorf("difficulty %v: Search = %s in checkmate position, want NoMove", d, move)
		}
	}
}

func TestEvaluateStartingPosition(t *testing.T) {
	pos := board.NewPosition()
	if score := Evaluate(pos); score != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", score)
	}
}

func TestSearchPrefersCapture(t *testing.T) {
	// Free queen on d5, white rook on d1 can take it.
	pos, err := board.ParseFEN("k7/8/8/3q4/8/8/8/K2R4 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	eng := NewEngine()
	move := eng.SearchWithLimits(pos, SearchLimits{Depth: 3})
	want := board.NewMove(board.D1, board.D5)
	if move != want {
		t.Errorf("Search = %s, want %s", move, want)
	}
}
