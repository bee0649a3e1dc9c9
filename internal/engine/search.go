package engine

import (
	"math/rand/v2"
	"time"

	"github.com/quangh/eegchess/internal/board"
)

const (
	infinity  = 1_000_000
	mateScore = 100_000
)

// searcher holds the state of one search. Not safe for concurrent use;
// the UI runs each search on its own goroutine with a position copy.
type searcher struct {
	pos      *board.Position
	deadline time.Time
	rng      *rand.Rand
	nodes    uint64
	stopped  bool
}

// outOfTime checks the deadline every so often; checking on every node
// costs more than the search itself at these depths.
func (s *searcher) outOfTime() bool {
	if s.stopped {
		return true
	}
	if s.deadline.IsZero() || s.nodes&1023 != 0 {
		return false
	}
	if time.Now().After(s.deadline) {
		s.stopped = true
	}
	return s.stopped
}

// searchRoot searches all root moves at the given depth. Returns the
// best move and whether the deadline interrupted the iteration.
func (s *searcher) searchRoot(depth int) (board.Move, bool) {
	moves := s.pos.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove, true
	}

	// Shuffle so equal-scoring moves vary between games.
	s.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	best := board.NoMove
	alpha := -infinity

	for _, m := range moves {
		u := s.pos.MakeMove(m)
		score := -s.negamax(depth-1, -infinity, -alpha)
		s.pos.UnmakeMove(m, u)

		if s.stopped {
			return best, true
		}
		if score > alpha {
			alpha = score
			best = m
		}
	}
	return best, false
}

// negamax is a plain alpha-beta negamax over the legal move list.
func (s *searcher) negamax(depth int, alpha, beta int) int {
	s.nodes++
	if s.outOfTime() {
		return 0
	}

	if s.pos.HalfMoveClock >= 100 || s.pos.InsufficientMaterial() {
		return 0
	}

	moves := s.pos.LegalMoves()
	if len(moves) == 0 {
		if s.pos.InCheck() {
			return -mateScore - depth // prefer faster mates
		}
		return 0
	}

	if depth <= 0 {
		return s.evaluate()
	}

	for _, m := range moves {
		u := s.pos.MakeMove(m)
		score := -s.negamax(depth-1, -beta, -alpha)
		s.pos.UnmakeMove(m, u)

		if s.stopped {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// evaluate scores the position for the side to move.
func (s *searcher) evaluate() int {
	score := Evaluate(s.pos)
	if s.pos.SideToMove == board.Black {
		return -score
	}
	return score
}
