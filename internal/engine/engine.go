// Package engine implements the computer opponent.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/quangh/eegchess/internal/board"
)

// Difficulty selects how the engine picks its moves.
type Difficulty int

const (
	// Easy picks a uniformly random legal move, the original
	// prototype's opponent.
	Easy Difficulty = iota
	Medium
	Hard
)

// SearchLimits constrains a search.
type SearchLimits struct {
	Depth    int           // maximum depth (0 = engine default)
	MoveTime time.Duration // soft time cap for this move (0 = no limit)
}

// DifficultySettings maps difficulty to search limits. Easy ignores
// them and plays randomly.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {},
	Medium: {Depth: 3, MoveTime: time.Second},
	Hard:   {Depth: 5, MoveTime: 3 * time.Second},
}

// Engine is the chess opponent.
type Engine struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// NewEngine creates an engine at Easy difficulty.
func NewEngine() *Engine {
	return &Engine{
		difficulty: Easy,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Search picks a move for the side to move, or board.NoMove if the
// game is over.
func (e *Engine) Search(pos *board.Position) board.Move {
	if e.difficulty == Easy {
		return e.randomMove(pos)
	}
	return e.SearchWithLimits(pos, DifficultySettings[e.difficulty])
}

// randomMove returns a uniformly random legal move.
func (e *Engine) randomMove(pos *board.Position) board.Move {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return board.NoMove
	}
	return moves[e.rng.IntN(len(moves))]
}

// SearchWithLimits runs an iterative-deepening alpha-beta search.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = 4
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = time.Now().Add(limits.MoveTime)
	}

	s := &searcher{pos: pos.Copy(), deadline: deadline, rng: e.rng}

	best := board.NoMove
	for depth := 1; depth <= maxDepth; depth++ {
		move, done := s.searchRoot(depth)
		if done {
			break
		}
		if move != board.NoMove {
			best = move
		}
	}
	return best
}

// Evaluate returns the static evaluation of the position in centipawns
// from white's point of view.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}
