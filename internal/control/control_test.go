package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangh/eegchess/internal/board"
)

func startPos(t *testing.T) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(board.StartFEN)
	require.NoError(t, err)
	return pos
}

func TestCursorMovesAndWraps(t *testing.T) {
	pos := startPos(t)
	c := NewController()
	require.Equal(t, board.E2, c.Cursor())

	a := c.Apply(ClassUp, pos)
	assert.Equal(t, ActionCursor, a.Kind)
	assert.Equal(t, board.E3, c.Cursor())

	c.Apply(ClassLeft, pos)
	assert.Equal(t, board.D3, c.Cursor())

	// Wrap off the left edge onto the right.
	for i := 0; i < 3; i++ {
		c.Apply(ClassLeft, pos)
	}
	assert.Equal(t, board.A3, c.Cursor())
	c.Apply(ClassLeft, pos)
	assert.Equal(t, board.H3, c.Cursor())

	// Wrap off the bottom onto the top.
	for i := 0; i < 2; i++ {
		c.Apply(ClassDown, pos)
	}
	assert.Equal(t, board.H1, c.Cursor())
	c.Apply(ClassDown, pos)
	assert.Equal(t, board.H8, c.Cursor())
}

func TestSelectAndMove(t *testing.T) {
	pos := startPos(t)
	c := NewController()

	// Select the e2 pawn.
	a := c.Apply(ClassConfirm, pos)
	assert.Equal(t, ActionSelect, a.Kind)
	assert.True(t, c.HasSelection())
	assert.NotEmpty(t, c.Targets(pos))

	// Steer to e4 and commit.
	c.Apply(ClassUp, pos)
	c.Apply(ClassUp, pos)
	a = c.Apply(ClassConfirm, pos)
	require.Equal(t, ActionMove, a.Kind)
	assert.Equal(t, board.E2, a.Move.From)
	assert.Equal(t, board.E4, a.Move.To)
	assert.False(t, c.HasSelection())
}

func TestConfirmOnEmptySquareDoesNothing(t *testing.T) {
	pos := startPos(t)
	c := NewController()

	c.Apply(ClassUp, pos) // e3, empty
	a := c.Apply(ClassConfirm, pos)
	assert.Equal(t, ActionNone, a.Kind)
	assert.False(t, c.HasSelection())
}

func TestConfirmOnSelectionDeselects(t *testing.T) {
	pos := startPos(t)
	c := NewController()

	c.Apply(ClassConfirm, pos)
	require.True(t, c.HasSelection())

	a := c.Apply(ClassConfirm, pos)
	assert.Equal(t, ActionDeselect, a.Kind)
	assert.False(t, c.HasSelection())
}

func TestConfirmOnOtherOwnPieceReselects(t *testing.T) {
	pos := startPos(t)
	c := NewController()

	c.Apply(ClassConfirm, pos) // select e2
	c.Apply(ClassLeft, pos)    // d2
	a := c.Apply(ClassConfirm, pos)
	assert.Equal(t, ActionSelect, a.Kind)
	assert.Equal(t, board.D2, c.Selected())
}

func TestConfirmOnIllegalTargetDeselects(t *testing.T) {
	pos := startPos(t)
	c := NewController()

	c.Apply(ClassConfirm, pos) // select e2
	for i := 0; i < 4; i++ {
		c.Apply(ClassUp, pos) // e6, not reachable
	}
	a := c.Apply(ClassConfirm, pos)
	assert.Equal(t, ActionDeselect, a.Kind)
	assert.False(t, c.HasSelection())
}

func TestPromotionAutoQueens(t *testing.T) {
	pos, err := board.ParseFEN("8/4P3/8/8/8/2k5/8/4K3 w - - 0 1")
	require.NoError(t, err)

	c := NewController()
	// Walk the cursor to e7.
	for i := 0; i < 5; i++ {
		c.Apply(ClassUp, pos)
	}
	require.Equal(t, board.E7, c.Cursor())
	require.Equal(t, ActionSelect, c.Apply(ClassConfirm, pos).Kind)

	c.Apply(ClassUp, pos)
	a := c.Apply(ClassConfirm, pos)
	require.Equal(t, ActionMove, a.Kind)
	assert.Equal(t, board.KindPromotion, a.Move.Kind)
	assert.Equal(t, board.Queen, a.Move.Promotion)
}

func TestSelectionIgnoresOpponentPieces(t *testing.T) {
	pos := startPos(t)
	c := NewController()

	// Walk to e7, a black pawn, while White is to move.
	for i := 0; i < 5; i++ {
		c.Apply(ClassUp, pos)
	}
	a := c.Apply(ClassConfirm, pos)
	assert.Equal(t, ActionNone, a.Kind)
	assert.False(t, c.HasSelection())
}

func TestClassNames(t *testing.T) {
	assert.Equal(t, "up", ClassName(ClassUp))
	assert.Equal(t, "confirm", ClassName(ClassConfirm))
	assert.Equal(t, "?", ClassName(99))
}
