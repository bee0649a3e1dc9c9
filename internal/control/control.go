// Package control maps decoder decisions onto the board: a cursor the
// player steers with four directional targets plus a confirm target
// that selects a piece and then commits a destination, the same
// two-step selection flow as mouse play.
package control

import (
	"github.com/quangh/eegchess/internal/board"
)

// Class indices, in the order of the configured stimulus frequencies.
const (
	ClassUp = iota
	ClassDown
	ClassLeft
	ClassRight
	ClassConfirm
	NumClasses
)

// ClassName returns a short label for a class, for logs and the UI.
func ClassName(class int) string {
	switch class {
	case ClassUp:
		return "up"
	case ClassDown:
		return "down"
	case ClassLeft:
		return "left"
	case ClassRight:
		return "right"
	case ClassConfirm:
		return "confirm"
	}
	return "?"
}

// ActionKind describes what a decision did to the controller state.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCursor
	ActionSelect
	ActionDeselect
	ActionMove
)

// Action is the result of applying one decision.
type Action struct {
	Kind   ActionKind
	Cursor board.Square
	Move   board.Move // valid only for ActionMove
}

// Controller holds the cursor and selection state between decisions.
type Controller struct {
	cursor   board.Square
	selected board.Square
}

// NewController places the cursor on e2, a central square on the
// side-to-move's half of the board.
func NewController() *Controller {
	return &Controller{cursor: board.E2, selected: board.NoSquare}
}

// Cursor returns the current cursor square.
func (c *Controller) Cursor() board.Square { return c.cursor }

// Selected returns the selected square, or NoSquare.
func (c *Controller) Selected() board.Square { return c.selected }

// HasSelection reports whether a piece is selected.
func (c *Controller) HasSelection() bool { return c.selected != board.NoSquare }

// Reset clears the selection and recenters the cursor.
func (c *Controller) Reset() {
	c.cursor = board.E2
	c.selected = board.NoSquare
}

// Targets returns the legal destinations of the selected piece, for
// drawing the move dots.
func (c *Controller) Targets(pos *board.Position) []board.Move {
	if c.selected == board.NoSquare {
		return nil
	}
	return pos.MovesFrom(c.selected)
}

// Apply advances the controller by one decision against the given
// position and reports what happened. Cursor moves wrap around the
// board edges so any square stays reachable in at most four steps per
// axis.
func (c *Controller) Apply(class int, pos *board.Position) Action {
	switch class {
	case ClassUp:
		return c.moveCursor(0, 1)
	case ClassDown:
		return c.moveCursor(0, -1)
	case ClassLeft:
		return c.moveCursor(-1, 0)
	case ClassRight:
		return c.moveCursor(1, 0)
	case ClassConfirm:
		return c.confirm(pos)
	}
	return Action{Kind: ActionNone, Cursor: c.cursor}
}

func (c *Controller) moveCursor(df, dr int) Action {
	file := (c.cursor.File() + df + 8) % 8
	rank := (c.cursor.Rank() + dr + 8) % 8
	c.cursor = board.NewSquare(file, rank)
	return Action{Kind: ActionCursor, Cursor: c.cursor}
}

// confirm implements the two-step selection: first confirm picks up a
// piece of the side to move, second confirm drops it on a legal
// destination. Confirming another own piece reselects it, confirming
// anywhere else puts the piece back down.
func (c *Controller) confirm(pos *board.Position) Action {
	own := func(sq board.Square) bool {
		p := pos.PieceAt(sq)
		return p != board.NoPiece && p.Color() == pos.SideToMove
	}

	if c.selected == board.NoSquare {
		if own(c.cursor) && len(pos.MovesFrom(c.cursor)) > 0 {
			c.selected = c.cursor
			return Action{Kind: ActionSelect, Cursor: c.cursor}
		}
		return Action{Kind: ActionNone, Cursor: c.cursor}
	}

	if c.cursor == c.selected {
		c.selected = board.NoSquare
		return Action{Kind: ActionDeselect, Cursor: c.cursor}
	}

	if m, ok := c.moveTo(pos, c.cursor); ok {
		c.selected = board.NoSquare
		return Action{Kind: ActionMove, Cursor: c.cursor, Move: m}
	}

	if own(c.cursor) && len(pos.MovesFrom(c.cursor)) > 0 {
		c.selected = c.cursor
		return Action{Kind: ActionSelect, Cursor: c.cursor}
	}

	c.selected = board.NoSquare
	return Action{Kind: ActionDeselect, Cursor: c.cursor}
}

// moveTo finds the legal move from the selection to dst. Promotions
// always promote to a queen, matching how the selection flow offers no
// piece picker.
func (c *Controller) moveTo(pos *board.Position, dst board.Square) (board.Move, bool) {
	for _, m := range pos.MovesFrom(c.selected) {
		if m.To != dst {
			continue
		}
		if m.Kind == board.KindPromotion && m.Promotion != board.Queen {
			continue
		}
		return m, true
	}
	return board.NoMove, false
}
