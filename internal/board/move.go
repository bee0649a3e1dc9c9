package board

import "fmt"

// MoveKind distinguishes special moves from plain ones.
type MoveKind uint8

const (
	KindNormal MoveKind = iota
	KindPromotion
	KindEnPassant
	KindCastle
)

// Move describes a single chess move. Promotion is only meaningful when
// Kind is KindPromotion.
type Move struct {
	From      Square
	To        Square
	Kind      MoveKind
	Promotion PieceType
}

// NoMove is the zero move; it never matches a generated move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a plain move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// NewPromotion creates a pawn promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Kind: KindPromotion, Promotion: promo}
}

// NewEnPassant creates an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move{From: from, To: to, Kind: KindEnPassant}
}

// NewCastle creates a castling move, expressed as the king's movement.
func NewCastle(from, to Square) Move {
	return Move{From: from, To: to, Kind: KindCastle}
}

// IsPromotion reports whether this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Kind == KindPromotion
}

// IsCastle reports whether this is a castling move.
func (m Move) IsCastle() bool {
	return m.Kind == KindCastle
}

// IsEnPassant reports whether this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Kind == KindEnPassant
}

// IsCapture reports whether the move captures a piece in the given position.
func (m Move) IsCapture(pos *Position) bool {
	return m.Kind == KindEnPassant || pos.PieceAt(m.To) != NoPiece
}

// String returns the move in UCI format (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		switch m.Promotion {
		case Knight:
			s += "n"
		case Bishop:
			s += "b"
		case Rook:
			s += "r"
		case Queen:
			s += "q"
		}
	}
	return s
}

// ParseMove parses a UCI move string against a position so that castling
// and en passant are recognized.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	switch piece.Type() {
	case King:
		if abs(to.File()-from.File()) == 2 {
			return NewCastle(from, to), nil
		}
	case Pawn:
		if to == pos.EnPassant {
			return NewEnPassant(from, to), nil
		}
	}

	return NewMove(from, to), nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
