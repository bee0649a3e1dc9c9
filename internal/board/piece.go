package board

// Color is the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType is the kind of a chess piece, independent of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// String returns the piece type name.
func (pt PieceType) String() string {
	names := [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if pt >= NoPieceType {
		return "None"
	}
	return names[pt]
}

// Letter returns the SAN letter for the piece type; empty for pawns.
func (pt PieceType) Letter() string {
	switch pt {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return ""
	}
}

// PieceValue is the material value of each piece type in centipawns.
var PieceValue = [6]int{100, 320, 330, 500, 900, 0}

// Piece combines a type and a color. Encoded as type in the low three
// bits, color in bit 3.
type Piece uint8

const (
	WhitePawn   = Piece(Pawn)
	WhiteKnight = Piece(Knight)
	WhiteBishop = Piece(Bishop)
	WhiteRook   = Piece(Rook)
	WhiteQueen  = Piece(Queen)
	WhiteKing   = Piece(King)
	BlackPawn   = Piece(Pawn) | colorBit
	BlackKnight = Piece(Knight) | colorBit
	BlackBishop = Piece(Bishop) | colorBit
	BlackRook   = Piece(Rook) | colorBit
	BlackQueen  = Piece(Queen) | colorBit
	BlackKing   = Piece(King) | colorBit
	NoPiece     = Piece(NoPieceType)

	colorBit Piece = 1 << 3
)

// NewPiece creates a piece from a type and color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c > Black {
		return NoPiece
	}
	p := Piece(pt)
	if c == Black {
		p |= colorBit
	}
	return p
}

// Type returns the piece type.
func (p Piece) Type() PieceType {
	return PieceType(p &^ colorBit)
}

// Color returns the piece color, or NoColor for NoPiece.
func (p Piece) Color() Color {
	if p.Type() == NoPieceType {
		return NoColor
	}
	if p&colorBit != 0 {
		return Black
	}
	return White
}

// String returns the FEN character for the piece, uppercase for white.
func (p Piece) String() string {
	if p.Type() == NoPieceType {
		return " "
	}
	chars := "PNBRQK"
	c := chars[p.Type()]
	if p.Color() == Black {
		c += 'a' - 'A'
	}
	return string(c)
}

// PieceFromChar converts a FEN character to a piece.
func PieceFromChar(b byte) Piece {
	color := White
	if b >= 'a' && b <= 'z' {
		color = Black
		b -= 'a' - 'A'
	}
	switch b {
	case 'P':
		return NewPiece(Pawn, color)
	case 'N':
		return NewPiece(Knight, color)
	case 'B':
		return NewPiece(Bishop, color)
	case 'R':
		return NewPiece(Rook, color)
	case 'Q':
		return NewPiece(Queen, color)
	case 'K':
		return NewPiece(King, color)
	default:
		return NoPiece
	}
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	if p.Type() >= NoPieceType {
		return 0
	}
	return PieceValue[p.Type()]
}
