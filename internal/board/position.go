package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a bitmask of the castling options still available.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	if cr&WhiteKingSide != 0 {
		sb.WriteByte('K')
	}
	if cr&WhiteQueenSide != 0 {
		sb.WriteByte('Q')
	}
	if cr&BlackKingSide != 0 {
		sb.WriteByte('k')
	}
	if cr&BlackQueenSide != 0 {
		sb.WriteByte('q')
	}
	return sb.String()
}

// castlingMask maps a square to the castling rights lost when a piece
// moves from or to it.
var castlingMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	m[E1] = WhiteKingSide | WhiteQueenSide
	m[H1] = WhiteKingSide
	m[A1] = WhiteQueenSide
	m[E8] = BlackKingSide | BlackQueenSide
	m[H8] = BlackKingSide
	m[A8] = BlackQueenSide
	return m
}()

// Position is a complete chess position: piece placement plus the game
// state needed to generate and apply moves.
type Position struct {
	squares [64]Piece
	kingSq  [2]Square

	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // en passant target square, NoSquare if none
	HalfMoveClock  int    // half-moves since last pawn move or capture
	FullMoveNumber int

	// Hash is the Zobrist hash, maintained incrementally by MakeMove.
	Hash uint64
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy returns a deep copy of the position.
func (p *Position) Copy() *Position {
	cp := *p
	return &cp
}

// PieceAt returns the piece on the given square, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	return p.squares[sq]
}

// IsEmpty reports whether the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.squares[sq] == NoPiece
}

// KingSquare returns the square of the given side's king.
func (p *Position) KingSquare(c Color) Square {
	return p.kingSq[c]
}

// setPiece places a piece and updates the hash.
func (p *Position) setPiece(pc Piece, sq Square) {
	p.squares[sq] = pc
	p.Hash ^= zobristPiece[pc.Color()][pc.Type()][sq]
	if pc.Type() == King {
		p.kingSq[pc.Color()] = sq
	}
}

// clearSquare removes whatever occupies the square and updates the hash.
func (p *Position) clearSquare(sq Square) Piece {
	pc := p.squares[sq]
	if pc == NoPiece {
		return NoPiece
	}
	p.Hash ^= zobristPiece[pc.Color()][pc.Type()][sq]
	p.squares[sq] = NoPiece
	return pc
}

// Undo holds the state needed to take back a move.
type Undo struct {
	captured   Piece
	capturedSq Square
	castling   CastlingRights
	enPassant  Square
	halfMove   int
	hash       uint64
}

// MakeMove applies a move and returns the undo information. The move
// must be pseudo-legal for the side to move.
func (p *Position) MakeMove(m Move) Undo {
	u := Undo{
		captured:   NoPiece,
		capturedSq: NoSquare,
		castling:   p.Castling,
		enPassant:  p.EnPassant,
		halfMove:   p.HalfMoveClock,
		hash:       p.Hash,
	}

	us := p.SideToMove
	moving := p.squares[m.From]

	// Clear previous en passant state from the hash.
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	p.Hash ^= zobristCastling[p.Castling]

	p.HalfMoveClock++
	if moving.Type() == Pawn {
		p.HalfMoveClock = 0
	}

	// Remove captured piece.
	capSq := m.To
	if m.IsEnPassant() {
		if us == White {
			capSq = m.To - 8
		} else {
			capSq = m.To + 8
		}
	}
	if p.squares[capSq] != NoPiece {
		u.captured = p.clearSquare(capSq)
		u.capturedSq = capSq
		p.HalfMoveClock = 0
	}

	// Move the piece.
	p.clearSquare(m.From)
	if m.IsPromotion() {
		p.setPiece(NewPiece(m.Promotion, us), m.To)
	} else {
		p.setPiece(moving, m.To)
	}

	// Castling moves the rook as well.
	if m.IsCastle() {
		switch m.To {
		case G1:
			p.setPiece(p.clearSquare(H1), F1)
		case C1:
			p.setPiece(p.clearSquare(A1), D1)
		case G8:
			p.setPiece(p.clearSquare(H8), F8)
		case C8:
			p.setPiece(p.clearSquare(A8), D8)
		}
	}

	// Double pawn push sets the en passant target.
	if moving.Type() == Pawn && abs(int(m.To)-int(m.From)) == 16 {
		p.EnPassant = (m.From + m.To) / 2
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	p.Castling &^= castlingMask[m.From] | castlingMask[m.To]
	p.Hash ^= zobristCastling[p.Castling]

	p.SideToMove = us.Other()
	p.Hash ^= zobristSide
	if us == Black {
		p.FullMoveNumber++
	}

	return u
}

// UnmakeMove takes back a move previously applied with MakeMove.
func (p *Position) UnmakeMove(m Move, u Undo) {
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove
	if us == Black {
		p.FullMoveNumber--
	}

	// Move the piece back. Hash bookkeeping is unnecessary here because
	// the full hash is restored from the undo record below.
	if m.IsPromotion() {
		p.squares[m.To] = NoPiece
		p.squares[m.From] = NewPiece(Pawn, us)
	} else {
		pc := p.squares[m.To]
		p.squares[m.To] = NoPiece
		p.squares[m.From] = pc
		if pc.Type() == King {
			p.kingSq[us] = m.From
		}
	}

	if m.IsCastle() {
		switch m.To {
		case G1:
			p.squares[H1], p.squares[F1] = p.squares[F1], NoPiece
		case C1:
			p.squares[A1], p.squares[D1] = p.squares[D1], NoPiece
		case G8:
			p.squares[H8], p.squares[F8] = p.squares[F8], NoPiece
		case C8:
			p.squares[A8], p.squares[D8] = p.squares[D8], NoPiece
		}
	}

	if u.captured != NoPiece {
		p.squares[u.capturedSq] = u.captured
	}

	p.Castling = u.castling
	p.EnPassant = u.enPassant
	p.HalfMoveClock = u.halfMove
	p.Hash = u.hash
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsAttacked(p.kingSq[p.SideToMove], p.SideToMove.Other())
}

// Material returns the material balance in centipawns, positive for white.
func (p *Position) Material() int {
	score := 0
	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		if pc.Color() == White {
			score += pc.Value()
		} else {
			score -= pc.Value()
		}
	}
	return score
}

// Validate checks basic position invariants.
func (p *Position) Validate() error {
	kings := [2]int{}
	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		if pc.Type() == King {
			kings[pc.Color()]++
		}
		if pc.Type() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return fmt.Errorf("pawn on back rank at %s", sq)
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king, has %d", kings[White])
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king, has %d", kings[Black])
	}
	return nil
}

// String returns a printable board diagram with the game state.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			pc := p.squares[NewSquare(file, rank)]
			if pc == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(pc.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	return sb.String()
}

// ComputeHash recomputes the Zobrist hash from scratch. MakeMove keeps
// Hash up to date; this exists for verification.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		h ^= zobristPiece[pc.Color()][pc.Type()][sq]
	}
	h ^= zobristCastling[p.Castling]
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	if p.SideToMove == Black {
		h ^= zobristSide
	}
	return h
}
