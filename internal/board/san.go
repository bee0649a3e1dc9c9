package board

import "strings"

// SAN returns the Standard Algebraic Notation for a legal move in this
// position, including check (+) and mate (#) suffixes.
func (p *Position) SAN(m Move) string {
	var sb strings.Builder

	switch {
	case m.IsCastle():
		if m.To.File() > m.From.File() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	default:
		piece := p.PieceAt(m.From)
		capture := m.IsCapture(p)

		if piece.Type() == Pawn {
			if capture {
				sb.WriteByte(byte('a' + m.From.File()))
			}
		} else {
			sb.WriteString(piece.Type().Letter())
			sb.WriteString(p.disambiguate(m, piece))
		}

		if capture {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteString(m.Promotion.Letter())
		}
	}

	// Check and mate suffixes require looking at the resulting position.
	u := p.MakeMove(m)
	if p.InCheck() {
		if p.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	p.UnmakeMove(m, u)

	return sb.String()
}

// disambiguate returns the file and/or rank needed to distinguish the
// moving piece from others of the same type that can reach the same
// destination.
func (p *Position) disambiguate(m Move, piece Piece) string {
	sameFile, sameRank, ambiguous := false, false, false

	for _, other := range p.LegalMoves() {
		if other.From == m.From || other.To != m.To {
			continue
		}
		if p.PieceAt(other.From) != piece {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(byte('a' + m.From.File()))
	case !sameRank:
		return string(byte('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}
