package board

// Piece movement tables as (file, rank) displacements.
var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	bishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// IsAttacked reports whether the given square is attacked by any piece
// of the given color.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	// Pawn attacks. A white pawn attacks from one rank below.
	pawnRank := -1
	if by == Black {
		pawnRank = 1
	}
	for _, df := range [2]int{-1, 1} {
		if from := sq.offset(df, pawnRank); from != NoSquare {
			if pc := p.squares[from]; pc.Type() == Pawn && pc.Color() == by {
				return true
			}
		}
	}

	// Knight attacks.
	for _, o := range knightOffsets {
		if from := sq.offset(o[0], o[1]); from != NoSquare {
			if pc := p.squares[from]; pc.Type() == Knight && pc.Color() == by {
				return true
			}
		}
	}

	// King attacks.
	for _, o := range kingOffsets {
		if from := sq.offset(o[0], o[1]); from != NoSquare {
			if pc := p.squares[from]; pc.Type() == King && pc.Color() == by {
				return true
			}
		}
	}

	// Sliding attacks.
	if p.slidingAttack(sq, by, rookDirs, Rook) {
		return true
	}
	return p.slidingAttack(sq, by, bishopDirs, Bishop)
}

// slidingAttack walks each direction until blocked and checks whether the
// blocking piece is a slider of the given type (or a queen) of color by.
func (p *Position) slidingAttack(sq Square, by Color, dirs [4][2]int, slider PieceType) bool {
	for _, d := range dirs {
		for step := 1; ; step++ {
			to := sq.offset(d[0]*step, d[1]*step)
			if to == NoSquare {
				break
			}
			pc := p.squares[to]
			if pc == NoPiece {
				continue
			}
			if pc.Color() == by && (pc.Type() == slider || pc.Type() == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// PseudoLegalMoves generates all moves for the side to move without
// checking whether they leave the king in check.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	us := p.SideToMove

	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece || pc.Color() != us {
			continue
		}

		switch pc.Type() {
		case Pawn:
			moves = p.pawnMoves(moves, sq, us)
		case Knight:
			moves = p.stepMoves(moves, sq, us, knightOffsets)
		case Bishop:
			moves = p.slideMoves(moves, sq, us, bishopDirs[:])
		case Rook:
			moves = p.slideMoves(moves, sq, us, rookDirs[:])
		case Queen:
			moves = p.slideMoves(moves, sq, us, rookDirs[:])
			moves = p.slideMoves(moves, sq, us, bishopDirs[:])
		case King:
			moves = p.stepMoves(moves, sq, us, kingOffsets)
		}
	}

	return p.castleMoves(moves, us)
}

// pawnMoves appends pushes, captures, promotions and en passant for the
// pawn on sq.
func (p *Position) pawnMoves(moves []Move, sq Square, us Color) []Move {
	dir := 1
	startRank, promoRank := 1, 7
	if us == Black {
		dir = -1
		startRank, promoRank = 6, 0
	}

	appendPawn := func(from, to Square) []Move {
		if to.Rank() == promoRank {
			for _, promo := range [4]PieceType{Queen, Rook, Bishop, Knight} {
				moves = append(moves, NewPromotion(from, to, promo))
			}
		} else {
			moves = append(moves, NewMove(from, to))
		}
		return moves
	}

	// Single and double push.
	if one := sq.offset(0, dir); one != NoSquare && p.squares[one] == NoPiece {
		moves = appendPawn(sq, one)
		if sq.Rank() == startRank {
			if two := sq.offset(0, 2*dir); p.squares[two] == NoPiece {
				moves = append(moves, NewMove(sq, two))
			}
		}
	}

	// Captures and en passant.
	for _, df := range [2]int{-1, 1} {
		to := sq.offset(df, dir)
		if to == NoSquare {
			continue
		}
		if target := p.squares[to]; target != NoPiece && target.Color() != us {
			moves = appendPawn(sq, to)
		} else if to == p.EnPassant {
			moves = append(moves, NewEnPassant(sq, to))
		}
	}
	return moves
}

// stepMoves appends single-step moves (knight, king) from sq.
func (p *Position) stepMoves(moves []Move, sq Square, us Color, offsets [8][2]int) []Move {
	for _, o := range offsets {
		to := sq.offset(o[0], o[1])
		if to == NoSquare {
			continue
		}
		if target := p.squares[to]; target == NoPiece || target.Color() != us {
			moves = append(moves, NewMove(sq, to))
		}
	}
	return moves
}

// slideMoves appends sliding moves from sq along the given directions.
func (p *Position) slideMoves(moves []Move, sq Square, us Color, dirs [][2]int) []Move {
	for _, d := range dirs {
		for step := 1; ; step++ {
			to := sq.offset(d[0]*step, d[1]*step)
			if to == NoSquare {
				break
			}
			target := p.squares[to]
			if target == NoPiece {
				moves = append(moves, NewMove(sq, to))
				continue
			}
			if target.Color() != us {
				moves = append(moves, NewMove(sq, to))
			}
			break
		}
	}
	return moves
}

// castleMoves appends castling moves for the side to move. The squares
// the king crosses must be empty and not attacked.
func (p *Position) castleMoves(moves []Move, us Color) []Move {
	them := us.Other()

	type castle struct {
		right          CastlingRights
		king, to       Square
		empty, safe    []Square
	}

	var castles [2]castle
	if us == White {
		castles = [2]castle{
			{WhiteKingSide, E1, G1, []Square{F1, G1}, []Square{E1, F1, G1}},
			{WhiteQueenSide, E1, C1, []Square{B1, C1, D1}, []Square{E1, D1, C1}},
		}
	} else {
		castles = [2]castle{
			{BlackKingSide, E8, G8, []Square{F8, G8}, []Square{E8, F8, G8}},
			{BlackQueenSide, E8, C8, []Square{B8, C8, D8}, []Square{E8, D8, C8}},
		}
	}

next:
	for _, c := range castles {
		if p.Castling&c.right == 0 {
			continue
		}
		for _, sq := range c.empty {
			if p.squares[sq] != NoPiece {
				continue next
			}
		}
		for _, sq := range c.safe {
			if p.IsAttacked(sq, them) {
				continue next
			}
		}
		moves = append(moves, NewCastle(c.king, c.to))
	}
	return moves
}

// LegalMoves generates all legal moves for the side to move.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()
	legal := pseudo[:0]
	us := p.SideToMove

	for _, m := range pseudo {
		u := p.MakeMove(m)
		if !p.IsAttacked(p.kingSq[us], us.Other()) {
			legal = append(legal, m)
		}
		p.UnmakeMove(m, u)
	}
	return legal
}

// MovesFrom returns all legal moves originating from the given square.
func (p *Position) MovesFrom(sq Square) []Move {
	var moves []Move
	for _, m := range p.LegalMoves() {
		if m.From == sq {
			moves = append(moves, m)
		}
	}
	return moves
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	us := p.SideToMove
	for _, m := range p.PseudoLegalMoves() {
		u := p.MakeMove(m)
		ok := !p.IsAttacked(p.kingSq[us], us.Other())
		p.UnmakeMove(m, u)
		if ok {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// InsufficientMaterial reports whether neither side can possibly mate:
// bare kings, king and minor piece versus king, or same-colored bishops.
func (p *Position) InsufficientMaterial() bool {
	var minors []Square
	for sq := A1; sq <= H8; sq++ {
		switch p.squares[sq].Type() {
		case NoPieceType, King:
		case Knight, Bishop:
			minors = append(minors, sq)
			if len(minors) > 2 {
				return false
			}
		default:
			return false
		}
	}
	switch len(minors) {
	case 0, 1:
		return true
	default:
		a, b := p.squares[minors[0]], p.squares[minors[1]]
		if a.Type() != Bishop || b.Type() != Bishop || a.Color() == b.Color() {
			return false
		}
		// Opposite-colored kings' bishops on same square color cannot mate.
		shade := func(sq Square) int { return (sq.File() + sq.Rank()) & 1 }
		return shade(minors[0]) == shade(minors[1])
	}
}
