package board

import (
	"strconv"
	"strings"
)

// ParseFEN parses a strict, exactly-6-field FEN string per spec §6/§7.
// Piece-placement rows must each sum to exactly 8 squares; side-to-move,
// castling, and en-passant tokens are validated; and the resulting
// position is checked against invariants I1-I4 plus the "side not to move
// is not in check" rule before it is returned.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, invalidFEN("fields", "FEN must have exactly 6 whitespace-separated fields")
	}

	b := &Board{epSquare: NoSquare}
	for i := range b.pieces {
		b.pieces[i] = NoPiece
	}

	if err := parsePlacement(b, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, invalidFEN("side to move", "must be 'w' or 'b'")
	}

	if err := parseCastling(b, fields[2]); err != nil {
		return nil, err
	}

	if err := parseEnPassant(b, fields[3]); err != nil {
		return nil, err
	}

	halfmove, err := strconv.Atoi(fields[4])
	if err != nil || halfmove < 0 {
		return nil, invalidFEN("halfmove clock", "must be a non-negative integer")
	}
	b.halfmoveClock = halfmove

	fullmove, err := strconv.Atoi(fields[5])
	if err != nil || fullmove < 1 {
		return nil, invalidFEN("fullmove number", "must be a positive integer")
	}
	b.fullmoveNumber = fullmove

	if err := validateInvariants(b); err != nil {
		return nil, err
	}

	b.zobristKey = b.ComputeZobrist()
	return b, nil
}

func parsePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return invalidFEN("piece placement", "must have 8 ranks separated by '/'")
	}
	for i, rankStr := range ranks {
		rankIdx := 7 - i
		file := 0
		for _, ch := range []byte(rankStr) {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := PieceFromLetter(ch)
			if !ok {
				return invalidFEN("piece placement", "unrecognized piece character '"+string(ch)+"'")
			}
			if file >= 8 {
				return invalidFEN("piece placement", "rank has more than 8 squares")
			}
			sq := Square(rankIdx*8 + file)
			if p.Type() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
				return invalidFEN("piece placement", "pawns cannot be on rank 1 or rank 8")
			}
			b.addPiece(sq, p)
			file++
		}
		if file != 8 {
			return invalidFEN("piece placement", "rank does not sum to 8 squares")
		}
	}
	return nil
}

func parseCastling(b *Board, s string) error {
	if s == "-" {
		return nil
	}
	for _, ch := range []byte(s) {
		switch ch {
		case 'K':
			b.castlingRights |= WhiteKingSide
		case 'Q':
			b.castlingRights |= WhiteQueenSide
		case 'k':
			b.castlingRights |= BlackKingSide
		case 'q':
			b.castlingRights |= BlackQueenSide
		default:
			return invalidFEN("castling rights", "must be a subset of 'KQkq' or '-'")
		}
	}
	return nil
}

func parseEnPassant(b *Board, s string) error {
	if s == "-" {
		b.epSquare = NoSquare
		return nil
	}
	sq, ok := SquareFromName(s)
	if !ok {
		return invalidFEN("en passant target", "must be a valid square or '-'")
	}
	if sq.Rank() != 2 && sq.Rank() != 5 {
		return invalidFEN("en passant target", "rank must be 3 or 6")
	}
	b.epSquare = sq
	return nil
}

// validateInvariants checks I1 (trivially true by construction here), I2,
// I3 (an en-passant target sits behind a pawn of the side that just moved),
// I4 (each castling right has its king and rook on their home squares),
// no-pawns-on-back-ranks (already checked during placement), and the
// "side not to move is not in check" rule from spec §7's InvalidFEN kinds.
func validateInvariants(b *Board) error {
	for _, c := range [2]Color{White, Black} {
		if b.kings[c] == 0 {
			return invalidFEN("pieces", "missing king for "+c.String())
		}
		if b.kings[c]&(b.kings[c]-1) != 0 {
			return invalidFEN("pieces", "more than one king for "+c.String())
		}
	}
	if ep := b.epSquare; ep != NoSquare {
		wantRank, pusher, pawnSq := 5, Black, ep-8
		if b.sideToMove == Black {
			wantRank, pusher, pawnSq = 2, White, ep+8
		}
		if ep.Rank() != wantRank || b.pieces[pawnSq] != MakePiece(pusher, Pawn) {
			return invalidFEN("en passant target", "does not follow a double push by the side that just moved")
		}
	}
	for _, h := range [4]struct {
		right      CastlingRights
		c          Color
		king, rook Square
	}{
		{WhiteKingSide, White, 4, 7}, {WhiteQueenSide, White, 4, 0},
		{BlackKingSide, Black, 60, 63}, {BlackQueenSide, Black, 60, 56},
	} {
		if b.castlingRights&h.right != 0 &&
			(b.pieces[h.king] != MakePiece(h.c, King) || b.pieces[h.rook] != MakePiece(h.c, Rook)) {
			return invalidFEN("castling rights", "right set without king and rook on their home squares")
		}
	}
	if b.InCheck(b.sideToMove.Other()) {
		return invalidFEN("position", "side not to move is in check")
	}
	return nil
}

// ToFEN renders the board back to FEN. Spec §4.2 requires
// from_fen(to_fen(b)) == b for all reachable b; ToFEN/ParseFEN round-trip
// byte-for-byte because both sides agree on field order and token form.
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := Square(rank*8 + file)
			p := b.pieces[sq]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(b.sideToMove.String())
	sb.WriteByte(' ')

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&WhiteKingSide != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&WhiteQueenSide != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&BlackKingSide != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&BlackQueenSide != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	if b.epSquare == NoSquare {
		sb.WriteByte('-')
	} else {
		sb.WriteString(b.epSquare.String())
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
