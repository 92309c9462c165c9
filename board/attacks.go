package board

import "chessforge/attack"

// IsSquareAttacked reports whether any piece of color `by` attacks sq given
// the board's current occupancy. Used for legality (king safety),
// castling-through-check, and check detection, per spec §4.1.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.isSquareAttackedWithOcc(sq, by, b.Occupied())
}

// isSquareAttackedWithOcc is the occupancy-parameterized form of
// IsSquareAttacked, which is its only caller and passes the board's own
// occupancy.
func (b *Board) isSquareAttackedWithOcc(sq Square, by Color, occ uint64) bool {
	s := int(sq)
	if attack.PawnAttacks[by.Other()][s]&b.pawns[by] != 0 {
		return true
	}
	if attack.KnightAttacks[s]&b.knights[by] != 0 {
		return true
	}
	if attack.KingAttacks[s]&b.kings[by] != 0 {
		return true
	}
	rq := b.rooks[by] | b.queens[by]
	if rq != 0 && attack.RookAttacks(s, occ)&rq != 0 {
		return true
	}
	bq := b.bishops[by] | b.queens[by]
	if bq != 0 && attack.BishopAttacks(s, occ)&bq != 0 {
		return true
	}
	return false
}
