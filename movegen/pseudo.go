package movegen

import (
	"chessforge/attack"
	"chessforge/board"
)

// GeneratePseudoLegal emits every move obeying piece-movement rules but not
// yet filtered for king safety. capturesOnly restricts pawns/pieces to
// captures and promotions (the quiescence generator).
func GeneratePseudoLegal(b *board.Board, dst []board.Move, capturesOnly bool) []board.Move {
	dst = dst[:0]
	us := b.SideToMove()
	them := us.Other()
	own := b.ColorBitboard(us)
	enemy := b.ColorBitboard(them)
	occ := own | enemy

	dst = genPawnMoves(b, us, enemy, occ, dst, capturesOnly)
	dst = genLeaper(b.PieceBitboard(us, board.Knight), attack.KnightAttacks[:], own, enemy, dst, capturesOnly)
	dst = genSlider(b.PieceBitboard(us, board.Bishop), attack.BishopAttacks, occ, own, enemy, dst, capturesOnly)
	dst = genSlider(b.PieceBitboard(us, board.Rook), attack.RookAttacks, occ, own, enemy, dst, capturesOnly)
	dst = genSlider(b.PieceBitboard(us, board.Queen), attack.QueenAttacks, occ, own, enemy, dst, capturesOnly)
	dst = genLeaper(b.PieceBitboard(us, board.King), attack.KingAttacks[:], own, enemy, dst, capturesOnly)
	if !capturesOnly {
		dst = genCastles(b, us, occ, dst)
	}
	return dst
}

func genLeaper(pieces uint64, table []uint64, own, enemy uint64, dst []board.Move, capturesOnly bool) []board.Move {
	it := bitIterator(pieces)
	for it.hasNext() {
		from := it.next()
		targets := table[from] &^ own
		if capturesOnly {
			targets &= enemy
		}
		tIt := bitIterator(targets)
		for tIt.hasNext() {
			to := tIt.next()
			flag := board.Quiet
			if enemy&(uint64(1)<<uint(to)) != 0 {
				flag = board.Capture
			}
			dst = append(dst, board.NewMove(board.Square(from), board.Square(to), flag))
		}
	}
	return dst
}

func genSlider(pieces uint64, attacks func(int, uint64) uint64, occ, own, enemy uint64, dst []board.Move, capturesOnly bool) []board.Move {
	it := bitIterator(pieces)
	for it.hasNext() {
		from := it.next()
		targets := attacks(from, occ) &^ own
		if capturesOnly {
			targets &= enemy
		}
		tIt := bitIterator(targets)
		for tIt.hasNext() {
			to := tIt.next()
			flag := board.Quiet
			if enemy&(uint64(1)<<uint(to)) != 0 {
				flag = board.Capture
			}
			dst = append(dst, board.NewMove(board.Square(from), board.Square(to), flag))
		}
	}
	return dst
}

var promoFlags = [4]board.Flag{board.PromoN, board.PromoB, board.PromoR, board.PromoQ}
var promoCaptureFlags = [4]board.Flag{board.PromoNCapture, board.PromoBCapture, board.PromoRCapture, board.PromoQCapture}

func genPawnMoves(b *board.Board, us board.Color, enemy, occ uint64, dst []board.Move, capturesOnly bool) []board.Move {
	pawns := b.PieceBitboard(us, board.Pawn)
	it := bitIterator(pawns)
	for it.hasNext() {
		from := it.next()
		sq := board.Square(from)
		rank := sq.Rank()

		var push, doublePushRank, promoRank int
		if us == board.White {
			push, doublePushRank, promoRank = from+8, 1, 7
		} else {
			push, doublePushRank, promoRank = from-8, 6, 0
		}

		if push >= 0 && push < 64 && occ&(uint64(1)<<uint(push)) == 0 {
			if board.Square(push).Rank() == promoRank {
				// A push to the back rank is tactical (it promotes) even when it
				// doesn't capture, so quiescence must see it too.
				for _, f := range promoFlags {
					dst = append(dst, board.NewMove(sq, board.Square(push), f))
				}
			} else if !capturesOnly {
				dst = append(dst, board.NewMove(sq, board.Square(push), board.Quiet))
				if rank == doublePushRank {
					var dbl int
					if us == board.White {
						dbl = from + 16
					} else {
						dbl = from - 16
					}
					if occ&(uint64(1)<<uint(dbl)) == 0 {
						dst = append(dst, board.NewMove(sq, board.Square(dbl), board.DoublePawnPush))
					}
				}
			}
		}

		capTargets := attack.PawnAttacks[us][from]
		cIt := bitIterator(capTargets)
		for cIt.hasNext() {
			to := cIt.next()
			toBit := uint64(1) << uint(to)
			toSq := board.Square(to)
			switch {
			case enemy&toBit != 0:
				if toSq.Rank() == promoRank {
					for _, f := range promoCaptureFlags {
						dst = append(dst, board.NewMove(sq, toSq, f))
					}
				} else {
					dst = append(dst, board.NewMove(sq, toSq, board.Capture))
				}
			case toSq == b.EPSquare():
				dst = append(dst, board.NewMove(sq, toSq, board.EPCapture))
			}
		}
	}
	return dst
}

func genCastles(b *board.Board, us board.Color, occ uint64, dst []board.Move) []board.Move {
	rights := b.CastlingRights()
	them := us.Other()
	if us == board.White {
		if rights&board.WhiteKingSide != 0 && occ&0x60 == 0 &&
			!b.IsSquareAttacked(4, them) && !b.IsSquareAttacked(5, them) && !b.IsSquareAttacked(6, them) {
			dst = append(dst, board.NewMove(4, 6, board.KingCastle))
		}
		if rights&board.WhiteQueenSide != 0 && occ&0x0E == 0 &&
			!b.IsSquareAttacked(4, them) && !b.IsSquareAttacked(3, them) && !b.IsSquareAttacked(2, them) {
			dst = append(dst, board.NewMove(4, 2, board.QueenCastle))
		}
	} else {
		if rights&board.BlackKingSide != 0 && occ&(0x60<<56) == 0 &&
			!b.IsSquareAttacked(60, them) && !b.IsSquareAttacked(61, them) && !b.IsSquareAttacked(62, them) {
			dst = append(dst, board.NewMove(60, 62, board.KingCastle))
		}
		if rights&board.BlackQueenSide != 0 && occ&(0x0E<<56) == 0 &&
			!b.IsSquareAttacked(60, them) && !b.IsSquareAttacked(59, them) && !b.IsSquareAttacked(58, them) {
			dst = append(dst, board.NewMove(60, 58, board.QueenCastle))
		}
	}
	return dst
}
