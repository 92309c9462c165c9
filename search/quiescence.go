package search

import (
	"chessforge/board"
	"chessforge/eval"
	"chessforge/movegen"
	"chessforge/psqt"
)

// deltaMargin and deltaPromotionMargin implement spec §4.6's quiescence
// delta pruning ("stand_pat + captured_value + 200 < α (BIG_DELTA = 900)").
// The 200 cp margin covers ordinary captures; any promotion, capturing or
// not, is given the full BIG_DELTA allowance instead, since a pawn reaching the eighth
// rank can swing the position by far more than any single captured piece's
// value accounts for.
const (
	deltaMargin          = 200
	deltaPromotionMargin = 900
)

// quiescence implements spec §4.6's quiescence search: a stand-pat bound,
// then captures only, ordered by MVV-LVA, with delta pruning.
func (s *Searcher) quiescence(b *board.Board, alpha, beta, ply int) int {
	s.pollStop()
	s.nodes++
	if s.aborted {
		return alpha
	}

	standPat := eval.Evaluate(b)
	if standPat >= beta {
		return beta
	}
	if alpha < standPat {
		alpha = standPat
	}
	if ply >= maxPly {
		return alpha
	}

	captures := movegen.GenerateCaptures(b)
	ordered := orderCaptures(b, captures)

	for _, m := range ordered {
		margin := deltaMargin
		if m.Flag().IsPromotion() {
			margin = deltaPromotionMargin
		}
		gain := victimValue(b, m)
		if m.Flag().IsPromotion() {
			gain += psqt.PieceValueMG[m.Flag().PromotionType()] - psqt.PieceValueMG[board.Pawn]
		}
		if standPat+gain+margin < alpha {
			continue
		}

		ok, undo := b.MakeMove(m)
		if !ok {
			continue
		}
		score := -s.quiescence(b, -beta, -alpha, ply+1)
		b.UnmakeMove(undo)
		if s.aborted {
			return alpha
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
