// Move ordering: hash move, then captures by MVV-LVA, then two killer
// moves per ply, then quiet moves by history score, per spec §4.6 step 8.
// Grounded on Oliverans-GooseEngine's engine/moveordering.go (the mvvLva
// table and offset scheme) and engine/killer.go (the two-slot killer
// table), reindexed from that repo's dragontoothmg.Piece numbering to this
// module's board.PieceType.
package search

import (
	"cmp"
	"slices"

	"chessforge/board"
	"chessforge/psqt"
)

// Ordering offsets, highest first. A hash move always outranks everything;
// captures outrank killers; killers outrank plain history-ordered quiets.
const (
	hashMoveScore = 1_000_000
	captureBase   = 500_000
	killerScore0  = 100_001
	killerScore1  = 100_000
)

// mvvLva[victim][attacker] mirrors the teacher's table shape (indexed by
// board.PieceType, Pawn..King = 0..5): higher victim value dominates, and
// among equal victims a cheaper attacker scores higher.
var mvvLva = [6][6]int32{
	board.Pawn:   {15, 14, 13, 12, 11, 10},
	board.Knight: {25, 24, 23, 22, 21, 20},
	board.Bishop: {35, 34, 33, 32, 31, 30},
	board.Rook:   {45, 44, 43, 42, 41, 40},
	board.Queen:  {55, 54, 53, 52, 51, 50},
	board.King:   {0, 0, 0, 0, 0, 0},
}

// killers holds two killer-move slots per ply, updated on a quiet-move beta
// cutoff.
type killers struct {
	moves [maxPly + 1][2]board.Move
}

// insert records m as the most recent killer at ply, demoting the previous
// slot-0 move to slot 1. A move already in slot 0 is not duplicated.
func (k *killers) insert(ply int, m board.Move) {
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

func (k *killers) clear() {
	for i := range k.moves {
		k.moves[i] = [2]board.Move{}
	}
}

// history accumulates depth² on a quiet move's beta cutoff, indexed
// [color][from][to], per spec §4.6's "Killer/history heuristics".
type history [2][64][64]int32

func (h *history) bump(c board.Color, m board.Move, depth int) {
	h[c][m.From()][m.To()] += int32(depth * depth)
}

func (h *history) score(c board.Color, m board.Move) int32 {
	return h[c][m.From()][m.To()]
}

type scoredMove struct {
	move  board.Move
	score int32
}

// attackerType returns the piece type moving m, for MVV-LVA attacker
// scoring.
func attackerType(b *board.Board, m board.Move) board.PieceType {
	return b.PieceOn(m.From()).Type()
}

// victimValue returns the captured piece's material value, or 0 for a
// non-capture.
func victimValue(b *board.Board, m board.Move) int {
	if m.Flag() == board.EPCapture {
		return psqt.PieceValueMG[board.Pawn]
	}
	captured := b.PieceOn(m.To())
	if captured == board.NoPiece {
		return 0
	}
	return psqt.PieceValueMG[captured.Type()]
}

// orderMoves scores moves per spec §4.6 step 8 and returns them sorted
// best-first. The hash/capture/promotion/killer prefix is selection-sorted
// one slot at a time (mirroring the teacher's orderNextMove, which only
// ever needs the next-best move rather than a full sort), and the quiet
// tail is bulk-sorted by history score with slices.SortFunc.
func (s *Searcher) orderMoves(b *board.Board, moves []board.Move, hashMove board.Move, ply int) []board.Move {
	scored := make([]scoredMove, len(moves))
	k := s.killers.moves[ply]
	us := b.SideToMove()

	for i, m := range moves {
		var sc int32
		switch {
		case m == hashMove:
			sc = hashMoveScore
		case m.Flag().IsPromotion():
			sc = captureBase + int32(psqt.PieceValueMG[m.Flag().PromotionType()])
		case m.Flag() == board.EPCapture:
			sc = captureBase + mvvLva[board.Pawn][board.Pawn]
		case m.Flag().IsCapture():
			sc = captureBase + mvvLva[b.PieceOn(m.To()).Type()][attackerType(b, m)]
		case m == k[0]:
			sc = killerScore0
		case m == k[1]:
			sc = killerScore1
		default:
			sc = s.history.score(us, m)
		}
		scored[i] = scoredMove{m, sc}
	}

	highWater := 0
	for i := range scored {
		if scored[i].score >= killerScore1 {
			scored[highWater], scored[i] = scored[i], scored[highWater]
			highWater++
		}
	}
	for i := 0; i < highWater; i++ {
		best := i
		for j := i + 1; j < highWater; j++ {
			if scored[j].score > scored[best].score {
				best = j
			}
		}
		scored[i], scored[best] = scored[best], scored[i]
	}

	quiet := scored[highWater:]
	slices.SortFunc(quiet, func(a, b scoredMove) int { return cmp.Compare(b.score, a.score) })

	out := make([]board.Move, len(scored))
	for i, sm := range scored {
		out[i] = sm.move
	}
	return out
}

// orderCaptures sorts a capture-only move list by MVV-LVA for quiescence
// search (spec §4.6 "Quiescence search" step 2).
func orderCaptures(b *board.Board, moves []board.Move) []board.Move {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		var sc int32
		if m.Flag() == board.EPCapture {
			sc = mvvLva[board.Pawn][board.Pawn]
		} else if m.Flag().IsCapture() {
			sc = mvvLva[b.PieceOn(m.To()).Type()][attackerType(b, m)]
		} else if m.Flag().IsPromotion() {
			sc = int32(psqt.PieceValueMG[m.Flag().PromotionType()])
		}
		scored[i] = scoredMove{m, sc}
	}
	slices.SortFunc(scored, func(a, b scoredMove) int { return cmp.Compare(b.score, a.score) })
	out := make([]board.Move, len(scored))
	for i, sm := range scored {
		out[i] = sm.move
	}
	return out
}
