// Package eval implements the tapered material + piece-square-table static
// evaluator, per spec §4.4. It reads only the incremental terms Board
// already maintains; there is no board-walk on the hot path.
package eval

import (
	"chessforge/board"
	"chessforge/psqt"
)

// EndgameMaterialThreshold gates the lazy endgame shortcut: once the
// material imbalance exceeds this many centipawns, positional refinement is
// dwarfed and pure material is returned.
const EndgameMaterialThreshold = 1500

// Evaluate returns a centipawn score from the side-to-move's perspective;
// positive favors the side to move.
func Evaluate(b *board.Board) int {
	material := int(b.MaterialMG())
	if abs(material) > EndgameMaterialThreshold {
		return perspective(b, material)
	}

	phase := b.Phase()
	if phase > psqt.MaxPhase {
		phase = psqt.MaxPhase
	}
	if phase < 0 {
		phase = 0
	}
	pst := (int(b.PSTMG())*phase + int(b.PSTEG())*(psqt.MaxPhase-phase)) / psqt.MaxPhase

	return perspective(b, material+pst)
}

// perspective negates a White-relative score when Black is to move, per
// spec §4.4's sign convention.
func perspective(b *board.Board, whiteScore int) int {
	if b.SideToMove() == board.Black {
		return -whiteScore
	}
	return whiteScore
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
