package movegen

import "chessforge/board"

// GenerateLegal returns every legal move in b: pseudo-legal generation
// followed by a make/unmake legality filter (own king must not end up in
// check), the approach spec §4.3 explicitly sanctions over pin-tracking.
func GenerateLegal(b *board.Board) []board.Move {
	pseudo := GeneratePseudoLegal(b, make([]board.Move, 0, 128), false)
	legal := make([]board.Move, 0, len(pseudo))
	for _, m := range pseudo {
		if ok, undo := b.MakeMove(m); ok {
			b.UnmakeMove(undo)
			legal = append(legal, m)
		}
	}
	return legal
}

// GenerateCaptures returns legal captures and promotions only, the move set
// quiescence search expands.
func GenerateCaptures(b *board.Board) []board.Move {
	pseudo := GeneratePseudoLegal(b, make([]board.Move, 0, 64), true)
	legal := make([]board.Move, 0, len(pseudo))
	for _, m := range pseudo {
		if ok, undo := b.MakeMove(m); ok {
			b.UnmakeMove(undo)
			legal = append(legal, m)
		}
	}
	return legal
}

// IsCheckmate reports whether the side to move has no legal moves and is
// currently in check.
func IsCheckmate(b *board.Board) bool {
	return b.InCheck(b.SideToMove()) && len(GenerateLegal(b)) == 0
}

// IsStalemate reports whether the side to move has no legal moves and is
// not in check.
func IsStalemate(b *board.Board) bool {
	return !b.InCheck(b.SideToMove()) && len(GenerateLegal(b)) == 0
}
