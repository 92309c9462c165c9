package board

// MoveState holds everything needed to undo a single MakeMove call. It is
// returned by value so callers (movegen, search) own their own undo stack;
// Board itself stores no history, keeping it a flat value type (see Clone).
type MoveState struct {
	move          Move
	mover         Color
	movedPiece    Piece
	capturedPiece Piece
	captureSquare Square
	rookFrom      Square
	rookTo        Square

	prevCastlingRights CastlingRights
	prevEPSquare       Square
	prevHalfmoveClock  int
	prevFullmoveNumber int
	prevZobristKey     uint64
	prevMaterialMG     int32
	prevMaterialEG     int32
	prevPSTMG          int32
	prevPSTEG          int32
	prevPhase          int
}

// NullState holds everything needed to undo a MakeNullMove call.
type NullState struct {
	prevEPSquare      Square
	prevHalfmoveClock int
	prevSide          Color
	prevZobristKey    uint64
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var castleRookMove = map[Square][2]Square{
	6:  {7, 5},   // White king-side: h1->f1
	2:  {0, 3},   // White queen-side: a1->d1
	62: {63, 61}, // Black king-side: h8->f8
	58: {56, 59}, // Black queen-side: a8->d8
}

var cornerCastlingLoss = map[Square]CastlingRights{
	0:  WhiteQueenSide,
	7:  WhiteKingSide,
	56: BlackQueenSide,
	63: BlackKingSide,
}

// MakeMove applies m to the board. It returns ok=false if the move leaves
// the mover's own king in check, in which case the board has already been
// fully restored and the caller must not also call UnmakeMove.
func (b *Board) MakeMove(m Move) (ok bool, undo MoveState) {
	us := b.sideToMove
	them := us.Other()
	from, to, flag := m.From(), m.To(), m.Flag()
	moved := b.pieces[from]

	undo = MoveState{
		move:               m,
		mover:              us,
		movedPiece:         moved,
		capturedPiece:      NoPiece,
		captureSquare:      NoSquare,
		rookFrom:           NoSquare,
		rookTo:             NoSquare,
		prevCastlingRights: b.castlingRights,
		prevEPSquare:       b.epSquare,
		prevHalfmoveClock:  b.halfmoveClock,
		prevFullmoveNumber: b.fullmoveNumber,
		prevZobristKey:     b.zobristKey,
		prevMaterialMG:     b.materialMG,
		prevMaterialEG:     b.materialEG,
		prevPSTMG:          b.pstMG,
		prevPSTEG:          b.pstEG,
		prevPhase:          b.phase,
	}

	if b.epSquare != NoSquare {
		b.zobristKey ^= zobristEPFile[b.epSquare.File()]
	}
	b.epSquare = NoSquare

	if flag == EPCapture {
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		undo.capturedPiece = b.removePiece(capSq)
		undo.captureSquare = capSq
	} else if flag.IsCapture() {
		undo.capturedPiece = b.removePiece(to)
		undo.captureSquare = to
	}

	b.removePiece(from)
	if pt := flag.PromotionType(); pt != NoPieceType {
		b.addPiece(to, MakePiece(us, pt))
	} else {
		b.addPiece(to, moved)
	}

	if flag.IsCastle() {
		rk := castleRookMove[to]
		undo.rookFrom, undo.rookTo = rk[0], rk[1]
		rook := b.removePiece(rk[0])
		b.addPiece(rk[1], rook)
	}

	newCR := b.castlingRights
	if moved.Type() == King {
		if us == White {
			newCR &^= WhiteKingSide | WhiteQueenSide
		} else {
			newCR &^= BlackKingSide | BlackQueenSide
		}
	}
	if loss, ok := cornerCastlingLoss[from]; ok {
		newCR &^= loss
	}
	if loss, ok := cornerCastlingLoss[to]; ok {
		newCR &^= loss
	}
	if newCR != b.castlingRights {
		b.zobristKey ^= zobristCastling[b.castlingRights]
		b.zobristKey ^= zobristCastling[newCR]
		b.castlingRights = newCR
	}

	if moved.Type() == Pawn && abs(int(to)-int(from)) == 16 {
		ep := from + 8
		if us == Black {
			ep = from - 8
		}
		b.epSquare = ep
		b.zobristKey ^= zobristEPFile[ep.File()]
	}

	b.sideToMove = them
	b.zobristKey ^= zobristSide

	if b.InCheck(us) {
		b.UnmakeMove(undo)
		return false, undo
	}

	if moved.Type() == Pawn || flag.IsCapture() {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}

	return true, undo
}

// UnmakeMove restores the board to the state before the MakeMove call that
// produced undo. Do not call this after a MakeMove that already returned
// ok=false; that call restored the board itself.
func (b *Board) UnmakeMove(undo MoveState) {
	m := undo.move
	from, to := m.From(), m.To()

	b.sideToMove = undo.mover

	b.removePiece(to)
	b.addPiece(from, undo.movedPiece)

	if undo.rookFrom != NoSquare {
		rook := b.removePiece(undo.rookTo)
		b.addPiece(undo.rookFrom, rook)
	}

	if undo.capturedPiece != NoPiece {
		b.addPiece(undo.captureSquare, undo.capturedPiece)
	}

	b.castlingRights = undo.prevCastlingRights
	b.epSquare = undo.prevEPSquare
	b.halfmoveClock = undo.prevHalfmoveClock
	b.fullmoveNumber = undo.prevFullmoveNumber

	// Overwrite the incremental terms from the snapshot rather than reversing
	// each XOR/add individually; this is the same belt-and-suspenders the
	// Zobrist key gets in the teacher's UnmakeMove, generalized to material/
	// PST/phase so an en-passant-plus-promotion combination can't drift them.
	b.zobristKey = undo.prevZobristKey
	b.materialMG, b.materialEG = undo.prevMaterialMG, undo.prevMaterialEG
	b.pstMG, b.pstEG = undo.prevPSTMG, undo.prevPSTEG
	b.phase = undo.prevPhase
}

// MakeNullMove switches the side to move without moving a piece, clearing
// any en-passant target. Used by null-move pruning in search.
func (b *Board) MakeNullMove() NullState {
	st := NullState{
		prevEPSquare:      b.epSquare,
		prevHalfmoveClock: b.halfmoveClock,
		prevSide:          b.sideToMove,
		prevZobristKey:    b.zobristKey,
	}
	if b.epSquare != NoSquare {
		b.zobristKey ^= zobristEPFile[b.epSquare.File()]
	}
	b.epSquare = NoSquare
	b.sideToMove = b.sideToMove.Other()
	b.zobristKey ^= zobristSide
	b.halfmoveClock++
	return st
}

// UnmakeNullMove restores the board to the state before MakeNullMove.
func (b *Board) UnmakeNullMove(st NullState) {
	b.epSquare = st.prevEPSquare
	b.halfmoveClock = st.prevHalfmoveClock
	b.sideToMove = st.prevSide
	b.zobristKey = st.prevZobristKey
}
