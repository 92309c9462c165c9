package board

import "math/rand"

// Zobrist key tables, deterministic per spec §4.2 ("Keys are deterministic
// (fixed seed) for reproducibility and debuggability"). 793 keys total:
// 12x64 piece-square + 16 castling-rights-combination + 8 en-passant-file +
// 1 side-to-move = 768+16+8+1 = 793, matching the count in §4.2 (the "4
// castling-rights" there refers to the 4-bit castling field, whose 16
// possible values each need their own key — see DESIGN.md).
var (
	zobristPiece    [12][64]uint64 // indexed by (color*6 + pieceType), square
	zobristCastling [16]uint64
	zobristEPFile   [8]uint64
	zobristSide     uint64
)

// zobristSeed is fixed so that two processes (or a test and the engine
// under test) compute byte-identical hashes for the same position.
const zobristSeed = 0x5A3B9F1C2D4E6A77

func init() {
	rnd := rand.New(rand.NewSource(zobristSeed))
	for p := 0; p < 12; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastling[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEPFile[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// pieceZobristIndex maps (color, pieceType) to the zobristPiece row.
func pieceZobristIndex(c Color, pt PieceType) int { return int(c)*6 + int(pt) }

// ComputeZobrist recomputes the canonical hash from scratch (pieces, side,
// castling, en passant), used to validate the incrementally-maintained key
// (invariant I6) and after FEN parsing.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		pc := b.pieces[sq]
		if pc == NoPiece {
			continue
		}
		key ^= zobristPiece[pieceZobristIndex(pc.Color(), pc.Type())][sq]
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastling[b.castlingRights]
	if b.epSquare != NoSquare {
		key ^= zobristEPFile[b.epSquare.File()]
	}
	return key
}
