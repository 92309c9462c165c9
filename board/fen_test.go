package board_test

import (
	"testing"

	"chessforge/board"
)

func TestParseFENStartPosition(t *testing.T) {
	b, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	a1, _ := board.SquareFromName("a1")
	e1, _ := board.SquareFromName("e1")
	a8, _ := board.SquareFromName("a8")
	e8, _ := board.SquareFromName("e8")

	if b.PieceOn(a1).Letter() != 'R' {
		t.Errorf("expected a1 white rook, got %q", b.PieceOn(a1).Letter())
	}
	if b.PieceOn(e1).Letter() != 'K' {
		t.Errorf("expected e1 white king, got %q", b.PieceOn(e1).Letter())
	}
	if b.PieceOn(a8).Letter() != 'r' {
		t.Errorf("expected a8 black rook, got %q", b.PieceOn(a8).Letter())
	}
	if b.PieceOn(e8).Letter() != 'k' {
		t.Errorf("expected e8 black king, got %q", b.PieceOn(e8).Letter())
	}
	if b.CastlingRights() != board.WhiteKingSide|board.WhiteQueenSide|board.BlackKingSide|board.BlackQueenSide {
		t.Errorf("expected all castling rights at start")
	}
	if b.EPSquare() != board.NoSquare {
		t.Errorf("expected no en passant target at start")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	}
	for _, fen := range fens {
		b, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := b.ToFEN(); got != fen {
			t.Errorf("round trip mismatch: got %q want %q", got, fen)
		}
	}
}

func TestParseFENRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0", // missing field
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN w KQkq - 0 1", // rank short
		"8/8/8/8/8/8/8/8 w - - 0 1",                               // no kings
		"k6K/8/8/8/8/8/8/8 w XYZ - 0 1",                           // bad castling token
		"pppppppp/8/8/8/8/8/8/8 w - - 0 1",                        // pawn on rank 8
	}
	for _, fen := range cases {
		if _, err := board.ParseFEN(fen); err == nil {
			t.Errorf("expected error parsing %q, got nil", fen)
		}
	}
}

func TestParseFENRejectsSideNotToMoveInCheck(t *testing.T) {
	// White just moved, but Black's king is left attacked by a rook with
	// nothing in between: this can't be a legal resting position.
	_, err := board.ParseFEN("3k3R/8/8/8/8/8/8/4K3 w - - 0 1")
	if err == nil {
		t.Fatalf("expected error for side-not-to-move in check")
	}
}
