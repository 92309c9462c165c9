package eval_test

import (
	"testing"

	"chessforge/board"
	"chessforge/eval"
)

func TestEvaluateStartPositionIsSymmetric(t *testing.T) {
	b := board.NewInitial()
	if got := eval.Evaluate(b); got != 0 {
		t.Fatalf("expected 0 for symmetric start position, got %d", got)
	}
}

func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	b, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := eval.Evaluate(b); got <= 0 {
		t.Fatalf("expected positive score for White's extra rook, got %d", got)
	}
}

func TestEvaluateSideToMovePerspective(t *testing.T) {
	white, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	black, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if eval.Evaluate(white) != -eval.Evaluate(black) {
		t.Fatalf("expected evaluation to flip sign with side to move: white=%d black=%d",
			eval.Evaluate(white), eval.Evaluate(black))
	}
}

func TestEvaluateLazyEndgameShortcut(t *testing.T) {
	// White is up a queen and two rooks, comfortably over the 1500cp
	// threshold; Evaluate must fall back to material alone.
	b, err := board.ParseFEN("4k3/8/8/8/8/8/8/QR2KR2 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	got := eval.Evaluate(b)
	want := int(b.MaterialMG())
	if got != want {
		t.Fatalf("expected lazy material-only score %d, got %d", want, got)
	}
}
