package movegen_test

import (
	"testing"

	"chessforge/board"
	"chessforge/movegen"
)

func parseFEN(t *testing.T, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestPerftInitialPosition(t *testing.T) {
	b := parseFEN(t, board.StartFEN)
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, c := range cases {
		if got := movegen.Perft(b, c.depth); got != c.want {
			t.Errorf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	if got := movegen.Perft(b, 5); got != 4865609 {
		t.Errorf("perft depth 5: got %d want %d", got, 4865609)
	}
}

func TestPerftKiwipete(t *testing.T) {
	b := parseFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, c := range cases {
		if got := movegen.Perft(b, c.depth); got != c.want {
			t.Errorf("Kiwipete depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	if got := movegen.Perft(b, 5); got != 193690690 {
		t.Errorf("Kiwipete depth 5: got %d want %d", got, 193690690)
	}
}

func TestPerftPosition6(t *testing.T) {
	b := parseFEN(t, "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 46},
		{2, 2079},
		{3, 89890},
	}
	for _, c := range cases {
		if got := movegen.Perft(b, c.depth); got != c.want {
			t.Errorf("Position 6 depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	if got := movegen.Perft(b, 5); got != 164075551 {
		t.Errorf("Position 6 depth 5: got %d want %d", got, 164075551)
	}
}

func TestPerftEnPassantPosition(t *testing.T) {
	b := parseFEN(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if got := movegen.Perft(b, 1); got != 5 {
		t.Errorf("EP depth1: got %d want %d", got, 5)
	}
	if got := movegen.Perft(b, 2); got != 19 {
		t.Errorf("EP depth2: got %d want %d", got, 19)
	}
}

func TestPerftPromotionPosition(t *testing.T) {
	b := parseFEN(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	if got := movegen.Perft(b, 1); got != 11 {
		t.Errorf("promotion depth1: got %d want %d", got, 11)
	}
}

func TestCastlingThroughCheckForbidden(t *testing.T) {
	b := parseFEN(t, "r3k2r/8/8/8/8/5q2/8/R3K2R w KQkq - 0 1")
	moves := movegen.GenerateLegal(b)
	g1 := mustSquare(t, "g1")
	c1 := mustSquare(t, "c1")
	e1 := mustSquare(t, "e1")

	var sawKingSide, sawQueenSide bool
	for _, m := range moves {
		if m.From() == e1 && m.To() == g1 {
			sawKingSide = true
		}
		if m.From() == e1 && m.To() == c1 {
			sawQueenSide = true
		}
	}
	if sawKingSide {
		t.Errorf("expected king-side castle to be forbidden (f1 attacked)")
	}
	if sawQueenSide {
		t.Errorf("expected queen-side castle to be forbidden (d1 attacked along f3-e2-d1)")
	}
}

func mustSquare(t *testing.T, name string) board.Square {
	t.Helper()
	sq, ok := board.SquareFromName(name)
	if !ok {
		t.Fatalf("bad square name %q", name)
	}
	return sq
}

func TestEnPassantRegressionScenario(t *testing.T) {
	b := board.NewInitial()
	moves := []string{"e2e4", "d7d5", "e4e5", "f7f5"}
	for _, uci := range moves {
		m, err := b.MoveFromUCI(uci)
		if err != nil {
			t.Fatalf("MoveFromUCI(%q): %v", uci, err)
		}
		if ok, _ := b.MakeMove(m); !ok {
			t.Fatalf("MakeMove(%q) rejected", uci)
		}
	}
	if b.EPSquare() != mustSquare(t, "f6") {
		t.Fatalf("expected en passant target f6, got %v", b.EPSquare())
	}

	legal := movegen.GenerateLegal(b)
	var epMove board.Move
	var found bool
	for _, m := range legal {
		if m.Flag() == board.EPCapture {
			epMove = m
			found = true
		}
	}
	if !found {
		t.Fatalf("expected e5f6 en passant capture among legal moves")
	}

	ok, undo := b.MakeMove(epMove)
	if !ok {
		t.Fatalf("MakeMove(en passant) rejected")
	}
	f5 := mustSquare(t, "f5")
	f6 := mustSquare(t, "f6")
	if b.PieceOn(f5) != board.NoPiece {
		t.Errorf("expected f5 empty after en passant capture")
	}
	if b.PieceOn(f6).Letter() != 'P' {
		t.Errorf("expected white pawn on f6 after en passant capture")
	}
	if b.EPSquare() != board.NoSquare {
		t.Errorf("expected en passant square cleared after the capture")
	}

	b.UnmakeMove(undo)
	if b.PieceOn(f5).Letter() != 'p' {
		t.Errorf("expected black pawn restored on f5 after unmake")
	}
	if b.PieceOn(f6) != board.NoPiece {
		t.Errorf("expected f6 empty after unmake")
	}
	if b.EPSquare() != mustSquare(t, "f6") {
		t.Errorf("expected en passant square restored to f6 after unmake")
	}
}

func TestPromotionGeneratesAllFourPieces(t *testing.T) {
	b := parseFEN(t, "8/P7/8/8/8/8/8/4k2K w - - 0 1")
	moves := movegen.GenerateLegal(b)
	a7 := mustSquare(t, "a7")
	a8 := mustSquare(t, "a8")
	seen := map[board.Flag]bool{}
	for _, m := range moves {
		if m.From() == a7 && m.To() == a8 {
			seen[m.Flag()] = true
		}
	}
	for _, f := range []board.Flag{board.PromoQ, board.PromoR, board.PromoB, board.PromoN} {
		if !seen[f] {
			t.Errorf("expected promotion flag %v among a7a8 moves", f)
		}
	}
}

func TestCheckmateDetection(t *testing.T) {
	b := parseFEN(t, "6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1")
	m, err := b.MoveFromUCI("e1e8")
	if err != nil {
		t.Fatalf("MoveFromUCI: %v", err)
	}
	ok, _ := b.MakeMove(m)
	if !ok {
		t.Fatalf("MakeMove(e1e8) rejected")
	}
	if !movegen.IsCheckmate(b) {
		t.Fatalf("expected checkmate after e1e8")
	}
}

func TestStalemateDetection(t *testing.T) {
	b := parseFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := movegen.GenerateLegal(b); len(got) != 0 {
		t.Fatalf("expected no legal moves, got %d", len(got))
	}
	if !movegen.IsStalemate(b) {
		t.Fatalf("expected stalemate")
	}
}
