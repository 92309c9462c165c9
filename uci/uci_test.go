package uci

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"chessforge/board"
)

func TestParseGoLimitDepth(t *testing.T) {
	limit, err := parseGoLimit(strings.Fields("depth 6"), board.White)
	if err != nil {
		t.Fatalf("parseGoLimit: %v", err)
	}
	if limit.Depth != 6 {
		t.Fatalf("expected Depth 6, got %+v", limit)
	}
}

func TestParseGoLimitMoveTime(t *testing.T) {
	limit, err := parseGoLimit(strings.Fields("movetime 1500"), board.White)
	if err != nil {
		t.Fatalf("parseGoLimit: %v", err)
	}
	if limit.MoveTime != 1500*time.Millisecond {
		t.Fatalf("expected 1500ms MoveTime, got %+v", limit)
	}
}

func TestParseGoLimitInfinite(t *testing.T) {
	limit, err := parseGoLimit(strings.Fields("infinite"), board.White)
	if err != nil {
		t.Fatalf("parseGoLimit: %v", err)
	}
	if limit.Depth != 0 || limit.MoveTime != 0 {
		t.Fatalf("expected an unbounded limit for infinite, got %+v", limit)
	}
}

func TestParseGoLimitUsesSideToMoveClock(t *testing.T) {
	args := strings.Fields("wtime 60000 btime 30000 winc 100 binc 200")

	white, err := parseGoLimit(args, board.White)
	if err != nil {
		t.Fatalf("parseGoLimit: %v", err)
	}
	black, err := parseGoLimit(args, board.Black)
	if err != nil {
		t.Fatalf("parseGoLimit: %v", err)
	}
	if white.MoveTime == black.MoveTime {
		t.Fatalf("expected different budgets for unequal clocks, got white=%v black=%v", white.MoveTime, black.MoveTime)
	}
	if white.MoveTime <= 0 || black.MoveTime <= 0 {
		t.Fatalf("expected positive move time budgets, got white=%v black=%v", white.MoveTime, black.MoveTime)
	}
}

func TestParseGoLimitMalformedValueErrors(t *testing.T) {
	if _, err := parseGoLimit(strings.Fields("depth notanumber"), board.White); err == nil {
		t.Fatalf("expected an error for a non-numeric depth argument")
	}
}

func TestHandlePositionStartposWithMoves(t *testing.T) {
	a := NewAdapter(&bytes.Buffer{})
	if err := a.handlePosition(strings.Fields("startpos moves e2e4 e7e5")); err != nil {
		t.Fatalf("handlePosition: %v", err)
	}
	if a.pos.SideToMove() != board.White {
		t.Fatalf("expected white to move after two half-moves, got %v", a.pos.SideToMove())
	}
}

func TestHandlePositionFEN(t *testing.T) {
	a := NewAdapter(&bytes.Buffer{})
	fen := "4k3/8/8/3r4/8/5B2/8/4K3 w - - 0 1"
	if err := a.handlePosition(append([]string{"fen"}, strings.Fields(fen)...)); err != nil {
		t.Fatalf("handlePosition: %v", err)
	}
	if a.pos.SideToMove() != board.White {
		t.Fatalf("expected white to move, got %v", a.pos.SideToMove())
	}
}

func TestHandlePositionRejectsIllegalMove(t *testing.T) {
	a := NewAdapter(&bytes.Buffer{})
	err := a.handlePosition(strings.Fields("startpos moves e2e5"))
	if err == nil {
		t.Fatalf("expected an error for an illegal move in the moves list")
	}
}

func TestAdapterGoProducesBestmove(t *testing.T) {
	var out bytes.Buffer
	a := NewAdapter(&out)
	if err := a.handlePosition(strings.Fields("fen 6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1")); err != nil {
		t.Fatalf("handlePosition: %v", err)
	}
	if err := a.handleGo(strings.Fields("depth 2")); err != nil {
		t.Fatalf("handleGo: %v", err)
	}

	select {
	case <-a.done:
	case <-time.After(10 * time.Second):
		t.Fatalf("search did not finish within the test timeout")
	}

	if !strings.Contains(out.String(), "bestmove") {
		t.Fatalf("expected a bestmove line in output, got %q", out.String())
	}
}

func TestAdapterRejectsOverlappingGo(t *testing.T) {
	var out bytes.Buffer
	a := NewAdapter(&out)
	if err := a.handleGo(strings.Fields("depth 10")); err != nil {
		t.Fatalf("handleGo: %v", err)
	}

	if err := a.handle("go depth 1"); err == nil {
		t.Fatalf("expected an error when a search is already in flight")
	}

	a.handle("stop")
	select {
	case <-a.done:
	case <-time.After(10 * time.Second):
		t.Fatalf("search did not stop within the test timeout")
	}
}
