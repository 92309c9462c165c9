package tt_test

import (
	"testing"

	"chessforge/board"
	"chessforge/tt"
)

func TestProbeAfterStoreReturnsStoredEntry(t *testing.T) {
	table := tt.New(1)
	m := board.NewMove(12, 28, board.DoublePawnPush)
	table.Store(0xABCD1234, m, 6, 55, tt.Exact, 0)

	score, move, bound, usable, found := table.Probe(0xABCD1234, 6, -1000, 1000, 0)
	if !found {
		t.Fatalf("expected found after store")
	}
	if !usable {
		t.Fatalf("expected EXACT bound usable at any window")
	}
	if score != 55 || move != m || bound != tt.Exact {
		t.Fatalf("got score=%d move=%v bound=%v", score, move, bound)
	}
}

func TestProbeMissOnDifferentKey(t *testing.T) {
	table := tt.New(1)
	table.Store(1, board.NullMove, 4, 10, tt.Exact, 0)
	// A 1 MB table has 65536 slots, so key 1<<16|1 indexes the same slot as key 1.
	if _, _, _, _, found := table.Probe(1<<16|1, 4, -1000, 1000, 0); found {
		t.Fatalf("expected no hit for a different key in the same slot")
	}
}

func TestLowerBoundUsableOnlyAboveBeta(t *testing.T) {
	table := tt.New(1)
	table.Store(7, board.NullMove, 5, 100, tt.Lower, 0)

	if _, _, _, usable, _ := table.Probe(7, 5, -1000, 50, 0); !usable {
		t.Fatalf("expected LOWER bound usable when score >= beta")
	}
	if _, _, _, usable, _ := table.Probe(7, 5, -1000, 200, 0); usable {
		t.Fatalf("expected LOWER bound unusable when score < beta")
	}
}

func TestUpperBoundUsableOnlyBelowAlpha(t *testing.T) {
	table := tt.New(1)
	table.Store(9, board.NullMove, 5, -100, tt.Upper, 0)

	if _, _, _, usable, _ := table.Probe(9, 5, -50, 1000, 0); !usable {
		t.Fatalf("expected UPPER bound usable when score <= alpha")
	}
	if _, _, _, usable, _ := table.Probe(9, 5, -200, 1000, 0); usable {
		t.Fatalf("expected UPPER bound unusable when score > alpha")
	}
}

func TestShallowerDepthNotUsableEvenIfFound(t *testing.T) {
	table := tt.New(1)
	table.Store(3, board.NullMove, 2, 10, tt.Exact, 0)
	_, move, _, usable, found := table.Probe(3, 6, -1000, 1000, 0)
	if !found {
		t.Fatalf("expected found true (move still returned for ordering)")
	}
	if usable {
		t.Fatalf("expected not usable: stored depth 2 < requested depth 6")
	}
	if move != board.NullMove {
		t.Fatalf("expected stored move still returned for move ordering")
	}
}

func TestReplacementPolicyKeepsDeeperEntryWithinSameGeneration(t *testing.T) {
	table := tt.New(1)
	deepMove := board.NewMove(4, 12, board.Quiet)
	table.Store(1, deepMove, 10, 1, tt.Exact, 0)
	table.Store(1, board.NullMove, 3, 2, tt.Exact, 0)

	_, move, _, _, found := table.Probe(1, 0, -1000, 1000, 0)
	if !found || move != deepMove {
		t.Fatalf("expected the deeper same-generation entry to survive, got move=%v found=%v", move, found)
	}
}

func TestReplacementPolicyAllowsShallowerEntryFromNewerGeneration(t *testing.T) {
	table := tt.New(1)
	deepMove := board.NewMove(4, 12, board.Quiet)
	table.Store(1, deepMove, 10, 1, tt.Exact, 0)

	table.NewSearch()
	shallowMove := board.NewMove(6, 14, board.Quiet)
	table.Store(1, shallowMove, 3, 2, tt.Exact, 0)

	_, move, _, _, found := table.Probe(1, 0, -1000, 1000, 0)
	if !found || move != shallowMove {
		t.Fatalf("expected a newer-generation entry to replace a stale deeper one, got move=%v found=%v", move, found)
	}
}

func TestMateScoreNormalizationRoundTrips(t *testing.T) {
	table := tt.New(1)
	mateScore := tt.Mate - 4
	table.Store(5, board.NullMove, 8, mateScore, tt.Exact, 2)

	score, _, _, _, found := table.Probe(5, 8, -tt.Mate, tt.Mate, 6)
	if !found {
		t.Fatalf("expected found")
	}
	want := mateScore - 4 // stored at ply 2, probed at ply 6: net ply delta of 4
	if score != want {
		t.Fatalf("expected mate score re-relativized to the new ply: got %d want %d", score, want)
	}
}
