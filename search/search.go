// Package search implements the iterative-deepening negamax engine
// specified in spec §4.6: aspiration windows, reverse futility and
// null-move pruning, late-move reductions with a PVS re-search ladder,
// quiescence with delta pruning, and killer/history move ordering.
//
// Grounded on Oliverans-GooseEngine's engine/search.go (the alphabeta
// shape, the PVS re-search ladder in searchMoveWithPVS, the pruning
// margins) and CounterGo's engine/transpositiontable.go-driven probe/store
// discipline via this module's own tt package. Singular extensions,
// internal iterative deepening, SEE-based pruning, and late-move pruning
// from the teacher are deliberately not carried over; none of them is
// named by the search this package implements (see DESIGN.md).
package search

import (
	"time"

	"chessforge/board"
	"chessforge/eval"
	"chessforge/movegen"
	"chessforge/tt"
)

const (
	// Mate and mateThreshold mirror tt's constants; search and tt must
	// agree on what a "mate score" looks like for TT ply-adjustment.
	mate          = tt.Mate
	mateThreshold = tt.MateThreshold
	infinity      = mate + 1
	maxPly        = 64

	// checkNodeInterval is how often the node counter is polled for the
	// stop flag and deadline, per spec §4.6 "Termination" (N = 2048).
	checkNodeInterval = 2048
)

// rfpMargins and futilityMargins are spec §4.6 steps 5 and 9's fixed
// per-depth pruning margins (indices 1..3 and 1..2 respectively; index 0
// is unused).
var rfpMargins = [4]int{0, 200, 300, 500}
var futilityMargins = [3]int{0, 200, 400}

// Limit bounds one search: whichever of Depth or MoveTime fires first
// stops further deepening, per spec §4.6's public contract.
type Limit struct {
	Depth    int
	MoveTime time.Duration
}

// Result is the SearchResult the spec's public contract names.
type Result struct {
	BestMove     board.Move
	ScoreCP      int
	DepthReached int
	Nodes        uint64
	TimeMS       int64
	PV           []board.Move
	Aborted      bool
}

// Searcher owns one search's mutable state: a transposition table that may
// be preserved across invocations, plus the killer/history tables that are
// reset each call. Per spec §5, a Searcher is single-threaded and
// cooperative; concurrent searches must each own an independent Searcher,
// Board, and TT.
type Searcher struct {
	tt      *tt.Table
	killers killers
	history history

	stop *int32

	// path records the Zobrist key reached at each ply of the current
	// search line, so an in-search repetition can be detected even though
	// Board is mutated in place rather than cloned per node.
	path [maxPly + 1]uint64

	nodes     uint64
	startTime time.Time
	deadline  time.Time
	hasClock  bool
	aborted   bool
}

// NewSearcher wraps an existing transposition table. stop is an optional
// externally-set cancellation flag (spec §5's "shared atomic stop flag");
// pass nil to disable external cancellation.
func NewSearcher(table *tt.Table, stop *int32) *Searcher {
	return &Searcher{tt: table, stop: stop}
}

// Search runs iterative deepening from b until limit is satisfied or the
// stop flag is observed, per spec §4.6's top-level loop.
func (s *Searcher) Search(b *board.Board, limit Limit) Result {
	s.nodes = 0
	s.aborted = false
	s.killers.clear()
	s.history = history{}
	s.startTime = time.Now()
	s.hasClock = limit.MoveTime > 0
	if s.hasClock {
		s.deadline = s.startTime.Add(limit.MoveTime)
	}
	s.tt.NewSearch()

	maxDepth := limit.Depth
	if maxDepth <= 0 || maxDepth > maxPly {
		maxDepth = maxPly
	}

	var best Result
	var prevScore int
	const aspirationHalfWidth = 50

	for depth := 1; depth <= maxDepth; depth++ {
		alpha, beta := -infinity, infinity
		if depth >= 4 {
			alpha = prevScore - aspirationHalfWidth
			beta = prevScore + aspirationHalfWidth
		}

		var score int
		for {
			score = s.negamax(b, alpha, beta, depth, 0)
			if s.aborted {
				break
			}
			if score <= alpha {
				alpha = -infinity
				continue
			}
			if score >= beta {
				beta = infinity
				continue
			}
			break
		}

		if s.aborted {
			if depth == 1 {
				return Result{BestMove: board.NullMove, Aborted: true}
			}
			break
		}

		prevScore = score
		pv := s.extractPV(b, depth)
		bestMove := board.NullMove
		if len(pv) > 0 {
			bestMove = pv[0]
		}
		best = Result{
			BestMove:     bestMove,
			ScoreCP:      score,
			DepthReached: depth,
			Nodes:        s.nodes,
			TimeMS:       time.Since(s.startTime).Milliseconds(),
			PV:           pv,
		}

		if s.timeUp() {
			break
		}
		if score >= mateThreshold || score <= -mateThreshold {
			break
		}
	}

	return best
}

func (s *Searcher) timeUp() bool {
	return s.hasClock && time.Since(s.startTime) >= 0 && time.Now().After(s.deadline)
}

// checkStop polls the cancellation flag and deadline. Call sites gate this
// on the node counter (every checkNodeInterval nodes, per spec §4.6's
// "Termination") except at node 0, where it always runs so a stop flag set
// before Search was even called is observed on the very first node.
func (s *Searcher) checkStop() {
	if s.stop != nil && loadStop(s.stop) {
		s.aborted = true
		return
	}
	if s.timeUp() {
		s.aborted = true
	}
}

func (s *Searcher) pollStop() {
	if s.nodes%checkNodeInterval == 0 {
		s.checkStop()
	}
}

// extractPV walks the TT's best-move links from b's current position,
// per spec §4.6 step 4. It stops at an unusable/absent entry, a
// repetition, or a move the TT recommends that is no longer legal
// (a hash collision), never replaying more than depth plies.
func (s *Searcher) extractPV(b *board.Board, depth int) []board.Move {
	work := b.Clone()
	seen := map[uint64]bool{}
	var pv []board.Move
	for ply := 0; ply < depth; ply++ {
		key := work.Zobrist()
		if seen[key] {
			break
		}
		seen[key] = true

		_, move, _, _, found := s.tt.Probe(key, 0, -infinity, infinity, ply)
		if !found || move == board.NullMove {
			break
		}
		if !isLegal(&work, move) {
			break
		}
		ok, _ := work.MakeMove(move)
		if !ok {
			break
		}
		pv = append(pv, move)
	}
	return pv
}

func isLegal(b *board.Board, m board.Move) bool {
	for _, legal := range movegen.GenerateLegal(b) {
		if legal == m {
			return true
		}
	}
	return false
}

func hasNonPawnMaterial(b *board.Board, c board.Color) bool {
	return b.PieceBitboard(c, board.Knight)|b.PieceBitboard(c, board.Bishop)|
		b.PieceBitboard(c, board.Rook)|b.PieceBitboard(c, board.Queen) != 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// givesCheck reports whether making m leaves the opponent in check. It
// unmakes m before returning, so the board is left as it was; a move that
// MakeMove rejects reports false.
func givesCheck(b *board.Board, m board.Move) bool {
	ok, undo := b.MakeMove(m)
	if !ok {
		return false
	}
	check := b.InCheck(b.SideToMove())
	b.UnmakeMove(undo)
	return check
}

// negamax implements spec §4.6's negamax core. ply counts plies from the
// root (ply 0); depth is the remaining search depth, and quiescence takes
// over once it reaches 0.
func (s *Searcher) negamax(b *board.Board, alpha, beta, depth, ply int) int {
	s.pollStop()
	s.nodes++
	if s.aborted {
		return alpha
	}

	if depth <= 0 {
		return s.quiescence(b, alpha, beta, ply)
	}

	isRoot := ply == 0
	isPV := beta-alpha > 1

	key := b.Zobrist()
	if !isRoot {
		if b.HalfmoveClock() >= 100 {
			return 0
		}
		for p := ply - 2; p >= 0; p -= 2 {
			if s.path[p] == key {
				return 0
			}
		}
	}
	s.path[ply] = key

	inCheck := b.InCheck(b.SideToMove())

	var hashMove board.Move
	if score, move, _, usable, found := s.tt.Probe(key, depth, alpha, beta, ply); found {
		hashMove = move
		if usable && !isRoot {
			return score
		}
	}

	var staticEval int
	if !inCheck {
		staticEval = eval.Evaluate(b)
	}

	if !inCheck && !isPV && !isRoot && abs(beta) < mateThreshold && depth >= 1 && depth <= 3 {
		margin := rfpMargins[depth]
		if staticEval-margin >= beta {
			return staticEval
		}
	}

	if !inCheck && !isPV && !isRoot && depth >= 3 && staticEval >= beta &&
		hasNonPawnMaterial(b, b.SideToMove()) {
		const nullReduction = 2
		nullState := b.MakeNullMove()
		score := -s.negamax(b, -beta, -beta+1, depth-1-nullReduction, ply+1)
		b.UnmakeNullMove(nullState)
		if s.aborted {
			return alpha
		}
		if score >= beta {
			return beta
		}
	}

	moves := movegen.GenerateLegal(b)
	if len(moves) == 0 {
		if inCheck {
			return -mate + ply
		}
		return 0
	}

	ordered := s.orderMoves(b, moves, hashMove, ply)

	us := b.SideToMove()
	bestScore := -infinity
	var bestMove board.Move
	bound := tt.Upper

	for i, m := range ordered {
		isCapture := m.Flag().IsCapture()
		isPromotion := m.Flag().IsPromotion()
		moveGivesCheck := givesCheck(b, m)

		if !inCheck && !isPV && !isRoot && depth >= 1 && depth <= 2 &&
			!isCapture && !isPromotion && !moveGivesCheck {
			margin := futilityMargins[depth]
			if staticEval+margin <= alpha {
				continue
			}
		}

		extension := 0
		if moveGivesCheck {
			extension = 1
		}

		ok, undo := b.MakeMove(m)
		if !ok {
			continue
		}

		var score int
		newDepth := depth - 1 + extension
		quiet := !isCapture && !isPromotion

		switch {
		case i == 0:
			score = -s.negamax(b, -beta, -alpha, newDepth, ply+1)
		case i >= 4 && depth >= 3 && quiet && !moveGivesCheck && !inCheck:
			reduced := newDepth - 1
			if reduced < 1 {
				reduced = 1
			}
			score = -s.negamax(b, -alpha-1, -alpha, reduced, ply+1)
			if score > alpha && !s.aborted {
				score = -s.negamax(b, -alpha-1, -alpha, newDepth, ply+1)
				if score > alpha && score < beta && !s.aborted {
					score = -s.negamax(b, -beta, -alpha, newDepth, ply+1)
				}
			}
		default:
			score = -s.negamax(b, -beta, -alpha, newDepth, ply+1)
		}

		b.UnmakeMove(undo)
		if s.aborted {
			return alpha
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			bound = tt.Exact
		}
		if alpha >= beta {
			if quiet {
				s.killers.insert(ply, m)
				s.history.bump(us, m, depth)
			}
			s.tt.Store(key, m, depth, beta, tt.Lower, ply)
			return beta
		}
	}

	s.tt.Store(key, bestMove, depth, alpha, bound, ply)
	return alpha
}
