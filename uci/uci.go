// Package uci implements the line-oriented protocol adapter spec'd in
// spec §6: new-game reset, position setup from startpos/FEN plus a move
// list, "go" with depth/movetime/infinite, and a terminating bestmove. One
// info record, for the deepest completed iteration, is printed when the
// search ends; earlier iterations are not reported.
//
// Grounded on CounterGo's uci/uciprotocol.go for the overall shape — a
// scanner loop dispatching fields[0] to a handler, a background goroutine
// running the search so "stop" can still be read while a search is in
// flight, and a done channel gating overlapping "go" commands — adapted
// from CounterGo's context.CancelFunc cancellation to this module's
// search.Searcher, which instead polls a shared atomic stop flag (spec
// §5). Command tokenizing (bufio.Scanner over os.Stdin, strings.Fields)
// and the setoption style follow Oliverans-GooseEngine's uci.go.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"chessforge/board"
	"chessforge/movegen"
	"chessforge/search"
	"chessforge/tt"
)

const (
	engineName   = "chessforge"
	engineAuthor = "chessforge contributors"

	// defaultMoveTimeMS is used for "go" with no depth/movetime/infinite
	// and no wtime/btime either (a bare "go").
	defaultMoveTimeMS = 5000
)

// Adapter drives a Searcher from UCI protocol text. It owns exactly one
// Board and one transposition table, matching spec §5's "each [concurrent]
// search must own its own Board and TT instance" — an Adapter never runs
// two searches at once.
type Adapter struct {
	out io.Writer

	pos   *board.Board
	table *tt.Table
	stop  *int32

	ttSizeMB int

	done chan struct{}
}

// NewAdapter constructs an Adapter writing protocol output to out.
func NewAdapter(out io.Writer) *Adapter {
	done := make(chan struct{})
	close(done)
	return &Adapter{
		out:      out,
		pos:      board.NewInitial(),
		table:    tt.New(tt.DefaultSizeMB),
		stop:     search.NewStopFlag(),
		ttSizeMB: tt.DefaultSizeMB,
		done:     done,
	}
}

// Run reads UCI commands from in until "quit" or in is exhausted.
func (a *Adapter) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "quit" {
			return
		}
		if err := a.handle(line); err != nil {
			fmt.Fprintln(a.out, "info string", err)
		}
	}
}

func (a *Adapter) handle(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	if command == "stop" {
		search.Stop(a.stop)
		return nil
	}

	select {
	case <-a.done:
	default:
		return errors.New("search still running")
	}

	switch command {
	case "uci":
		return a.handleUCI()
	case "isready":
		fmt.Fprintln(a.out, "readyok")
		return nil
	case "ucinewgame":
		a.pos = board.NewInitial()
		a.table.Clear()
		return nil
	case "position":
		return a.handlePosition(args)
	case "go":
		return a.handleGo(args)
	case "setoption":
		return a.handleSetOption(args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *Adapter) handleUCI() error {
	fmt.Fprintf(a.out, "id name %s\n", engineName)
	fmt.Fprintf(a.out, "id author %s\n", engineAuthor)
	fmt.Fprintf(a.out, "option name Hash type spin default %d min 1 max 4096\n", tt.DefaultSizeMB)
	fmt.Fprintln(a.out, "uciok")
	return nil
}

func (a *Adapter) handleSetOption(args []string) error {
	// "setoption name <id> value <x>"
	if len(args) < 4 || strings.ToLower(args[0]) != "name" {
		return errors.New("malformed setoption command")
	}
	nameIdx := 1
	valueIdx := -1
	for i := nameIdx; i < len(args); i++ {
		if strings.ToLower(args[i]) == "value" {
			valueIdx = i + 1
			break
		}
	}
	if valueIdx < 0 || valueIdx >= len(args) {
		return errors.New("malformed setoption command: missing value")
	}
	name := strings.Join(args[nameIdx:valueIdx-1], " ")
	value := strings.Join(args[valueIdx:], " ")

	switch strings.ToLower(name) {
	case "hash":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setoption Hash: %w", err)
		}
		a.ttSizeMB = size
		a.table = tt.New(size)
	default:
		return fmt.Errorf("unhandled option: %s", name)
	}
	return nil
}

func (a *Adapter) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("malformed position command")
	}

	movesIdx := indexOf(args, "moves")
	var fen string
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		end := len(args)
		if movesIdx >= 0 {
			end = movesIdx
		}
		if end <= 1 {
			return errors.New("malformed position command: empty fen")
		}
		fen = strings.Join(args[1:end], " ")
	default:
		return errors.New("unknown position subcommand")
	}

	b, err := board.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}

	if movesIdx >= 0 {
		for _, s := range args[movesIdx+1:] {
			m, err := b.MoveFromUCI(s)
			if err != nil {
				return fmt.Errorf("position: illegal move %s: %w", s, err)
			}
			legal := false
			for _, lm := range movegen.GenerateLegal(b) {
				if lm == m {
					legal = true
					break
				}
			}
			if !legal {
				return fmt.Errorf("position: illegal move %s", s)
			}
			if ok, _ := b.MakeMove(m); !ok {
				return fmt.Errorf("position: illegal move %s", s)
			}
		}
	}

	a.pos = b
	return nil
}

func indexOf(args []string, target string) int {
	for i, a := range args {
		if strings.ToLower(a) == target {
			return i
		}
	}
	return -1
}

// handleGo parses the "go" subcommand arguments into a search.Limit and
// launches the search in a background goroutine, so the scanner loop
// keeps reading (and can observe a later "stop") while the search runs.
func (a *Adapter) handleGo(args []string) error {
	limit, err := parseGoLimit(args, a.pos.SideToMove())
	if err != nil {
		return err
	}

	search.ClearStop(a.stop)
	a.done = make(chan struct{})
	done := a.done
	pos := a.pos
	searcher := search.NewSearcher(a.table, a.stop)

	go func() {
		defer close(done)
		result := searcher.Search(pos, limit)
		a.printInfo(result)
		if result.Aborted || result.BestMove.IsNull() {
			fmt.Fprintln(a.out, "bestmove 0000")
			return
		}
		fmt.Fprintf(a.out, "bestmove %s\n", result.BestMove)
	}()
	return nil
}

func (a *Adapter) printInfo(r search.Result) {
	if r.Aborted {
		return
	}
	nps := uint64(0)
	if r.TimeMS > 0 {
		nps = r.Nodes * 1000 / uint64(r.TimeMS)
	}
	var sb strings.Builder
	for i, m := range r.PV {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	fmt.Fprintf(a.out, "info depth %d score cp %d nodes %d time %d nps %d pv %s\n",
		r.DepthReached, r.ScoreCP, r.Nodes, r.TimeMS, nps, sb.String())
}

// parseGoLimit implements spec §6's "go" subset (depth N / movetime M /
// infinite) plus the wtime/btime/winc/binc clock-management fields a real
// UCI game clock sends, per Oliverans-GooseEngine's uci.go go-handling.
func parseGoLimit(args []string, side board.Color) (search.Limit, error) {
	var depth int
	var moveTimeMS int
	var wtime, btime, winc, binc int
	var infinite bool

	for i := 0; i < len(args); i++ {
		arg := strings.ToLower(args[i])
		needsValue := func() (int, error) {
			if i+1 >= len(args) {
				return 0, fmt.Errorf("go %s: missing value", arg)
			}
			i++
			return strconv.Atoi(args[i])
		}
		var v int
		var err error
		switch arg {
		case "infinite":
			infinite = true
			continue
		case "depth":
			v, err = needsValue()
			depth = v
		case "movetime":
			v, err = needsValue()
			moveTimeMS = v
		case "wtime":
			v, err = needsValue()
			wtime = v
		case "btime":
			v, err = needsValue()
			btime = v
		case "winc":
			v, err = needsValue()
			winc = v
		case "binc":
			v, err = needsValue()
			binc = v
		default:
			continue
		}
		if err != nil {
			return search.Limit{}, fmt.Errorf("go %s: %w", arg, err)
		}
	}

	if infinite {
		return search.Limit{}, nil
	}
	if depth > 0 {
		return search.Limit{Depth: depth}, nil
	}
	if moveTimeMS > 0 {
		return search.Limit{MoveTime: time.Duration(moveTimeMS) * time.Millisecond}, nil
	}

	remaining, inc := wtime, winc
	if side == board.Black {
		remaining, inc = btime, binc
	}
	if remaining > 0 {
		budget := remaining/20 + inc/2
		if budget < 50 {
			budget = 50
		}
		return search.Limit{MoveTime: time.Duration(budget) * time.Millisecond}, nil
	}

	return search.Limit{MoveTime: defaultMoveTimeMS * time.Millisecond}, nil
}
