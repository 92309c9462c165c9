// Package movegen generates pseudo-legal and legal moves for a board.Board,
// classifies checkmate/stalemate, and runs perft node counts, per spec §4.3.
package movegen

import "math/bits"

// bitIterator consumes a bitboard by value, one set square per next call,
// the "extract lsb, clear it, repeat" pattern every piece loop below uses.
type bitIterator uint64

func (it *bitIterator) hasNext() bool { return *it != 0 }

func (it *bitIterator) next() int {
	sq := bits.TrailingZeros64(uint64(*it))
	*it &= *it - 1
	return sq
}
