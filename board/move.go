package board

import "strings"

// Move is a 16-bit encoded chess move per spec §3:
//
//	bits 0..5   from square
//	bits 6..11  to square
//	bits 12..15 flag
//
// Captured piece, moved piece, and check status are never stored in the
// move itself; they are derived from the board when needed, the way
// goosemg's board-driven queries do it, keeping the word genuinely 16 bits
// rather than packing speculative metadata into it.
type Move uint16

// Flag occupies bits 12..15.
type Flag uint8

const (
	Quiet Flag = iota
	DoublePawnPush
	KingCastle
	QueenCastle
	Capture
	EPCapture
	PromoN
	PromoB
	PromoR
	PromoQ
	PromoNCapture
	PromoBCapture
	PromoRCapture
	PromoQCapture
	// NullMoveFlag marks the reserved null move (from==to==0, this flag).
	NullMoveFlag
)

const (
	moveFromMask = 0x003F
	moveToShift  = 6
	moveToMask   = 0x0FC0
	moveFlagBit  = 12
)

// NewMove packs a from/to/flag triple into a Move.
func NewMove(from, to Square, flag Flag) Move {
	return Move(uint16(from)&moveFromMask | (uint16(to)<<moveToShift)&moveToMask | uint16(flag)<<moveFlagBit)
}

// NullMove is the distinguished null move reserved for null-move pruning.
var NullMove = NewMove(0, 0, NullMoveFlag)

// From returns the source square.
func (m Move) From() Square { return Square(m & moveFromMask) }

// To returns the destination square.
func (m Move) To() Square { return Square((m & moveToMask) >> moveToShift) }

// Flag returns the move's flag bits.
func (m Move) Flag() Flag { return Flag(m >> moveFlagBit) }

// IsNull reports whether m is the reserved null move.
func (m Move) IsNull() bool { return m == NullMove }

// IsCapture reports whether the flag denotes any capturing move, including
// en-passant and promotion-captures.
func (f Flag) IsCapture() bool {
	switch f {
	case Capture, EPCapture, PromoNCapture, PromoBCapture, PromoRCapture, PromoQCapture:
		return true
	}
	return false
}

// IsPromotion reports whether the flag denotes a promotion (capturing or not).
func (f Flag) IsPromotion() bool {
	switch f {
	case PromoN, PromoB, PromoR, PromoQ, PromoNCapture, PromoBCapture, PromoRCapture, PromoQCapture:
		return true
	}
	return false
}

// PromotionType returns the promoted-to piece type, or NoPieceType if f is
// not a promotion flag.
func (f Flag) PromotionType() PieceType {
	switch f {
	case PromoN, PromoNCapture:
		return Knight
	case PromoB, PromoBCapture:
		return Bishop
	case PromoR, PromoRCapture:
		return Rook
	case PromoQ, PromoQCapture:
		return Queen
	}
	return NoPieceType
}

// IsCastle reports whether f is a king-side or queen-side castle.
func (f Flag) IsCastle() bool { return f == KingCastle || f == QueenCastle }

var promoLetter = map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}

// String renders m in long-algebraic form: "e2e4", "e7e8q". Per spec §6,
// this is the sole wire encoding for move I/O.
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	var sb strings.Builder
	sb.WriteString(m.From().String())
	sb.WriteString(m.To().String())
	if pt := m.Flag().PromotionType(); pt != NoPieceType {
		sb.WriteByte(promoLetter[pt])
	}
	return sb.String()
}

// ParseUCIMove parses "e2e4"/"e7e8Q" into a from/to/promotion triple. The
// flag bits (capture/castle/EP/double-push) depend on board context and are
// inferred from the position by Board.MoveFromUCI, not by this parser.
func ParseUCIMove(s string) (from, to Square, promo PieceType, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "0000" {
		return 0, 0, NoPieceType, nil
	}
	if len(s) != 4 && len(s) != 5 {
		return 0, 0, NoPieceType, errInvalidUCIMove
	}
	from, ok1 := SquareFromName(s[0:2])
	to, ok2 := SquareFromName(s[2:4])
	if !ok1 || !ok2 {
		return 0, 0, NoPieceType, errInvalidUCIMove
	}
	promo = NoPieceType
	if len(s) == 5 {
		pt, ok := PieceTypeFromLetter(s[4])
		if !ok {
			return 0, 0, NoPieceType, errInvalidUCIMove
		}
		promo = pt
	}
	return from, to, promo, nil
}
