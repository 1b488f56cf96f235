package poker

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrInvalidHandSize is returned when a hand has the wrong number of cards.
	ErrInvalidHandSize = errors.New("invalid hand size")
	// ErrInvalidCard is returned for out-of-range or repeated cards.
	ErrInvalidCard = errors.New("invalid card")
)

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (t HandType) String() string {
	if t > StraightFlush {
		return "Unknown"
	}
	return [...]string{
		"High Card", "Pair", "Two Pair", "Three of a Kind", "Straight",
		"Flush", "Full House", "Four of a Kind", "Straight Flush",
	}[t]
}

// HandRank is a totally ordered hand strength. Higher values are stronger and
// equal values are exact ties.
//
// Layout: bits 20-23 hold the HandType, followed by up to five 4-bit rank
// nibbles in decreasing significance (bits 16-19 down to 0-3).
type HandRank uint32

const typeShift = 20

// Type returns the category of the hand.
func (hr HandRank) Type() HandType {
	return HandType(hr >> typeShift)
}

// rankAt returns the i-th tie-breaking rank nibble.
func (hr HandRank) rankAt(i int) Rank {
	return Rank((hr >> (16 - 4*i)) & 0xF)
}

// String returns a human-readable hand description.
func (hr HandRank) String() string {
	r0, r1 := hr.rankAt(0), hr.rankAt(1)
	switch hr.Type() {
	case HighCard:
		return fmt.Sprintf("High Card, %s", r0.Name())
	case Pair:
		return fmt.Sprintf("Pair of %s", plural(r0))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", plural(r0), plural(r1))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", plural(r0))
	case Straight:
		return fmt.Sprintf("Straight, %s high", r0.Name())
	case Flush:
		return fmt.Sprintf("Flush, %s high", r0.Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", plural(r0), plural(r1))
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", plural(r0))
	case StraightFlush:
		if r0 == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s high", r0.Name())
	default:
		return "Unknown"
	}
}

func plural(r Rank) string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

// Evaluate7 ranks the best five-card hand out of exactly seven cards.
func Evaluate7(cards []Card) (HandRank, error) {
	if len(cards) != 7 {
		return 0, fmt.Errorf("expected 7 cards, got %d: %w", len(cards), ErrInvalidHandSize)
	}
	return Evaluate(cards)
}

// Evaluate ranks the best five-card hand out of five to seven cards.
func Evaluate(cards []Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("expected 5 to 7 cards, got %d: %w", len(cards), ErrInvalidHandSize)
	}
	var seen uint64
	for _, c := range cards {
		if !c.Valid() {
			return 0, fmt.Errorf("card %v: %w", c, ErrInvalidCard)
		}
		bit := uint64(1) << c.index()
		if seen&bit != 0 {
			return 0, fmt.Errorf("duplicate %s: %w", c, ErrInvalidCard)
		}
		seen |= bit
	}
	return evaluate(cards), nil
}

// evaluate works directly from per-suit rank masks and rank counts, which is
// equivalent to taking the best of every five-card subset.
func evaluate(cards []Card) HandRank {
	var suitMasks [4]uint16
	var counts [Ace + 1]uint8
	var rankMask uint16
	for _, c := range cards {
		bit := uint16(1) << c.Rank
		suitMasks[c.Suit] |= bit
		rankMask |= bit
		counts[c.Rank]++
	}

	// Seven cards can hold at most one five-card suit.
	var flushMask uint16
	for _, m := range suitMasks {
		if bits.OnesCount16(m) >= 5 {
			if high := straightHigh(m); high > 0 {
				return pack(StraightFlush, high)
			}
			flushMask = m
		}
	}

	var quads, trips, pairs []Rank
	for r := Ace; r >= Two; r-- {
		switch counts[r] {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
	}

	if len(quads) > 0 {
		return pack(FourOfAKind, append([]Rank{quads[0]}, topRanks(without(rankMask, quads[0]), 1)...)...)
	}

	if len(trips) > 0 && (len(trips) > 1 || len(pairs) > 0) {
		var pair Rank
		if len(trips) > 1 {
			pair = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pair {
			pair = pairs[0]
		}
		return pack(FullHouse, trips[0], pair)
	}

	if flushMask != 0 {
		return pack(Flush, topRanks(flushMask, 5)...)
	}

	if high := straightHigh(rankMask); high > 0 {
		return pack(Straight, high)
	}

	switch {
	case len(trips) > 0:
		return pack(ThreeOfAKind, append([]Rank{trips[0]}, topRanks(without(rankMask, trips[0]), 2)...)...)
	case len(pairs) >= 2:
		kicker := topRanks(without(rankMask, pairs[0], pairs[1]), 1)
		return pack(TwoPair, append([]Rank{pairs[0], pairs[1]}, kicker...)...)
	case len(pairs) == 1:
		return pack(Pair, append([]Rank{pairs[0]}, topRanks(without(rankMask, pairs[0]), 3)...)...)
	}

	return pack(HighCard, topRanks(rankMask, 5)...)
}

func pack(t HandType, ranks ...Rank) HandRank {
	hr := HandRank(t) << typeShift
	for i, r := range ranks {
		hr |= HandRank(r) << (16 - 4*i)
	}
	return hr
}

func without(mask uint16, ranks ...Rank) uint16 {
	for _, r := range ranks {
		mask &^= 1 << r
	}
	return mask
}

// topRanks returns the n highest ranks set in mask, highest first.
func topRanks(mask uint16, n int) []Rank {
	out := make([]Rank, 0, n)
	for len(out) < n && mask != 0 {
		top := bits.Len16(mask) - 1
		out = append(out, Rank(top))
		mask &^= 1 << top
	}
	return out
}

// straightHigh returns the top card of the best straight in the mask, or 0.
// The ace also plays low, so A-2-3-4-5 is a Five-high straight.
func straightHigh(mask uint16) Rank {
	if mask&(1<<Ace) != 0 {
		mask |= 1 << 1
	}
	for high := Ace; high >= Five; high-- {
		run := uint16(0x1F) << (high - 4)
		if mask&run == run {
			return high
		}
	}
	return 0
}

// CompareHands compares two hands and returns 1 if a wins, -1 if b wins, 0 for tie
func CompareHands(a, b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}
