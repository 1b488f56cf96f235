package poker

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck represents a standard 52-card deck. Cards are only ever removed from
// the front, so Dealt()+Remaining() is always DeckSize.
type Deck struct {
	cards [DeckSize]Card
	next  int
}

// NewDeck creates a new deck shuffled with the given random source.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{}
	d.fillCanonical()
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// NewOrderedDeck creates a deck whose first cards are top, in order, followed
// by the remaining cards in canonical order. Used to stack the deck in tests.
func NewOrderedDeck(top ...Card) (*Deck, error) {
	d := &Deck{}
	var used [DeckSize]bool
	for i, c := range top {
		if !c.Valid() {
			return nil, fmt.Errorf("invalid card at position %d", i)
		}
		if used[c.index()] {
			return nil, fmt.Errorf("duplicate card %s", c)
		}
		used[c.index()] = true
		d.cards[i] = c
	}

	i := len(top)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := Card{Rank: rank, Suit: suit}
			if used[c.index()] {
				continue
			}
			d.cards[i] = c
			i++
		}
	}
	return d, nil
}

func (d *Deck) fillCanonical() {
	i := 0
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards[i] = Card{Rank: rank, Suit: suit}
			i++
		}
	}
}

// Draw removes and returns the next n cards.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 0 || n > d.Remaining() {
		return nil, fmt.Errorf("draw %d with %d remaining: %w", n, d.Remaining(), ErrDeckExhausted)
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return DeckSize - d.next
}

// Dealt returns the number of cards already removed from the deck.
func (d *Deck) Dealt() int {
	return d.next
}
