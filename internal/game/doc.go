// Package game implements a single hand of No-Limit Texas Hold'em.
//
// The main type is Hand, which deals cards, posts blinds, runs the betting
// state machine for each street, builds main and side pots from player
// contributions and pays them out at showdown.
//
// # Basic Usage
//
//	h, err := game.NewHand(game.HandConfig{
//		Round:      1,
//		Players:    players, // seat order, every player with chips
//		Button:     0,
//		SmallBlind: 5,
//		BigBlind:   10,
//		Deck:       poker.NewDeck(rng),
//		Log:        actionLog,
//	})
//	result, err := h.Play(ctx)
//
// Decisions come from each player's ActionProvider. Every decision is
// normalised to a legal action (see BettingRound.Normalize) and both the
// requested and the applied action are written to the ActionLog.
//
// # Invariants
//
// Chip conservation is checked after every applied action and after the
// payout. A violation, like a deck running out of cards, is returned as an
// *InvariantError and aborts the hand.
package game
