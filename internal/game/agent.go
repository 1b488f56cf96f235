package game

import (
	"context"

	"github.com/lox/holdem-tourney/poker"
)

// Decision represents a player's decision with reasoning
type Decision struct {
	Action    Action
	Amount    int    // For raises, the total street bet to raise to
	Reasoning string // Human-readable explanation
}

// PlayerView is the public state of one seat.
type PlayerView struct {
	ID       int
	Name     string
	Chips    int
	Bet      int
	TotalBet int
	Folded   bool
	AllIn    bool
}

// TableView is what the acting player is allowed to see.
type TableView struct {
	Round      int
	Street     Street
	Seat       int // Index of the acting player in Players
	Button     int // Index of the button in Players
	HoleCards  []poker.Card
	Board      []poker.Card
	Pot        int // All chips committed this hand
	CurrentBet int
	MinRaiseTo int
	MaxRaiseTo int  // The acting player's stack plus street bet
	CanRaise   bool // False once raising has closed for the acting player
	SmallBlind int
	BigBlind   int
	Players    []PlayerView
}

// Self returns the acting player's public state.
func (v TableView) Self() PlayerView {
	return v.Players[v.Seat]
}

// DecisionRequest is handed to an ActionProvider at each decision point.
type DecisionRequest struct {
	View   TableView
	ToCall int // Chips needed to call, before capping at the stack
	Chips  int // The acting player's remaining stack
}

// ActionProvider decides actions for a player. Implementations must honour
// ctx cancellation; the engine stops waiting when the decision times out.
type ActionProvider interface {
	Decide(ctx context.Context, req DecisionRequest) (Decision, error)
}

// ProviderFunc adapts an ordinary function to ActionProvider.
type ProviderFunc func(ctx context.Context, req DecisionRequest) (Decision, error)

// Decide calls f(ctx, req).
func (f ProviderFunc) Decide(ctx context.Context, req DecisionRequest) (Decision, error) {
	return f(ctx, req)
}
