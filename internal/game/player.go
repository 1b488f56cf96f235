package game

import "github.com/lox/holdem-tourney/poker"

// Player is a seat at the table. Chips persist across hands; everything else
// is reset when a hand starts.
type Player struct {
	ID        int
	Name      string
	Tag       string // strategy tag, for reporting
	Chips     int
	HoleCards []poker.Card
	Folded    bool
	AllIn     bool
	Bet       int // Current bet in this street
	TotalBet  int // Total bet in the hand

	Provider ActionProvider
}

// NewPlayer creates a player with a starting stack.
func NewPlayer(id int, name, tag string, chips int, provider ActionProvider) *Player {
	return &Player{ID: id, Name: name, Tag: tag, Chips: chips, Provider: provider}
}

// CanAct returns true if the player can still make decisions this hand.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// InHand returns true if the player has not folded.
func (p *Player) InHand() bool {
	return !p.Folded
}

// Eliminated returns true once the player has no chips left.
func (p *Player) Eliminated() bool {
	return p.Chips == 0
}

func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.Folded = false
	p.AllIn = false
	p.Bet = 0
	p.TotalBet = 0
}

// commit moves up to amount chips from the stack into the current bet and
// returns what was actually paid.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	if amount < 0 {
		amount = 0
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}
