package game

import (
	"fmt"
	"strings"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// ParseAction converts a wire name ("fold", "raise", "all_in", ...) to an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all_in", "all-in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// BettingRound tracks the betting state of one street.
type BettingRound struct {
	CurrentBet int // Highest street contribution
	MinRaise   int // Minimum raise increment
	LastRaiser int
	BigBlind   int // Store for resetting min raise on new streets

	acted    []bool
	canRaise []bool
}

// NewBettingRound creates a new betting round
func NewBettingRound(numPlayers, bigBlind int) *BettingRound {
	br := &BettingRound{
		BigBlind: bigBlind,
		acted:    make([]bool, numPlayers),
		canRaise: make([]bool, numPlayers),
	}
	br.ResetForStreet()
	return br
}

// ResetForStreet clears the street-level state. Blinds are posted on top of a
// fresh preflop round and do not count as acting.
func (br *BettingRound) ResetForStreet() {
	br.CurrentBet = 0
	br.MinRaise = br.BigBlind
	br.LastRaiser = -1
	for i := range br.acted {
		br.acted[i] = false
		br.canRaise[i] = true
	}
}

// ToCall returns the chips the player must add to match the street high.
func (br *BettingRound) ToCall(p *Player) int {
	if p.Bet >= br.CurrentBet {
		return 0
	}
	return br.CurrentBet - p.Bet
}

// MinRaiseTo returns the smallest legal raise-to amount.
func (br *BettingRound) MinRaiseTo() int {
	return br.CurrentBet + br.MinRaise
}

// CanRaise reports whether raising is open to the player in seat. It closes
// when the player has acted and only an incomplete all-in raise followed.
func (br *BettingRound) CanRaise(seat int) bool {
	return br.canRaise[seat]
}

// NeedsAction reports whether the player in seat still owes a decision.
func (br *BettingRound) NeedsAction(seat int, p *Player) bool {
	return p.CanAct() && (!br.acted[seat] || p.Bet < br.CurrentBet)
}

// IsComplete checks if betting is complete for this street.
func (br *BettingRound) IsComplete(players []*Player) bool {
	inHand, able := 0, 0
	var lone *Player
	for _, p := range players {
		if p.InHand() {
			inHand++
		}
		if p.CanAct() {
			able++
			lone = p
		}
	}

	switch {
	case inHand <= 1, able == 0:
		return true
	case able == 1 && lone.Bet >= highestOtherBet(players, lone):
		// Nobody left to bet against. A short all-in blind leaves CurrentBet
		// above anything actually wagered, so match what others put in.
		return true
	}

	for i, p := range players {
		if br.NeedsAction(i, p) {
			return false
		}
	}
	return true
}

func highestOtherBet(players []*Player, self *Player) int {
	high := 0
	for _, p := range players {
		if p != self && p.InHand() && p.Bet > high {
			high = p.Bet
		}
	}
	return high
}

// Normalize maps any requested decision onto the legal action closest to it:
//
//   - check facing a bet folds
//   - call with nothing to call checks, call for the whole stack goes all-in
//   - an undersized raise calls, a raise to the whole stack goes all-in
//   - a raise or all-in when raising is closed calls
//   - unknown actions are treated as check
//
// Amount on the result is the player's street total after the action.
func (br *BettingRound) Normalize(seat int, p *Player, d Decision) Decision {
	maxTo := p.Bet + p.Chips

	switch d.Action {
	case Fold:
		return Decision{Action: Fold}
	case Call:
		return br.callOrCheck(p)
	case Raise:
		if !br.CanRaise(seat) {
			return br.callOrCheck(p)
		}
		if d.Amount >= maxTo {
			return Decision{Action: AllIn, Amount: maxTo}
		}
		if d.Amount-br.CurrentBet < br.MinRaise {
			return br.callOrCheck(p)
		}
		return Decision{Action: Raise, Amount: d.Amount}
	case AllIn:
		if !br.CanRaise(seat) && maxTo > br.CurrentBet {
			return br.callOrCheck(p)
		}
		return Decision{Action: AllIn, Amount: maxTo}
	default: // Check and anything unrecognised
		if br.ToCall(p) > 0 {
			return Decision{Action: Fold}
		}
		return Decision{Action: Check}
	}
}

func (br *BettingRound) callOrCheck(p *Player) Decision {
	toCall := br.ToCall(p)
	switch {
	case toCall == 0:
		return Decision{Action: Check}
	case toCall >= p.Chips:
		return Decision{Action: AllIn, Amount: p.Bet + p.Chips}
	default:
		return Decision{Action: Call, Amount: br.CurrentBet}
	}
}

// Apply executes an already normalised decision and returns the chips paid.
func (br *BettingRound) Apply(seat int, p *Player, d Decision) int {
	paid := 0
	switch d.Action {
	case Fold:
		p.Folded = true
	case Check:
	case Call:
		paid = p.commit(br.CurrentBet - p.Bet)
	case Raise:
		paid = p.commit(d.Amount - p.Bet)
		br.raiseTo(seat, p.Bet)
	case AllIn:
		paid = p.commit(p.Chips)
		br.raiseTo(seat, p.Bet)
	}
	br.acted[seat] = true
	return paid
}

// raiseTo records a new street high. A full raise reopens the action for
// everyone; an incomplete all-in raise only makes the others call the extra.
func (br *BettingRound) raiseTo(seat, bet int) {
	if bet <= br.CurrentBet {
		return
	}
	increment := bet - br.CurrentBet
	br.CurrentBet = bet

	if increment >= br.MinRaise {
		br.MinRaise = increment
		br.LastRaiser = seat
		for i := range br.acted {
			if i != seat {
				br.acted[i] = false
				br.canRaise[i] = true
			}
		}
		return
	}

	for i := range br.acted {
		if i != seat && br.acted[i] {
			br.canRaise[i] = false
		}
	}
}
