package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariant marks engine defects: chip conservation failures, deck
// exhaustion and invalid hand sizes. They are never recovered from.
var ErrInvariant = errors.New("invariant violation")

// InvariantError carries the diagnostic state of a violated invariant.
type InvariantError struct {
	Round  int
	Street Street
	Detail string
	State  string // Stacks and contributions at the time of failure
	Err    error
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("%s in round %d (%s): %s", ErrInvariant, e.Round, e.Street, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.State != "" {
		msg += " [" + e.State + "]"
	}
	return msg
}

func (e *InvariantError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvariant}
	}
	return []error{ErrInvariant, e.Err}
}

func (h *Hand) invariant(detail string, err error) *InvariantError {
	return &InvariantError{
		Round:  h.round,
		Street: h.street,
		Detail: detail,
		State:  describeState(h.players),
		Err:    err,
	}
}

// checkConservation verifies stacks plus committed chips still add up to the
// chips the hand started with.
func (h *Hand) checkConservation(stage string) error {
	total := 0
	for _, p := range h.players {
		total += p.Chips + p.TotalBet
	}
	if total != h.startTotal {
		return h.invariant(fmt.Sprintf("after %s: chip conservation violation: expected %d total chips, but found %d (difference: %d)",
			stage, h.startTotal, total, total-h.startTotal), nil)
	}
	return nil
}

func describeState(players []*Player) string {
	parts := make([]string, len(players))
	for i, p := range players {
		flags := ""
		if p.Folded {
			flags += " folded"
		}
		if p.AllIn {
			flags += " allin"
		}
		parts[i] = fmt.Sprintf("%s chips=%d bet=%d total=%d%s", p.Name, p.Chips, p.Bet, p.TotalBet, flags)
	}
	return strings.Join(parts, "; ")
}
