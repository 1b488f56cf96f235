package bot

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/game"
)

// DefaultAggression is the maniac's betting frequency when none is given.
const DefaultAggression = 0.85

// ManiacBot is an extremely aggressive bot that shoves frequently. At
// aggression 1 it moves all-in at every decision.
type ManiacBot struct {
	rng        *lockedRand
	aggression float64
	logger     *log.Logger
}

// NewManiacBot creates a new ManiacBot instance. Aggression is clamped to
// (0, 1].
func NewManiacBot(rng *rand.Rand, aggression float64, logger *log.Logger) *ManiacBot {
	if aggression <= 0 {
		aggression = DefaultAggression
	}
	return &ManiacBot{
		rng:        newLockedRand(rng),
		aggression: min(aggression, 1),
		logger:     discardIfNil(logger),
	}
}

func (m *ManiacBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	if m.aggression >= 1 {
		return game.Decision{Action: game.AllIn, Reasoning: "maniac shove"}, nil
	}

	v := req.View
	if req.ToCall == 0 {
		if m.rng.Float64() >= m.aggression {
			return game.Decision{Action: game.Check, Reasoning: "maniac checking"}, nil
		}
		if req.Chips <= 20*v.BigBlind || m.rng.Float64() < 0.3 {
			return game.Decision{Action: game.AllIn, Reasoning: "maniac shove"}, nil
		}
		size := v.MinRaiseTo + (v.MaxRaiseTo-v.MinRaiseTo)*3/4
		return raiseTo(req, size, "maniac big raise"), nil
	}

	// Facing a bet: shove, call or fold, weighted by aggression.
	r := m.rng.Float64()
	switch {
	case r < m.aggression/2:
		return game.Decision{Action: game.AllIn, Reasoning: "maniac shove over bet"}, nil
	case r < m.aggression:
		return game.Decision{Action: game.Call, Reasoning: "maniac call"}, nil
	}
	return game.Decision{Action: game.Fold, Reasoning: "maniac fold"}, nil
}
