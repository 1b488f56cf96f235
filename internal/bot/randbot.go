package bot

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/game"
)

// RandBot checks or calls three times in four, otherwise folds or makes a
// minimum raise.
type RandBot struct {
	rng    *lockedRand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: newLockedRand(rng), logger: discardIfNil(logger)}
}

func (r *RandBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	if req.ToCall == 0 {
		if r.rng.Float64() < 0.75 {
			return game.Decision{Action: game.Check, Reasoning: "rand-bot checking"}, nil
		}
		return raiseTo(req, req.View.MinRaiseTo, "rand-bot min raise"), nil
	}

	if r.rng.Float64() < 0.75 {
		return game.Decision{Action: game.Call, Reasoning: "rand-bot calling"}, nil
	}
	if r.rng.Float64() < 0.75 {
		return game.Decision{Action: game.Fold, Reasoning: "rand-bot folding"}, nil
	}
	return raiseTo(req, req.View.MinRaiseTo, "rand-bot min raise"), nil
}
