package bot

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/poker"
)

// HandStrength represents the relative strength of a hand
type HandStrength int

const (
	Weak HandStrength = iota
	Speculative
	Medium
	Strong
)

func (s HandStrength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Speculative:
		return "speculative"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	}
	return "unknown"
}

// HeuristicBot plays by hand strength: hole-card categories before the flop
// and the made hand afterwards, weighed against the bet-to-stack ratio.
type HeuristicBot struct {
	rng    *lockedRand
	logger *log.Logger
}

// NewHeuristicBot creates a new HeuristicBot instance
func NewHeuristicBot(rng *rand.Rand, logger *log.Logger) *HeuristicBot {
	return &HeuristicBot{rng: newLockedRand(rng), logger: discardIfNil(logger)}
}

func (h *HeuristicBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	strength := Strength(req.View.HoleCards, req.View.Board)
	ratio := betRatio(req)
	v := req.View

	h.logger.Debug("Bot decision analysis",
		"street", v.Street,
		"holeCards", poker.FormatCards(v.HoleCards),
		"handStrength", strength,
		"toCall", req.ToCall,
		"betRatio", ratio)

	switch strength {
	case Strong:
		if req.ToCall == 0 || ratio < 0.3 {
			return raiseTo(req, v.MinRaiseTo+v.BigBlind, "strong hand, raising"), nil
		}
		return game.Decision{Action: game.Call, Reasoning: "strong hand, calling a large bet"}, nil

	case Medium:
		switch {
		case req.ToCall == 0:
			if h.rng.Float64() < 0.6 {
				return game.Decision{Action: game.Check, Reasoning: "medium hand, checking"}, nil
			}
			return raiseTo(req, v.MinRaiseTo, "medium hand, small bet"), nil
		case ratio < 0.2:
			if h.rng.Float64() < 0.7 {
				return game.Decision{Action: game.Call, Reasoning: "medium hand, small bet"}, nil
			}
			return raiseTo(req, v.MinRaiseTo, "medium hand, raising a small bet"), nil
		case ratio < 0.4:
			return game.Decision{Action: game.Call, Reasoning: "medium hand, calling"}, nil
		}
		return game.Decision{Action: game.Fold, Reasoning: "medium hand, bet too large"}, nil

	case Speculative:
		if req.ToCall > 0 && ratio < 0.15 {
			return game.Decision{Action: game.Call, Reasoning: "speculative hand, cheap call"}, nil
		}
		return checkOrFold(req, "speculative hand"), nil
	}

	if req.ToCall > 0 && ratio < 0.1 && h.rng.Float64() < 0.3 {
		return game.Decision{Action: game.Call, Reasoning: "weak hand, floating a small bet"}, nil
	}
	return checkOrFold(req, "weak hand"), nil
}

// Strength classifies hole cards, using the board once there is one.
func Strength(hole, board []poker.Card) HandStrength {
	if len(hole) != 2 {
		return Weak
	}

	if len(board) == 0 {
		switch poker.CategorizeHoleCards(hole[0], hole[1]) {
		case poker.CategoryPremium, poker.CategoryStrong:
			return Strong
		case poker.CategoryMedium:
			return Medium
		case poker.CategoryWeak:
			return Speculative
		}
		return Weak
	}

	rank, err := poker.Evaluate(append(append([]poker.Card(nil), hole...), board...))
	if err != nil {
		return Weak
	}
	switch t := rank.Type(); {
	case t >= poker.ThreeOfAKind:
		return Strong
	case t == poker.TwoPair:
		return Medium
	case t == poker.Pair:
		return Speculative
	}
	return Weak
}
