package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/game"
)

// CallBot is a calling station: it checks or calls every street.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: discardIfNil(logger)}
}

func (c *CallBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	return checkOrCall(req, "call-bot"), nil
}
