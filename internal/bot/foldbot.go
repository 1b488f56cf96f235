package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/game"
)

// FoldBot is a simple bot that always folds (or checks when possible)
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: discardIfNil(logger)}
}

func (f *FoldBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	return checkOrFold(req, "fold-bot"), nil
}
