package tournament

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-tourney/internal/game"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid tournament config")

// Seat binds a player to its action provider.
type Seat struct {
	Name     string
	Tag      string // Strategy tag, for reporting
	Provider game.ActionProvider
}

// Config holds configuration for a single tournament.
type Config struct {
	Seats         []Seat
	StartingChips int
	SmallBlind    int
	BigBlind      int
	MaxRounds     int   // 0 plays until one player is left
	Seed          int64 // 0 picks a time-based seed

	DecisionTimeout time.Duration // 0 waits forever
	Logger          *log.Logger
	Clock           quartz.Clock

	// OnRound, if set, receives a summary after every round.
	OnRound func(RoundSummary)
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if len(c.Seats) < 2 {
		add("need at least 2 players, got %d", len(c.Seats))
	}
	names := make(map[string]bool, len(c.Seats))
	for i, s := range c.Seats {
		switch {
		case s.Name == "":
			add("seat %d has no name", i)
		case names[s.Name]:
			add("duplicate player name %q", s.Name)
		}
		names[s.Name] = true
		if s.Provider == nil {
			add("seat %d (%s) has no action provider", i, s.Name)
		}
	}

	if c.StartingChips <= 0 {
		add("starting chips must be positive, got %d", c.StartingChips)
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 {
		add("blinds must be positive, got %d/%d", c.SmallBlind, c.BigBlind)
	}
	if c.SmallBlind > c.BigBlind {
		add("small blind %d exceeds big blind %d", c.SmallBlind, c.BigBlind)
	}
	if c.StartingChips > 0 && c.BigBlind > c.StartingChips {
		add("big blind %d exceeds starting stack %d", c.BigBlind, c.StartingChips)
	}
	if c.MaxRounds < 0 {
		add("max rounds must not be negative, got %d", c.MaxRounds)
	}
	if c.DecisionTimeout < 0 {
		add("decision timeout must not be negative, got %s", c.DecisionTimeout)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
}

// CloseProviders closes every seat provider that holds resources.
func (c Config) CloseProviders() {
	for _, s := range c.Seats {
		if closer, ok := s.Provider.(io.Closer); ok {
			_ = closer.Close()
		}
	}
}
