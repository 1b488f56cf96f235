package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-tourney/poker"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// passive checks when it can and calls otherwise.
var passive = ProviderFunc(func(_ context.Context, req DecisionRequest) (Decision, error) {
	if req.ToCall > 0 {
		return Decision{Action: Call}, nil
	}
	return Decision{Action: Check}, nil
})

// scripted replays a fixed list of decisions, then plays passively.
type scripted struct {
	mu        sync.Mutex
	decisions []Decision
	requests  []DecisionRequest
}

func script(decisions ...Decision) *scripted {
	return &scripted{decisions: decisions}
}

func (s *scripted) Decide(ctx context.Context, req DecisionRequest) (Decision, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	if len(s.decisions) == 0 {
		s.mu.Unlock()
		return passive.Decide(ctx, req)
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	s.mu.Unlock()
	return d, nil
}

func newPlayers(providers []ActionProvider, chips ...int) []*Player {
	players := make([]*Player, len(chips))
	for i, c := range chips {
		var provider ActionProvider = passive
		if i < len(providers) && providers[i] != nil {
			provider = providers[i]
		}
		players[i] = NewPlayer(i, string(rune('A'+i)), "test", c, provider)
	}
	return players
}

func stackedDeck(t *testing.T, cards string) *poker.Deck {
	t.Helper()
	top, err := poker.ParseCards(cards)
	require.NoError(t, err)
	d, err := poker.NewOrderedDeck(top...)
	require.NoError(t, err)
	return d
}

type handOption func(*HandConfig)

func withButton(b int) handOption {
	return func(c *HandConfig) { c.Button = b }
}

func withDeck(d *poker.Deck) handOption {
	return func(c *HandConfig) { c.Deck = d }
}

func withLog(l *ActionLog) handOption {
	return func(c *HandConfig) { c.Log = l }
}

func withClock(clock quartz.Clock, timeout time.Duration) handOption {
	return func(c *HandConfig) {
		c.Clock = clock
		c.DecisionTimeout = timeout
	}
}

func newTestHand(t *testing.T, players []*Player, opts ...handOption) *Hand {
	t.Helper()
	deck, err := poker.NewOrderedDeck()
	require.NoError(t, err)

	cfg := HandConfig{
		Round:      1,
		Players:    players,
		SmallBlind: 5,
		BigBlind:   10,
		Deck:       deck,
		Logger:     quietLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	h, err := NewHand(cfg)
	require.NoError(t, err)
	return h
}

func totalChips(players []*Player) int {
	total := 0
	for _, p := range players {
		total += p.Chips
	}
	return total
}
