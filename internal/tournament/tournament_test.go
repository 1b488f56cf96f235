package tournament

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	shove = game.ProviderFunc(func(context.Context, game.DecisionRequest) (game.Decision, error) {
		return game.Decision{Action: game.AllIn}, nil
	})
	passive = game.ProviderFunc(func(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
		if req.ToCall > 0 {
			return game.Decision{Action: game.Call}, nil
		}
		return game.Decision{Action: game.Check}, nil
	})
)

func seats(provider game.ActionProvider, names ...string) []Seat {
	out := make([]Seat, len(names))
	for i, n := range names {
		out[i] = Seat{Name: n, Tag: "test", Provider: provider}
	}
	return out
}

func testConfig(provider game.ActionProvider, names ...string) Config {
	return Config{
		Seats:         seats(provider, names...),
		StartingChips: 1000,
		SmallBlind:    5,
		BigBlind:      10,
		Seed:          7,
		Logger:        log.New(io.Discard),
	}
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no players", func(c *Config) { c.Seats = nil }, "at least 2 players"},
		{"one player", func(c *Config) { c.Seats = c.Seats[:1] }, "at least 2 players"},
		{"negative chips", func(c *Config) { c.StartingChips = -5 }, "starting chips must be positive"},
		{"zero blinds", func(c *Config) { c.SmallBlind = 0 }, "blinds must be positive"},
		{"inverted blinds", func(c *Config) { c.SmallBlind = 20 }, "exceeds big blind"},
		{"blinds exceed stack", func(c *Config) { c.BigBlind = 2000; c.SmallBlind = 1000 }, "exceeds starting stack"},
		{"negative rounds", func(c *Config) { c.MaxRounds = -1 }, "max rounds"},
		{"negative timeout", func(c *Config) { c.DecisionTimeout = -time.Second }, "decision timeout"},
		{"missing provider", func(c *Config) { c.Seats[1].Provider = nil }, "no action provider"},
		{"duplicate name", func(c *Config) { c.Seats[1].Name = "alice" }, "duplicate player name"},
		{"empty name", func(c *Config) { c.Seats[0].Name = "" }, "has no name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(passive, "alice", "bob", "carol")
			tt.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := New(testConfig(passive, "alice", "bob"))
	assert.NoError(t, err)
}

func TestRunTerminatesWhenOnePlayerRemains(t *testing.T) {
	t.Parallel()

	var summaries []RoundSummary
	cfg := testConfig(shove, "alice", "bob", "carol", "dave")
	cfg.OnRound = func(s RoundSummary) { summaries = append(summaries, s) }

	tr, err := New(cfg)
	require.NoError(t, err)

	result, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Finished)
	assert.Len(t, result.Eliminations, 3)
	assert.Equal(t, len(summaries), result.Rounds)

	winner, ok := result.Winner()
	require.True(t, ok)
	assert.Equal(t, 1, winner.Place)
	assert.Equal(t, 4000, winner.Chips)
	assert.Equal(t, 4000, result.TotalChips)

	// Never earlier: every round but the last leaves at least two players.
	for i, s := range summaries {
		alive, total := 0, 0
		for _, st := range s.Stacks {
			total += st.Chips
			if st.Chips > 0 {
				alive++
			}
		}
		assert.Equal(t, 4000, total, "round %d", s.Round)
		if i < len(summaries)-1 {
			assert.GreaterOrEqual(t, alive, 2, "round %d", s.Round)
		} else {
			assert.Equal(t, 1, alive)
		}
	}

	places := map[int]bool{}
	for _, st := range result.Standings {
		places[st.Place] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true}, places)

	for i := 1; i < len(result.Eliminations); i++ {
		prev, cur := result.Eliminations[i-1], result.Eliminations[i]
		assert.LessOrEqual(t, prev.Round, cur.Round, "eliminations are in order")
		assert.Greater(t, prev.Place, cur.Place)
	}

	_, err = tr.PlayRound(context.Background())
	assert.ErrorIs(t, err, ErrFinished)
}

func TestRunStopsAtMaxRounds(t *testing.T) {
	t.Parallel()

	cfg := testConfig(passive, "alice", "bob", "carol")
	cfg.MaxRounds = 5

	tr, err := New(cfg)
	require.NoError(t, err)
	result, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Rounds)
	assert.False(t, result.Finished)
	_, ok := result.Winner()
	assert.False(t, ok)

	total := 0
	for _, s := range result.Standings {
		total += s.Chips
	}
	assert.Equal(t, 3000, total)
	for i := 1; i < len(result.Standings); i++ {
		assert.GreaterOrEqual(t, result.Standings[i-1].Chips, result.Standings[i].Chips)
	}
}

func TestButtonRotates(t *testing.T) {
	t.Parallel()

	var buttons []int
	cfg := testConfig(passive, "alice", "bob", "carol")
	cfg.MaxRounds = 4
	cfg.OnRound = func(s RoundSummary) { buttons = append(buttons, s.Hand.Button) }

	tr, err := New(cfg)
	require.NoError(t, err)
	_, err = tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 0}, buttons)
}

func TestSeededRunsAreReproducible(t *testing.T) {
	t.Parallel()

	run := func() *Result {
		tr, err := New(testConfig(shove, "alice", "bob", "carol", "dave"))
		require.NoError(t, err)
		result, err := tr.Run(context.Background())
		require.NoError(t, err)
		return result
	}

	a, b := run(), run()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Seed, b.Seed)
	assert.Equal(t, a.Rounds, b.Rounds)
	assert.Equal(t, a.Standings, b.Standings)
	assert.Equal(t, a.Eliminations, b.Eliminations)
	assert.Equal(t, a.Actions, b.Actions)
}

func TestUnresponsiveProviderDoesNotBlock(t *testing.T) {
	t.Parallel()

	stuck := game.ProviderFunc(func(ctx context.Context, _ game.DecisionRequest) (game.Decision, error) {
		<-ctx.Done()
		return game.Decision{}, ctx.Err()
	})

	cfg := testConfig(passive, "alice", "bob", "carol")
	cfg.Seats[1].Provider = stuck
	cfg.MaxRounds = 3
	cfg.DecisionTimeout = 10 * time.Millisecond

	tr, err := New(cfg)
	require.NoError(t, err)
	result, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rounds)
	timeouts := 0
	for _, a := range result.Actions {
		if a.PlayerID == 1 {
			assert.Equal(t, game.FallbackTimeout, a.Fallback)
			timeouts++
		}
	}
	assert.Positive(t, timeouts)
	assert.Equal(t, timeouts, result.Failures[1].Timeouts)
}

func TestRunStopsBetweenRoundsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig(passive, "alice", "bob")
	cfg.OnRound = func(s RoundSummary) {
		if s.Round == 2 {
			cancel()
		}
	}

	tr, err := New(cfg)
	require.NoError(t, err)
	result, err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Rounds)
	assert.Empty(t, result.Failures, "the round in progress finishes normally")
}
