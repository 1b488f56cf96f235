package simulator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/lox/holdem-tourney/internal/bot"
	"github.com/lox/holdem-tourney/internal/randutil"
	"github.com/lox/holdem-tourney/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build seats four seeded built-in bots.
func build(index int, seed int64) (tournament.Config, error) {
	cfg := tournament.Config{
		StartingChips: 300,
		SmallBlind:    5,
		BigBlind:      10,
		MaxRounds:     150,
	}
	for i, name := range []string{bot.StrategyRandom, bot.StrategyHeuristic, bot.StrategyCall, bot.StrategyManiac} {
		p, err := bot.New(name, bot.Options{RNG: randutil.New(randutil.Derive(seed, i))})
		if err != nil {
			return tournament.Config{}, err
		}
		cfg.Seats = append(cfg.Seats, tournament.Seat{Name: name, Tag: name, Provider: p})
	}
	return cfg, nil
}

func TestNewValidates(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Tournaments: 0, Build: build})
	assert.ErrorContains(t, err, "at least 1")

	_, err = New(Config{Tournaments: 1})
	assert.ErrorContains(t, err, "Build")

	s, err := New(Config{Tournaments: 1, Build: build, Seed: 77})
	require.NoError(t, err)
	assert.Equal(t, int64(77), s.Seed())
	assert.Equal(t, 1, s.config.Parallel)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	run := func(parallel int) *Batch {
		s, err := New(Config{Tournaments: 6, Parallel: parallel, Seed: 1234, Build: build})
		require.NoError(t, err)
		batch, err := s.Run(context.Background())
		require.NoError(t, err)
		return batch
	}

	serial, parallel := run(1), run(4)
	require.Len(t, serial.Results, 6)
	require.Len(t, parallel.Results, 6)

	for i := range serial.Results {
		a, b := serial.Results[i], parallel.Results[i]
		assert.Equal(t, randutil.Derive(1234, i), a.Seed)
		assert.Equal(t, a.Seed, b.Seed)
		assert.Equal(t, a.Rounds, b.Rounds, "tournament %d", i)
		assert.Equal(t, a.Standings, b.Standings, "tournament %d", i)
		assert.Equal(t, a.Actions, b.Actions, "tournament %d", i)
	}

	assert.Equal(t, 6, serial.Report.Tournaments)
	for _, p := range serial.Report.Players() {
		other, ok := parallel.Report.Player(p.Name)
		require.True(t, ok)
		assert.Equal(t, p.NetChips, other.NetChips)
		assert.Equal(t, p.Wins, other.Wins)
	}
}

func TestRunRespectsParallelLimit(t *testing.T) {
	t.Parallel()

	var active, peak, done atomic.Int32
	s, err := New(Config{
		Tournaments: 12,
		Parallel:    3,
		Seed:        5,
		Build: func(index int, seed int64) (tournament.Config, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			return build(index, seed)
		},
		OnResult: func(int, *tournament.Result) {
			active.Add(-1)
			done.Add(1)
		},
	})
	require.NoError(t, err)

	batch, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(12), done.Load())
	assert.LessOrEqual(t, peak.Load(), int32(3))
	for i, r := range batch.Results {
		assert.NotNil(t, r, "tournament %d", i)
	}
}

func TestRunStopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("no seats today")
	s, err := New(Config{
		Tournaments: 5,
		Parallel:    2,
		Seed:        9,
		Build: func(index int, seed int64) (tournament.Config, error) {
			if index == 3 {
				return tournament.Config{}, boom
			}
			return build(index, seed)
		},
	})
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "tournament 3")
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(Config{Tournaments: 3, Seed: 1, Build: build})
	require.NoError(t, err)
	_, err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
