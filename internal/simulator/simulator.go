// Package simulator runs batches of independent tournaments in parallel.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/randutil"
	"github.com/lox/holdem-tourney/internal/statistics"
	"github.com/lox/holdem-tourney/internal/tournament"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running a batch
type Config struct {
	Tournaments int
	Parallel    int   // Maximum tournaments in flight; 0 means 1
	Seed        int64 // 0 picks a time-based seed

	// Build returns the configuration for tournament index, seeded with
	// seed. It is called from worker goroutines and must not share
	// providers between tournaments.
	Build func(index int, seed int64) (tournament.Config, error)

	// OnResult, if set, is called as each tournament finishes. Calls are
	// serialised but arrive in completion order.
	OnResult func(index int, result *tournament.Result)

	Logger *log.Logger
}

// Batch is the outcome of a run.
type Batch struct {
	Seed    int64
	Results []*tournament.Result // By tournament index
	Report  *statistics.Report
}

// Simulator runs tournament batches
type Simulator struct {
	config Config
	seed   int64
	logger *log.Logger
	mu     sync.Mutex
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Tournaments < 1 {
		return nil, fmt.Errorf("tournaments must be at least 1, got %d", config.Tournaments)
	}
	if config.Build == nil {
		return nil, errors.New("simulator needs a Build function")
	}
	if config.Parallel < 1 {
		config.Parallel = 1
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{
		config: config,
		seed:   randutil.Seed(config.Seed),
		logger: config.Logger.WithPrefix("simulator"),
	}, nil
}

// Seed returns the batch seed. Tournament i is seeded with
// randutil.Derive(seed, i), so any one of them can be replayed alone.
func (s *Simulator) Seed() int64 {
	return s.seed
}

// Run plays every tournament and aggregates the results. The first error
// cancels the tournaments that have not started and stops the others between
// rounds.
func (s *Simulator) Run(ctx context.Context) (*Batch, error) {
	s.logger.Info("Starting batch",
		"tournaments", s.config.Tournaments,
		"parallel", s.config.Parallel,
		"seed", s.seed)

	results := make([]*tournament.Result, s.config.Tournaments)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallel)

	for i := range s.config.Tournaments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := randutil.Derive(s.seed, i)
			result, err := s.play(ctx, i, seed)
			if err != nil {
				return fmt.Errorf("tournament %d (seed %d): %w", i, seed, err)
			}
			results[i] = result

			if s.config.OnResult != nil {
				s.mu.Lock()
				s.config.OnResult(i, result)
				s.mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Batch failed", "error", err)
		return nil, err
	}

	report := statistics.NewReport()
	for _, r := range results {
		report.Add(r)
	}
	s.logger.Info("Batch finished", "tournaments", report.Tournaments, "finished", report.Finished)
	return &Batch{Seed: s.seed, Results: results, Report: report}, nil
}

func (s *Simulator) play(ctx context.Context, index int, seed int64) (*tournament.Result, error) {
	cfg, err := s.config.Build(index, seed)
	if err != nil {
		return nil, err
	}
	defer cfg.CloseProviders()

	cfg.Seed = seed
	if cfg.Logger == nil {
		cfg.Logger = s.logger.With("tournament", index)
	}

	t, err := tournament.New(cfg)
	if err != nil {
		return nil, err
	}
	return t.Run(ctx)
}
