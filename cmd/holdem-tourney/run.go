package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/bot"
	"github.com/lox/holdem-tourney/internal/config"
	"github.com/lox/holdem-tourney/internal/simulator"
	"github.com/lox/holdem-tourney/internal/tournament"
	"github.com/muesli/termenv"
)

type RunCmd struct {
	Config  string   `short:"c" type:"path" env:"HOLDEM_CONFIG" help:"HCL run file"`
	Players []string `short:"p" env:"HOLDEM_PLAYERS" sep:"," help:"Seats as name=strategy or name=ws://url; replaces the run file's players"`

	StartingChips int           `env:"HOLDEM_STARTING_CHIPS" help:"Starting stack"`
	SmallBlind    int           `env:"HOLDEM_SMALL_BLIND" help:"Small blind"`
	BigBlind      int           `env:"HOLDEM_BIG_BLIND" help:"Big blind"`
	MaxRounds     int           `env:"HOLDEM_MAX_ROUNDS" help:"Stop after this many rounds (0 plays to a winner)"`
	Seed          int64         `env:"HOLDEM_SEED" help:"RNG seed (0 for random)"`
	Timeout       time.Duration `env:"HOLDEM_DECISION_TIMEOUT" help:"Per-decision timeout"`
	Tournaments   int           `short:"n" env:"HOLDEM_TOURNAMENTS" help:"Number of tournaments"`
	Parallel      int           `env:"HOLDEM_PARALLEL" help:"Tournaments to run at once"`
	Out           string        `short:"o" type:"path" env:"HOLDEM_OUT" help:"Write results as JSON to this file"`

	LogLevel string `default:"warn" env:"HOLDEM_LOG_LEVEL" enum:"debug,info,warn,error" help:"Log level (debug|info|warn|error)"`
	NoColor  bool   `help:"Disable colour output"`
	Verbose  bool   `short:"v" help:"Print stacks after every round of a single tournament"`
}

func (c *RunCmd) Run() error {
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	logger := newLogger(c.LogLevel)

	cfg, err := c.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := cfg.Tournament
	single := t.Tournaments == 1
	sim, err := simulator.New(simulator.Config{
		Tournaments: t.Tournaments,
		Parallel:    t.Parallel,
		Seed:        t.Seed,
		Logger:      logger,
		Build: func(index int, seed int64) (tournament.Config, error) {
			tc, err := cfg.TournamentConfig(seed, logger)
			if err != nil {
				return tc, err
			}
			if single && c.Verbose {
				tc.OnRound = func(s tournament.RoundSummary) {
					renderRound(os.Stdout, s)
				}
			}
			return tc, nil
		},
	})
	if err != nil {
		return err
	}

	start := time.Now()
	batch, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := writeResults(c.Out, batch); err != nil {
			return err
		}
		logger.Info("Wrote results", "file", c.Out)
	}

	if single {
		renderTournament(os.Stdout, batch.Results[0])
	} else {
		renderReport(os.Stdout, batch)
	}
	fmt.Fprintf(os.Stdout, "\n%s\n", mutedStyle.Render(fmt.Sprintf("seed %d, %s", batch.Seed, time.Since(start).Round(time.Millisecond))))
	return nil
}

// load reads the run file and applies flag overrides.
func (c *RunCmd) load() (*config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		if _, err := os.Stat(c.Config); err != nil {
			return nil, err
		}
		var err error
		if cfg, err = config.Load(c.Config); err != nil {
			return nil, err
		}
	}

	if len(c.Players) > 0 {
		players, err := parsePlayers(c.Players)
		if err != nil {
			return nil, err
		}
		cfg.Players = players
	}

	t := cfg.Tournament
	override(&t.StartingChips, c.StartingChips)
	override(&t.SmallBlind, c.SmallBlind)
	override(&t.BigBlind, c.BigBlind)
	override(&t.MaxRounds, c.MaxRounds)
	override(&t.Seed, c.Seed)
	override(&t.Tournaments, c.Tournaments)
	override(&t.Parallel, c.Parallel)
	if c.Timeout != 0 {
		t.DecisionTimeout = c.Timeout.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// parsePlayers reads seats given as name=strategy, name=ws://host/path or a
// bare strategy name.
func parsePlayers(specs []string) ([]config.PlayerConfig, error) {
	var players []config.PlayerConfig
	for i, spec := range specs {
		name, value, ok := strings.Cut(strings.TrimSpace(spec), "=")
		if !ok {
			name, value = fmt.Sprintf("%s-%d", spec, i+1), spec
		}
		if name == "" || value == "" {
			return nil, fmt.Errorf("invalid player %q (want name=strategy)", spec)
		}

		p := config.PlayerConfig{Name: name, Strategy: value}
		if strings.HasPrefix(value, "ws://") || strings.HasPrefix(value, "wss://") {
			p.Strategy, p.URL = bot.StrategyRemote, value
		}
		players = append(players, p)
	}
	return players, nil
}

func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "holdem",
	})
}
