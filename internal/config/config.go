// Package config loads the HCL run file describing the table and its players.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/holdem-tourney/internal/bot"
	"github.com/lox/holdem-tourney/internal/randutil"
	"github.com/lox/holdem-tourney/internal/tournament"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config represents a complete run file
type Config struct {
	Tournament *TournamentSettings `hcl:"tournament,block"`
	Players    []PlayerConfig      `hcl:"player,block"`
}

// TournamentSettings contains table and batch settings
type TournamentSettings struct {
	StartingChips   int    `hcl:"starting_chips,optional"`
	SmallBlind      int    `hcl:"small_blind,optional"`
	BigBlind        int    `hcl:"big_blind,optional"`
	MaxRounds       int    `hcl:"max_rounds,optional"`
	Seed            int64  `hcl:"seed,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
	Tournaments     int    `hcl:"tournaments,optional"`
	Parallel        int    `hcl:"parallel,optional"`
}

// PlayerConfig defines one seat
type PlayerConfig struct {
	Name       string  `hcl:"name,label"`
	Strategy   string  `hcl:"strategy,optional"`
	URL        string  `hcl:"url,optional"`
	Aggression float64 `hcl:"aggression,optional"`
}

const (
	defaultStartingChips   = 1000
	defaultSmallBlind      = 5
	defaultBigBlind        = 10
	defaultDecisionTimeout = "2s"
)

// Default returns a four-handed table of built-in bots.
func Default() *Config {
	c := &Config{
		Players: []PlayerConfig{
			{Name: "randy", Strategy: bot.StrategyRandom},
			{Name: "hugo", Strategy: bot.StrategyHeuristic},
			{Name: "carla", Strategy: bot.StrategyCall},
			{Name: "max", Strategy: bot.StrategyManiac},
		},
	}
	c.applyDefaults()
	return c
}

// Load reads the HCL file at filename, applies defaults and validates it.
// A missing file yields the default configuration.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	return decode(file, diags)
}

// Parse is Load for in-memory source.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	return decode(file, diags)
}

func decode(file *hcl.File, diags hcl.Diagnostics) (*Config, error) {
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Tournament == nil {
		c.Tournament = &TournamentSettings{}
	}
	t := c.Tournament
	if t.StartingChips == 0 {
		t.StartingChips = defaultStartingChips
	}
	if t.SmallBlind == 0 && t.BigBlind == 0 {
		t.SmallBlind, t.BigBlind = defaultSmallBlind, defaultBigBlind
	}
	if t.BigBlind == 0 {
		t.BigBlind = 2 * t.SmallBlind
	}
	if t.SmallBlind == 0 {
		t.SmallBlind = max(t.BigBlind/2, 1)
	}
	if t.DecisionTimeout == "" {
		t.DecisionTimeout = defaultDecisionTimeout
	}
	if t.Tournaments == 0 {
		t.Tournaments = 1
	}
	if t.Parallel == 0 {
		t.Parallel = runtime.GOMAXPROCS(0)
	}

	for i := range c.Players {
		if c.Players[i].Strategy == "" {
			c.Players[i].Strategy = bot.StrategyRandom
		}
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	t := c.Tournament
	if t == nil {
		return fmt.Errorf("%w: missing tournament block", ErrInvalid)
	}
	if t.StartingChips <= 0 {
		add("starting_chips must be positive")
	}
	if t.SmallBlind <= 0 || t.BigBlind <= 0 {
		add("blinds must be positive")
	}
	if t.SmallBlind > t.BigBlind {
		add("small_blind %d exceeds big_blind %d", t.SmallBlind, t.BigBlind)
	}
	if t.MaxRounds < 0 {
		add("max_rounds must not be negative")
	}
	if d, err := time.ParseDuration(t.DecisionTimeout); err != nil {
		add("decision_timeout: %v", err)
	} else if d < 0 {
		add("decision_timeout must not be negative")
	}
	if t.Tournaments < 1 {
		add("tournaments must be at least 1")
	}
	if t.Parallel < 1 {
		add("parallel must be at least 1")
	}

	if len(c.Players) < 2 {
		add("at least 2 players must be configured, got %d", len(c.Players))
	}
	names := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if names[p.Name] {
			add("duplicate player %q", p.Name)
		}
		names[p.Name] = true

		switch {
		case !validStrategy(p.Strategy):
			add("player %s: invalid strategy %s", p.Name, p.Strategy)
		case p.Strategy == bot.StrategyRemote && p.URL == "":
			add("player %s: remote strategy needs a url", p.Name)
		}
		if p.Aggression < 0 || p.Aggression > 1 {
			add("player %s: aggression must be between 0 and 1", p.Name)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
}

func validStrategy(s string) bool {
	for _, name := range bot.Strategies() {
		if name == s {
			return true
		}
	}
	return false
}

// Timeout returns the parsed decision timeout.
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.Tournament.DecisionTimeout)
	return d
}

// TournamentConfig builds the configuration of one tournament seeded with
// seed. Each seat gets its own generator derived from the seed. The caller
// releases the providers with CloseProviders.
func (c *Config) TournamentConfig(seed int64, logger *log.Logger) (tournament.Config, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := c.Tournament
	cfg := tournament.Config{
		StartingChips:   t.StartingChips,
		SmallBlind:      t.SmallBlind,
		BigBlind:        t.BigBlind,
		MaxRounds:       t.MaxRounds,
		Seed:            seed,
		DecisionTimeout: c.Timeout(),
		Logger:          logger,
	}

	for i, p := range c.Players {
		provider, err := bot.New(p.Strategy, bot.Options{
			RNG:        randutil.New(randutil.Derive(seed, i)),
			Logger:     logger.With("player", p.Name),
			Aggression: p.Aggression,
			URL:        p.URL,
		})
		if err != nil {
			cfg.CloseProviders()
			return tournament.Config{}, fmt.Errorf("player %s: %w", p.Name, err)
		}
		cfg.Seats = append(cfg.Seats, tournament.Seat{Name: p.Name, Tag: p.Strategy, Provider: provider})
	}
	return cfg, nil
}
