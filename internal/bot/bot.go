// Package bot provides the built-in action providers and builds them by
// strategy name.
package bot

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/internal/randutil"
)

// ErrUnknownStrategy is returned by New for an unregistered strategy name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy names accepted by New.
const (
	StrategyRandom    = "random"
	StrategyHeuristic = "heuristic"
	StrategyCall      = "call"
	StrategyFold      = "fold"
	StrategyManiac    = "maniac"
	StrategyShove     = "shove"
	StrategyRemote    = "remote"
)

// Options configures a provider built by New. Unused fields are ignored.
type Options struct {
	RNG        *rand.Rand
	Logger     *log.Logger
	Aggression float64 // Maniac only; zero uses DefaultAggression
	URL        string  // Remote only
	Dialer     *websocket.Dialer
}

type factory func(opts Options) (game.ActionProvider, error)

var registry = map[string]factory{
	StrategyRandom:    func(o Options) (game.ActionProvider, error) { return NewRandBot(o.RNG, o.Logger), nil },
	StrategyHeuristic: func(o Options) (game.ActionProvider, error) { return NewHeuristicBot(o.RNG, o.Logger), nil },
	StrategyCall:      func(o Options) (game.ActionProvider, error) { return NewCallBot(o.Logger), nil },
	StrategyFold:      func(o Options) (game.ActionProvider, error) { return NewFoldBot(o.Logger), nil },
	StrategyManiac: func(o Options) (game.ActionProvider, error) {
		return NewManiacBot(o.RNG, o.Aggression, o.Logger), nil
	},
	StrategyShove: func(o Options) (game.ActionProvider, error) { return NewManiacBot(o.RNG, 1, o.Logger), nil },
	StrategyRemote: func(o Options) (game.ActionProvider, error) {
		if o.URL == "" {
			return nil, errors.New("remote strategy needs a url")
		}
		return NewRemote(o.URL, o.Dialer, o.Logger), nil
	},
}

// Strategies lists the registered strategy names in order.
func Strategies() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the provider registered under strategy.
func New(strategy string, opts Options) (game.ActionProvider, error) {
	name := strings.ToLower(strings.TrimSpace(strategy))
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownStrategy, strategy, strings.Join(Strategies(), ", "))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.Logger = opts.Logger.WithPrefix("bot").With("strategy", name)
	if opts.RNG == nil {
		opts.RNG = randutil.New(randutil.Seed(0))
	}
	return f(opts)
}

// lockedRand guards a generator shared with a provider call the engine has
// stopped waiting for.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(rng *rand.Rand) *lockedRand {
	if rng == nil {
		rng = randutil.New(randutil.Seed(0))
	}
	return &lockedRand{rng: rng}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func discardIfNil(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

func checkOrCall(req game.DecisionRequest, reasoning string) game.Decision {
	if req.ToCall > 0 {
		return game.Decision{Action: game.Call, Reasoning: reasoning}
	}
	return game.Decision{Action: game.Check, Reasoning: reasoning}
}

func checkOrFold(req game.DecisionRequest, reasoning string) game.Decision {
	if req.ToCall > 0 {
		return game.Decision{Action: game.Fold, Reasoning: reasoning}
	}
	return game.Decision{Action: game.Check, Reasoning: reasoning}
}

// raiseTo builds a legal raise to the given street total: it is lifted to the
// minimum, becomes all-in at the stack and a call when raising is closed.
func raiseTo(req game.DecisionRequest, to int, reasoning string) game.Decision {
	v := req.View
	if !v.CanRaise || req.Chips <= req.ToCall {
		return checkOrCall(req, reasoning)
	}
	if to < v.MinRaiseTo {
		to = v.MinRaiseTo
	}
	if to >= v.MaxRaiseTo {
		return game.Decision{Action: game.AllIn, Reasoning: reasoning}
	}
	return game.Decision{Action: game.Raise, Amount: to, Reasoning: reasoning}
}

func betRatio(req game.DecisionRequest) float64 {
	return float64(req.ToCall) / float64(max(req.Chips, 1))
}
