// Package tournament runs a single-table freezeout: hands are dealt until one
// player holds every chip or a round limit is reached.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/internal/gameid"
	"github.com/lox/holdem-tourney/internal/randutil"
	"github.com/lox/holdem-tourney/poker"
)

// ErrFinished is returned by PlayRound once the tournament is over.
var ErrFinished = errors.New("tournament finished")

// Tournament owns the players, the button and the action log for one run.
// It is not safe for concurrent use.
type Tournament struct {
	id      string
	cfg     Config
	seed    int64
	rng     *rand.Rand
	players []*game.Player
	button  int // Index into players
	round   int

	totalChips   int
	eliminations []Elimination
	actions      *game.ActionLog
	logger       *log.Logger
}

// New validates cfg and seats the players.
func New(cfg Config) (*Tournament, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	id := gameid.New()
	seed := randutil.Seed(cfg.Seed)
	t := &Tournament{
		id:      id,
		cfg:     cfg,
		seed:    seed,
		rng:     randutil.New(seed),
		actions: game.NewActionLog(),
		logger:  cfg.Logger.WithPrefix("tournament").With("id", id),
	}
	for i, s := range cfg.Seats {
		t.players = append(t.players, game.NewPlayer(i, s.Name, s.Tag, cfg.StartingChips, s.Provider))
		t.totalChips += cfg.StartingChips
	}
	return t, nil
}

// ID returns the tournament identifier.
func (t *Tournament) ID() string {
	return t.id
}

// Round returns the number of rounds played so far.
func (t *Tournament) Round() int {
	return t.round
}

// Done reports whether the tournament has reached a terminal state.
func (t *Tournament) Done() bool {
	if len(t.activePlayers()) <= 1 {
		return true
	}
	return t.cfg.MaxRounds > 0 && t.round >= t.cfg.MaxRounds
}

// Run plays rounds until the tournament is done. Cancelling ctx stops it
// between rounds; the partial result is returned with the context error.
func (t *Tournament) Run(ctx context.Context) (*Result, error) {
	t.logger.Info("Tournament starting",
		"players", len(t.players),
		"chips", t.cfg.StartingChips,
		"blinds", fmt.Sprintf("%d/%d", t.cfg.SmallBlind, t.cfg.BigBlind),
		"seed", t.seed)

	for !t.Done() {
		if err := ctx.Err(); err != nil {
			t.logger.Warn("Tournament stopped", "round", t.round, "error", err)
			return t.Snapshot(), err
		}
		if _, err := t.PlayRound(ctx); err != nil {
			return t.Snapshot(), err
		}
	}

	result := t.Snapshot()
	if w, ok := result.Winner(); ok {
		t.logger.Info("Tournament finished", "rounds", t.round, "winner", w.Name)
	} else {
		t.logger.Info("Round limit reached", "rounds", t.round, "leader", result.Standings[0].Name)
	}
	return result, nil
}

// PlayRound deals one hand, removes busted players and moves the button.
// A round in progress is never interrupted by ctx.
func (t *Tournament) PlayRound(ctx context.Context) (*RoundSummary, error) {
	if t.Done() {
		return nil, ErrFinished
	}
	t.round++

	active := t.activePlayers()
	button := 0
	startChips := make(map[int]int, len(active))
	for i, p := range active {
		if p == t.players[t.button] {
			button = i
		}
		startChips[p.ID] = p.Chips
	}
	logStart := t.actions.Len()

	hand, err := game.NewHand(game.HandConfig{
		Round:           t.round,
		Players:         active,
		Button:          button,
		SmallBlind:      t.cfg.SmallBlind,
		BigBlind:        t.cfg.BigBlind,
		Deck:            poker.NewDeck(t.rng),
		Log:             t.actions,
		Logger:          t.logger.WithPrefix("hand"),
		Clock:           t.cfg.Clock,
		DecisionTimeout: t.cfg.DecisionTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("round %d: %w", t.round, err)
	}

	result, err := hand.Play(context.WithoutCancel(ctx))
	if err != nil {
		t.logger.Error("Round aborted", "round", t.round, "error", err)
		return nil, err
	}

	eliminated := t.eliminate(active, startChips)
	if err := t.checkConservation(); err != nil {
		t.logger.Error("Round aborted", "round", t.round, "error", err)
		return nil, err
	}
	t.advanceButton()

	summary := RoundSummary{
		Round:      t.round,
		Hand:       result,
		Stacks:     t.stacks(),
		Eliminated: eliminated,
		Actions:    t.actions.Since(logStart),
	}
	if t.cfg.OnRound != nil {
		t.cfg.OnRound(summary)
	}
	return &summary, nil
}

func (t *Tournament) activePlayers() []*game.Player {
	active := make([]*game.Player, 0, len(t.players))
	for _, p := range t.players {
		if !p.Eliminated() {
			active = append(active, p)
		}
	}
	return active
}

// eliminate records players who busted this round. Among players busted in
// the same round, the one who started it with more chips finishes higher.
func (t *Tournament) eliminate(active []*game.Player, startChips map[int]int) []Elimination {
	var busted []*game.Player
	for _, p := range active {
		if p.Eliminated() {
			busted = append(busted, p)
		}
	}
	if len(busted) == 0 {
		return nil
	}

	sort.SliceStable(busted, func(i, j int) bool {
		return startChips[busted[i].ID] > startChips[busted[j].ID]
	})

	remaining := len(active) - len(busted)
	out := make([]Elimination, len(busted))
	for i, p := range busted {
		out[i] = Elimination{PlayerID: p.ID, Name: p.Name, Round: t.round, Place: remaining + 1 + i}
	}

	// Worst finisher goes out first.
	for i := len(out) - 1; i >= 0; i-- {
		e := out[i]
		t.eliminations = append(t.eliminations, e)
		t.logger.Info("Player eliminated", "player", e.Name, "round", e.Round, "place", e.Place)
	}
	return out
}

// advanceButton moves the button to the next player with chips, clockwise.
func (t *Tournament) advanceButton() {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		next := (t.button + i) % n
		if !t.players[next].Eliminated() {
			t.button = next
			return
		}
	}
}

func (t *Tournament) checkConservation() error {
	total := 0
	for _, p := range t.players {
		total += p.Chips
	}
	if total != t.totalChips {
		return &game.InvariantError{
			Round:  t.round,
			Street: game.Showdown,
			Detail: fmt.Sprintf("chip conservation violation: expected %d total chips, but found %d (difference: %d)",
				t.totalChips, total, total-t.totalChips),
			State: fmt.Sprint(t.stacks()),
		}
	}
	return nil
}

func (t *Tournament) stacks() []Stack {
	out := make([]Stack, len(t.players))
	for i, p := range t.players {
		out[i] = Stack{PlayerID: p.ID, Name: p.Name, Chips: p.Chips}
	}
	return out
}
