package bot

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/internal/randutil"
	"github.com/lox/holdem-tourney/internal/tournament"
	"github.com/lox/holdem-tourney/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// request builds a decision request for seat 0 with no street bet yet.
func request(t *testing.T, hole, board string, toCall, chips int) game.DecisionRequest {
	t.Helper()
	h, err := poker.ParseCards(hole)
	require.NoError(t, err)
	var b []poker.Card
	if board != "" {
		b, err = poker.ParseCards(board)
		require.NoError(t, err)
	}
	street := game.Preflop
	switch len(b) {
	case 3:
		street = game.Flop
	case 4:
		street = game.Turn
	case 5:
		street = game.River
	}

	return game.DecisionRequest{
		View: game.TableView{
			Street:     street,
			HoleCards:  h,
			Board:      b,
			Pot:        toCall + 15,
			CurrentBet: toCall,
			MinRaiseTo: max(2*toCall, 20),
			MaxRaiseTo: chips,
			CanRaise:   true,
			SmallBlind: 5,
			BigBlind:   10,
			Players: []game.PlayerView{
				{ID: 0, Name: "me", Chips: chips},
				{ID: 1, Name: "villain", Chips: 1000, Bet: toCall},
			},
		},
		ToCall: toCall,
		Chips:  chips,
	}
}

func decide(t *testing.T, p game.ActionProvider, req game.DecisionRequest) game.Decision {
	t.Helper()
	d, err := p.Decide(context.Background(), req)
	require.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, name := range Strategies() {
		if name == StrategyRemote {
			continue
		}
		p, err := New(name, Options{RNG: randutil.New(1)})
		require.NoError(t, err, name)
		assert.NotNil(t, p, name)
	}

	p, err := New(" Random ", Options{})
	require.NoError(t, err)
	assert.IsType(t, &RandBot{}, p)

	_, err = New("gto-solver", Options{})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.ErrorContains(t, err, "heuristic")

	_, err = New(StrategyRemote, Options{})
	assert.ErrorContains(t, err, "url")

	p, err = New(StrategyRemote, Options{URL: "ws://127.0.0.1:1/bot"})
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, p)
}

func TestRaiseTo(t *testing.T) {
	t.Parallel()

	req := request(t, "As Ad", "", 10, 500)
	assert.Equal(t, game.Decision{Action: game.Raise, Amount: 20, Reasoning: "r"}, raiseTo(req, 5, "r"))
	assert.Equal(t, game.Decision{Action: game.Raise, Amount: 120, Reasoning: "r"}, raiseTo(req, 120, "r"))
	assert.Equal(t, game.AllIn, raiseTo(req, 500, "r").Action)
	assert.Equal(t, game.AllIn, raiseTo(req, 9000, "r").Action)

	req.View.CanRaise = false
	assert.Equal(t, game.Call, raiseTo(req, 120, "r").Action)

	short := request(t, "As Ad", "", 50, 40)
	assert.Equal(t, game.Call, raiseTo(short, 100, "r").Action)

	free := request(t, "As Ad", "", 0, 500)
	free.View.CanRaise = false
	assert.Equal(t, game.Check, raiseTo(free, 100, "r").Action)
}

func TestStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hole, board string
		want        HandStrength
	}{
		{"Js Jd", "", Strong},
		{"As Kc", "", Strong},
		{"Ah Qd", "", Strong},
		{"9s 9d", "", Medium},
		{"Ks Qs", "", Medium},
		{"4s 4d", "", Speculative},
		{"7s 2d", "", Weak},
		{"Qs Jd", "", Weak},
		{"As Ks", "Ah Ad 2c", Strong},
		{"Ah Kh", "2h 7h 9h", Strong},
		{"9c 8d", "9h 8s 2c", Medium},
		{"Ac 3d", "As 8s 2c", Speculative},
		{"Ac 3d", "Ks 8s 2c Td", Weak},
	}

	for _, tt := range tests {
		t.Run(tt.hole+" "+tt.board, func(t *testing.T) {
			req := request(t, tt.hole, tt.board, 0, 100)
			assert.Equal(t, tt.want, Strength(req.View.HoleCards, req.View.Board))
		})
	}

	assert.Equal(t, Weak, Strength(nil, nil))
}

func TestHeuristicBot(t *testing.T) {
	t.Parallel()

	bot := NewHeuristicBot(randutil.New(3), log.New(io.Discard))

	tests := []struct {
		name        string
		hole, board string
		toCall      int
		chips       int
		want        game.Action
	}{
		{"aces open", "As Ad", "", 0, 1000, game.Raise},
		{"aces raise a small bet", "As Ad", "", 100, 1000, game.Raise},
		{"aces call a big bet", "As Ad", "", 500, 1000, game.Call},
		{"medium calls a mid bet", "9s 9d", "", 300, 1000, game.Call},
		{"medium folds a big bet", "9s 9d", "", 500, 1000, game.Fold},
		{"speculative calls cheap", "4s 4d", "", 100, 1000, game.Call},
		{"speculative folds dear", "4s 4d", "", 200, 1000, game.Fold},
		{"speculative checks free", "4s 4d", "", 0, 1000, game.Check},
		{"trash folds", "7s 2d", "", 100, 1000, game.Fold},
		{"trash checks free", "7s 2d", "", 0, 1000, game.Check},
		{"trips bet the flop", "As Ks", "Ah Ad 2c", 0, 1000, game.Raise},
		{"missed board folds", "7s 2d", "Ks Qs Jc", 400, 1000, game.Fold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decide(t, bot, request(t, tt.hole, tt.board, tt.toCall, tt.chips))
			assert.Equal(t, tt.want, d.Action, d.Reasoning)
			assert.NotEmpty(t, d.Reasoning)
		})
	}

	d := decide(t, bot, request(t, "As Ad", "", 0, 1000))
	assert.Equal(t, 30, d.Amount, "min raise plus a big blind")

	closed := request(t, "As Ad", "", 0, 1000)
	closed.View.CanRaise = false
	assert.Equal(t, game.Check, decide(t, bot, closed).Action)
}

func TestRandBotFrequencies(t *testing.T) {
	t.Parallel()

	bot := NewRandBot(randutil.New(11), nil)
	const n = 4000

	counts := map[game.Action]int{}
	free := request(t, "7s 2d", "", 0, 1000)
	for range n {
		counts[decide(t, bot, free).Action]++
	}
	assert.InDelta(t, 0.75, float64(counts[game.Check])/n, 0.04)
	assert.InDelta(t, 0.25, float64(counts[game.Raise])/n, 0.04)
	assert.Zero(t, counts[game.Fold], "never folds when checking is free")

	counts = map[game.Action]int{}
	facing := request(t, "7s 2d", "", 20, 1000)
	for range n {
		counts[decide(t, bot, facing).Action]++
	}
	assert.InDelta(t, 0.75, float64(counts[game.Call])/n, 0.04)
	assert.InDelta(t, 0.1875, float64(counts[game.Fold])/n, 0.04)
	assert.InDelta(t, 0.0625, float64(counts[game.Raise])/n, 0.03)
}

func TestPassiveBots(t *testing.T) {
	t.Parallel()

	free := request(t, "7s 2d", "", 0, 1000)
	facing := request(t, "As Ad", "", 200, 1000)

	call := NewCallBot(nil)
	assert.Equal(t, game.Check, decide(t, call, free).Action)
	assert.Equal(t, game.Call, decide(t, call, facing).Action)

	fold := NewFoldBot(nil)
	assert.Equal(t, game.Check, decide(t, fold, free).Action)
	assert.Equal(t, game.Fold, decide(t, fold, facing).Action)
}

func TestManiacBot(t *testing.T) {
	t.Parallel()

	shove, err := New(StrategyShove, Options{RNG: randutil.New(5)})
	require.NoError(t, err)
	for _, req := range []game.DecisionRequest{
		request(t, "7s 2d", "", 0, 1000),
		request(t, "7s 2d", "Ks Qs Jc", 300, 1000),
	} {
		assert.Equal(t, game.AllIn, decide(t, shove, req).Action)
	}

	maniac := NewManiacBot(randutil.New(5), 0, nil)
	assert.Equal(t, DefaultAggression, maniac.aggression)
	assert.Equal(t, 1.0, NewManiacBot(nil, 3, nil).aggression)

	counts := map[game.Action]int{}
	for range 1000 {
		d := decide(t, maniac, request(t, "7s 2d", "", 0, 1000))
		counts[d.Action]++
		if d.Action == game.Raise {
			assert.Equal(t, 20+(1000-20)*3/4, d.Amount)
		}
	}
	assert.Zero(t, counts[game.Fold])
	assert.Greater(t, counts[game.Raise]+counts[game.AllIn], counts[game.Check])

	counts = map[game.Action]int{}
	for range 1000 {
		counts[decide(t, maniac, request(t, "7s 2d", "", 50, 1000)).Action]++
	}
	assert.Zero(t, counts[game.Check])
	assert.Positive(t, counts[game.AllIn])
	assert.Positive(t, counts[game.Call])
	assert.Positive(t, counts[game.Fold])
}

func TestStrategiesPlayATournament(t *testing.T) {
	t.Parallel()

	var seats []tournament.Seat
	for i, name := range []string{StrategyRandom, StrategyHeuristic, StrategyCall, StrategyFold, StrategyManiac, StrategyHeuristic} {
		p, err := New(name, Options{RNG: randutil.New(int64(i + 1))})
		require.NoError(t, err)
		seats = append(seats, tournament.Seat{Name: name + "-" + string(rune('a'+i)), Tag: name, Provider: p})
	}

	tr, err := tournament.New(tournament.Config{
		Seats:         seats,
		StartingChips: 500,
		SmallBlind:    5,
		BigBlind:      10,
		MaxRounds:     300,
		Seed:          42,
	})
	require.NoError(t, err)

	result, err := tr.Run(context.Background())
	require.NoError(t, err)

	total := 0
	for _, s := range result.Standings {
		total += s.Chips
	}
	assert.Equal(t, 3000, total)
	for id, f := range result.Failures {
		assert.Zero(t, f.Timeouts, "player %d", id)
		assert.Zero(t, f.Errors, "player %d", id)
	}
}
