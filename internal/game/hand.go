package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-tourney/poker"
)

// HandConfig configures a single hand.
type HandConfig struct {
	Round      int
	Players    []*Player // Seat order; every player must have chips
	Button     int       // Index into Players
	SmallBlind int
	BigBlind   int
	Deck       *poker.Deck

	Log             *ActionLog
	Logger          *log.Logger
	Clock           quartz.Clock
	DecisionTimeout time.Duration // Zero waits forever
}

// ShowdownHand is a hand revealed at showdown.
type ShowdownHand struct {
	PlayerID  int
	HoleCards []poker.Card
	Rank      poker.HandRank
}

// HandResult summarises a finished hand.
type HandResult struct {
	Round         int
	Button        int // Player ID holding the button
	SmallBlind    int // Player ID posting the small blind
	BigBlind      int // Player ID posting the big blind
	Board         []poker.Card
	Burned        []poker.Card
	Street        Street // Last street reached
	Showdown      bool
	Hands         []ShowdownHand
	Contributions []Contribution
	Awards        []PotAward
	Returned      map[int]int // Unmatched chips given back, by player ID
	Net           map[int]int // Chips won or lost, by player ID
}

// Pot returns the total chips paid out.
func (r *HandResult) Pot() int {
	total := 0
	for _, a := range r.Awards {
		total += a.Amount
	}
	return total
}

// Hand runs one deal from blinds to payout.
type Hand struct {
	round      int
	players    []*Player
	button     int
	sbSeat     int
	bbSeat     int
	smallBlind int
	bigBlind   int
	deck       *poker.Deck

	street     Street
	board      []poker.Card
	burned     []poker.Card
	betting    *BettingRound
	startTotal int
	start      map[int]int

	log     *ActionLog
	logger  *log.Logger
	clock   quartz.Clock
	timeout time.Duration
}

// NewHand validates the configuration and prepares a hand.
func NewHand(cfg HandConfig) (*Hand, error) {
	if len(cfg.Players) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(cfg.Players))
	}
	if cfg.Button < 0 || cfg.Button >= len(cfg.Players) {
		return nil, fmt.Errorf("button %d out of range", cfg.Button)
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.Deck == nil || cfg.Deck.Dealt() != 0 {
		return nil, errors.New("hand needs a fresh deck")
	}
	for _, p := range cfg.Players {
		if p.Chips <= 0 {
			return nil, fmt.Errorf("player %s has no chips", p.Name)
		}
	}

	if cfg.Log == nil {
		cfg.Log = NewActionLog()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	n := len(cfg.Players)
	h := &Hand{
		round:      cfg.Round,
		players:    cfg.Players,
		button:     cfg.Button,
		smallBlind: cfg.SmallBlind,
		bigBlind:   cfg.BigBlind,
		deck:       cfg.Deck,
		betting:    NewBettingRound(n, cfg.BigBlind),
		start:      make(map[int]int, n),
		log:        cfg.Log,
		logger:     cfg.Logger.With("round", cfg.Round),
		clock:      cfg.Clock,
		timeout:    cfg.DecisionTimeout,
	}

	// Heads-up the button posts the small blind.
	if n == 2 {
		h.sbSeat = h.button
	} else {
		h.sbSeat = (h.button + 1) % n
	}
	h.bbSeat = (h.sbSeat + 1) % n

	return h, nil
}

// Street returns the current street.
func (h *Hand) Street() Street {
	return h.street
}

// Board returns a copy of the community cards.
func (h *Hand) Board() []poker.Card {
	return append([]poker.Card(nil), h.board...)
}

// Play runs the hand to completion and pays out every pot.
func (h *Hand) Play(ctx context.Context) (*HandResult, error) {
	for _, p := range h.players {
		p.resetForHand()
		h.start[p.ID] = p.Chips
		h.startTotal += p.Chips
	}

	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}
	h.postBlinds()
	if err := h.checkConservation("blinds"); err != nil {
		return nil, err
	}

	for street := Preflop; street <= River; street++ {
		h.street = street
		if street != Preflop {
			if err := h.dealStreet(street); err != nil {
				return nil, err
			}
			h.betting.ResetForStreet()
			for _, p := range h.players {
				p.Bet = 0
			}
		}

		if err := h.runBetting(ctx); err != nil {
			return nil, err
		}
		if h.inHandCount() <= 1 {
			break
		}
	}

	return h.settle()
}

func (h *Hand) dealHoleCards() error {
	n := len(h.players)
	for round := 0; round < 2; round++ {
		for i := 1; i <= n; i++ {
			p := h.players[(h.button+i)%n]
			cards, err := h.deck.Draw(1)
			if err != nil {
				return h.invariant("dealing hole cards", err)
			}
			p.HoleCards = append(p.HoleCards, cards[0])
		}
	}
	return nil
}

func (h *Hand) dealStreet(street Street) error {
	count := 1
	if street == Flop {
		count = 3
	}

	burn, err := h.deck.Draw(1)
	if err != nil {
		return h.invariant("burning card", err)
	}
	h.burned = append(h.burned, burn...)

	cards, err := h.deck.Draw(count)
	if err != nil {
		return h.invariant(fmt.Sprintf("dealing %s", street), err)
	}
	h.board = append(h.board, cards...)
	h.logger.Debug("Dealt community cards", "street", street, "board", poker.FormatCards(h.board))
	return nil
}

// postBlinds posts forced bets. A player short of the blind goes all-in.
func (h *Hand) postBlinds() {
	sb, bb := h.players[h.sbSeat], h.players[h.bbSeat]
	sb.commit(h.smallBlind)
	bb.commit(h.bigBlind)
	h.betting.CurrentBet = h.bigBlind
	h.logger.Debug("Posted blinds", "small", sb.Name, "big", bb.Name)
}

func (h *Hand) firstToAct() int {
	n := len(h.players)
	if h.street == Preflop {
		return (h.bbSeat + 1) % n
	}
	return (h.button + 1) % n
}

func (h *Hand) runBetting(ctx context.Context) error {
	n := len(h.players)
	seat := h.firstToAct()
	for !h.betting.IsComplete(h.players) {
		if h.betting.NeedsAction(seat, h.players[seat]) {
			if err := h.act(ctx, seat); err != nil {
				return err
			}
		}
		seat = (seat + 1) % n
	}
	return nil
}

func (h *Hand) act(ctx context.Context, seat int) error {
	p := h.players[seat]
	req := DecisionRequest{
		View:   h.view(seat),
		ToCall: h.betting.ToCall(p),
		Chips:  p.Chips,
	}

	requested, fallback := h.decide(ctx, p, req)
	applied := h.betting.Normalize(seat, p, requested)
	corrected := fallback == NoFallback && isCorrection(requested, applied)
	if corrected {
		h.logger.Warn("Illegal action corrected",
			"player", p.Name,
			"requested", requested.Action,
			"amount", requested.Amount,
			"applied", applied.Action)
	}

	paid := h.betting.Apply(seat, p, applied)
	h.log.Record(ActionRecord{
		Round:         h.round,
		Street:        h.street,
		PlayerID:      p.ID,
		Player:        p.Name,
		Requested:     requested.Action,
		RequestAmount: requested.Amount,
		Action:        applied.Action,
		Paid:          paid,
		BetTo:         p.Bet,
		ToCall:        req.ToCall,
		Fallback:      fallback,
		Corrected:     corrected,
	})
	h.logger.Debug("Player action",
		"street", h.street,
		"player", p.Name,
		"action", applied.Action,
		"paid", paid,
		"bet", p.Bet,
		"chips", p.Chips)

	return h.checkConservation(fmt.Sprintf("%s %s", p.Name, applied.Action))
}

// isCorrection reports whether normalisation changed the meaning of a
// request. Capping a raise or call at the stack is not a correction.
func isCorrection(requested, applied Decision) bool {
	if requested.Action == applied.Action {
		return false
	}
	if applied.Action == AllIn && (requested.Action == Raise || requested.Action == Call) {
		return false
	}
	return true
}

func (h *Hand) view(seat int) TableView {
	p := h.players[seat]
	v := TableView{
		Round:      h.round,
		Street:     h.street,
		Seat:       seat,
		Button:     h.button,
		HoleCards:  append([]poker.Card(nil), p.HoleCards...),
		Board:      h.Board(),
		CurrentBet: h.betting.CurrentBet,
		MinRaiseTo: h.betting.MinRaiseTo(),
		MaxRaiseTo: p.Bet + p.Chips,
		CanRaise:   h.betting.CanRaise(seat),
		SmallBlind: h.smallBlind,
		BigBlind:   h.bigBlind,
		Players:    make([]PlayerView, len(h.players)),
	}
	for i, op := range h.players {
		v.Pot += op.TotalBet
		v.Players[i] = PlayerView{
			ID:       op.ID,
			Name:     op.Name,
			Chips:    op.Chips,
			Bet:      op.Bet,
			TotalBet: op.TotalBet,
			Folded:   op.Folded,
			AllIn:    op.AllIn,
		}
	}
	return v
}

func (h *Hand) inHandCount() int {
	count := 0
	for _, p := range h.players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// payoutOrder lists player IDs clockwise starting left of the button.
func (h *Hand) payoutOrder() []int {
	n := len(h.players)
	order := make([]int, n)
	for i := range order {
		order[i] = h.players[(h.button+1+i)%n].ID
	}
	return order
}

func (h *Hand) settle() (*HandResult, error) {
	result := &HandResult{
		Round:      h.round,
		Button:     h.players[h.button].ID,
		SmallBlind: h.players[h.sbSeat].ID,
		BigBlind:   h.players[h.bbSeat].ID,
		Board:      h.Board(),
		Burned:     append([]poker.Card(nil), h.burned...),
		Street:     h.street,
		Net:        make(map[int]int, len(h.players)),
	}

	byID := make(map[int]*Player, len(h.players))
	var last *Player
	for _, p := range h.players {
		byID[p.ID] = p
		result.Contributions = append(result.Contributions, Contribution{Player: p.ID, Amount: p.TotalBet, Folded: p.Folded})
		if p.InHand() {
			last = p
		}
	}
	pots := BuildPots(result.Contributions)
	result.Returned = Uncalled(result.Contributions)

	if h.inHandCount() == 1 {
		result.Awards = AwardUncontested(pots, last.ID)
	} else {
		h.street = Showdown
		result.Street = Showdown
		result.Showdown = true

		ranks := make(map[int]poker.HandRank)
		for _, p := range h.players {
			if !p.InHand() {
				continue
			}
			cards := append(append([]poker.Card(nil), p.HoleCards...), h.board...)
			rank, err := poker.Evaluate7(cards)
			if err != nil {
				return nil, h.invariant(fmt.Sprintf("evaluating %s", p.Name), err)
			}
			ranks[p.ID] = rank
			result.Hands = append(result.Hands, ShowdownHand{PlayerID: p.ID, HoleCards: p.HoleCards, Rank: rank})
		}
		result.Awards = ResolvePots(pots, ranks, h.payoutOrder())
	}

	for _, p := range h.players {
		p.Bet = 0
		p.TotalBet = 0
	}
	for _, award := range result.Awards {
		for i, id := range award.Winners {
			byID[id].Chips += award.Shares[i]
		}
	}
	for id, amount := range result.Returned {
		byID[id].Chips += amount
		h.logger.Debug("Unmatched chips returned", "player", byID[id].Name, "amount", amount)
	}
	if err := h.checkConservation("payout"); err != nil {
		return nil, err
	}

	for _, p := range h.players {
		result.Net[p.ID] = p.Chips - h.start[p.ID]
	}
	for _, award := range result.Awards {
		h.logger.Debug("Pot awarded", "amount", award.Amount, "winners", award.Winners, "shares", award.Shares)
	}
	return result, nil
}
