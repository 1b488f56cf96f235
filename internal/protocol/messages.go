// Package protocol defines the JSON messages exchanged with remote action
// providers over a websocket.
package protocol

import (
	"errors"
	"fmt"
	"time"

	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/poker"
)

// MessageType identifies a message on the wire.
type MessageType string

const (
	TypeActionRequest  MessageType = "action_request"
	TypeActionResponse MessageType = "action_response"
	TypeError          MessageType = "error"
)

var (
	// ErrUnexpectedMessage is returned for a reply of the wrong type or for
	// another request.
	ErrUnexpectedMessage = errors.New("unexpected message")
	// ErrRemote is wrapped around errors reported by the remote side.
	ErrRemote = errors.New("remote error")
)

// Seat is the public state of one player.
type Seat struct {
	Name     string `json:"name"`
	Chips    int    `json:"chips"`
	Bet      int    `json:"bet"`
	TotalBet int    `json:"totalBet"`
	Folded   bool   `json:"folded,omitempty"`
	AllIn    bool   `json:"allIn,omitempty"`
}

// ActionRequest asks the remote side for a decision.
type ActionRequest struct {
	Type       MessageType `json:"type"`
	RequestID  string      `json:"requestId"`
	Round      int         `json:"round"`
	Street     string      `json:"street"`
	Seat       int         `json:"seat"`
	Button     int         `json:"button"`
	HoleCards  []string    `json:"holeCards"`
	Board      []string    `json:"board"`
	Pot        int         `json:"pot"`
	CurrentBet int         `json:"currentBet"`
	ToCall     int         `json:"toCall"`
	MinRaiseTo int         `json:"minRaiseTo"`
	MaxRaiseTo int         `json:"maxRaiseTo"`
	CanRaise   bool        `json:"canRaise"`
	Chips      int         `json:"chips"`
	SmallBlind int         `json:"smallBlind"`
	BigBlind   int         `json:"bigBlind"`
	Players    []Seat      `json:"players"`
	Deadline   *time.Time  `json:"deadline,omitempty"`
}

// ActionResponse carries the remote decision.
type ActionResponse struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId"`
	Action    string      `json:"action"`
	Amount    int         `json:"amount,omitempty"`
	Reasoning string      `json:"reasoning,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// NewActionRequest builds the wire form of a decision request.
func NewActionRequest(id string, req game.DecisionRequest, deadline time.Time) *ActionRequest {
	v := req.View
	msg := &ActionRequest{
		Type:       TypeActionRequest,
		RequestID:  id,
		Round:      v.Round,
		Street:     v.Street.String(),
		Seat:       v.Seat,
		Button:     v.Button,
		HoleCards:  codes(v.HoleCards),
		Board:      codes(v.Board),
		Pot:        v.Pot,
		CurrentBet: v.CurrentBet,
		ToCall:     req.ToCall,
		MinRaiseTo: v.MinRaiseTo,
		MaxRaiseTo: v.MaxRaiseTo,
		CanRaise:   v.CanRaise,
		Chips:      req.Chips,
		SmallBlind: v.SmallBlind,
		BigBlind:   v.BigBlind,
		Players:    make([]Seat, len(v.Players)),
	}
	if !deadline.IsZero() {
		msg.Deadline = &deadline
	}
	for i, p := range v.Players {
		msg.Players[i] = Seat{
			Name:     p.Name,
			Chips:    p.Chips,
			Bet:      p.Bet,
			TotalBet: p.TotalBet,
			Folded:   p.Folded,
			AllIn:    p.AllIn,
		}
	}
	return msg
}

// Cards parses the hole cards and board of a request.
func (r *ActionRequest) Cards() (hole, board []poker.Card, err error) {
	if hole, err = parseCodes(r.HoleCards); err != nil {
		return nil, nil, fmt.Errorf("hole cards: %w", err)
	}
	if board, err = parseCodes(r.Board); err != nil {
		return nil, nil, fmt.Errorf("board: %w", err)
	}
	return hole, board, nil
}

// DecisionRequest rebuilds the engine's request on the remote side. Player
// IDs are seat indexes.
func (r *ActionRequest) DecisionRequest() (game.DecisionRequest, error) {
	hole, board, err := r.Cards()
	if err != nil {
		return game.DecisionRequest{}, err
	}
	street, err := parseStreet(r.Street)
	if err != nil {
		return game.DecisionRequest{}, err
	}
	if r.Seat < 0 || r.Seat >= len(r.Players) {
		return game.DecisionRequest{}, fmt.Errorf("seat %d out of range", r.Seat)
	}

	view := game.TableView{
		Round:      r.Round,
		Street:     street,
		Seat:       r.Seat,
		Button:     r.Button,
		HoleCards:  hole,
		Board:      board,
		Pot:        r.Pot,
		CurrentBet: r.CurrentBet,
		MinRaiseTo: r.MinRaiseTo,
		MaxRaiseTo: r.MaxRaiseTo,
		CanRaise:   r.CanRaise,
		SmallBlind: r.SmallBlind,
		BigBlind:   r.BigBlind,
		Players:    make([]game.PlayerView, len(r.Players)),
	}
	for i, p := range r.Players {
		view.Players[i] = game.PlayerView{
			ID:       i,
			Name:     p.Name,
			Chips:    p.Chips,
			Bet:      p.Bet,
			TotalBet: p.TotalBet,
			Folded:   p.Folded,
			AllIn:    p.AllIn,
		}
	}
	return game.DecisionRequest{View: view, ToCall: r.ToCall, Chips: r.Chips}, nil
}

// NewActionResponse answers the request with the given id.
func NewActionResponse(id string, d game.Decision) *ActionResponse {
	return &ActionResponse{
		Type:      TypeActionResponse,
		RequestID: id,
		Action:    d.Action.String(),
		Amount:    d.Amount,
		Reasoning: d.Reasoning,
	}
}

// NewError reports a failure to answer the request with the given id.
func NewError(id string, err error) *ActionResponse {
	return &ActionResponse{Type: TypeError, RequestID: id, Error: err.Error()}
}

// Decision validates the response against the request it answers.
func (r *ActionResponse) Decision(requestID string) (game.Decision, error) {
	switch {
	case r.Type == TypeError:
		return game.Decision{}, fmt.Errorf("%w: %s", ErrRemote, r.Error)
	case r.Type != TypeActionResponse:
		return game.Decision{}, fmt.Errorf("%w: type %q", ErrUnexpectedMessage, r.Type)
	case r.RequestID != requestID:
		return game.Decision{}, fmt.Errorf("%w: request %q, want %q", ErrUnexpectedMessage, r.RequestID, requestID)
	}

	action, err := game.ParseAction(r.Action)
	if err != nil {
		return game.Decision{}, err
	}
	return game.Decision{Action: action, Amount: r.Amount, Reasoning: r.Reasoning}, nil
}

func parseStreet(s string) (game.Street, error) {
	for st := game.Preflop; st <= game.Showdown; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown street %q", s)
}

func codes(cards []poker.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}

func parseCodes(codes []string) ([]poker.Card, error) {
	out := make([]poker.Card, len(codes))
	for i, s := range codes {
		c, err := poker.ParseCard(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
