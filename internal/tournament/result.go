package tournament

import (
	"sort"

	"github.com/lox/holdem-tourney/internal/game"
)

// Elimination records a player busting out.
type Elimination struct {
	PlayerID int    `json:"seat"`
	Name     string `json:"name"`
	Round    int    `json:"round"`
	Place    int    `json:"place"`
}

// Stack is a player's chip count at a point in time.
type Stack struct {
	PlayerID int
	Name     string
	Chips    int
}

// Standing is a player's final position.
type Standing struct {
	Place           int
	PlayerID        int
	Name            string
	Tag             string
	Chips           int
	EliminatedRound int // 0 if still in
}

// RoundSummary is a read-only view of one round.
type RoundSummary struct {
	Round      int
	Hand       *game.HandResult
	Stacks     []Stack
	Eliminated []Elimination
	Actions    []game.ActionRecord
}

// Result is a read-only snapshot of a tournament.
type Result struct {
	ID           string
	Seed         int64
	Rounds       int
	TotalChips   int
	Finished     bool // Exactly one player remains
	Standings    []Standing
	Eliminations []Elimination
	Actions      []game.ActionRecord
	Failures     map[int]game.Failures
}

// Winner returns the last player standing, if there is one.
func (r *Result) Winner() (Standing, bool) {
	if !r.Finished || len(r.Standings) == 0 {
		return Standing{}, false
	}
	return r.Standings[0], true
}

// Snapshot returns the current standings, elimination order and action log.
// Players still in are ranked by chips, then by seat.
func (t *Tournament) Snapshot() *Result {
	r := &Result{
		ID:           t.id,
		Seed:         t.seed,
		Rounds:       t.round,
		TotalChips:   t.totalChips,
		Eliminations: append([]Elimination(nil), t.eliminations...),
		Actions:      t.actions.Records(),
		Failures:     t.actions.Failures(),
	}

	active := t.activePlayers()
	r.Finished = len(active) == 1
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Chips > active[j].Chips
	})
	for i, p := range active {
		r.Standings = append(r.Standings, Standing{
			Place:    i + 1,
			PlayerID: p.ID,
			Name:     p.Name,
			Tag:      p.Tag,
			Chips:    p.Chips,
		})
	}

	out := append([]Elimination(nil), t.eliminations...)
	sort.Slice(out, func(i, j int) bool { return out[i].Place < out[j].Place })
	for _, e := range out {
		r.Standings = append(r.Standings, Standing{
			Place:           e.Place,
			PlayerID:        e.PlayerID,
			Name:            e.Name,
			Tag:             t.players[e.PlayerID].Tag,
			EliminatedRound: e.Round,
		})
	}
	return r
}
