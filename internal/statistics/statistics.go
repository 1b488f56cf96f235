// Package statistics aggregates per-player results across a batch of
// tournaments.
package statistics

import (
	"sort"

	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/internal/tournament"
)

// PlayerStats tracks one player across tournaments. Players are matched by
// name.
type PlayerStats struct {
	Name string
	Tag  string

	Tournaments int
	Wins        int
	Places      Sample // Finishing place
	FinalChips  Sample // Final stack, the basis for volatility
	NetChips    int    // Total chips won or lost

	Decisions int
	Raises    int // Raises and all-ins
	Folds     int
	Bets      Sample // Chips put in by each decision, zero for folds and checks

	Failures game.Failures
}

// Volatility is the standard deviation of final stacks.
func (p *PlayerStats) Volatility() float64 {
	return p.FinalChips.StdDev()
}

// AvgBet is the mean number of chips put in per decision. Folds and checks
// count as zero.
func (p *PlayerStats) AvgBet() float64 {
	return p.Bets.Mean()
}

// Aggression is the share of decisions that raised or moved all-in.
func (p *PlayerStats) Aggression() float64 {
	return ratio(p.Raises, p.Decisions)
}

// Passivity is the share of decisions that folded.
func (p *PlayerStats) Passivity() float64 {
	return ratio(p.Folds, p.Decisions)
}

// WinRate is the share of tournaments won outright.
func (p *PlayerStats) WinRate() float64 {
	return ratio(p.Wins, p.Tournaments)
}

// Report aggregates a batch of tournament results.
type Report struct {
	Tournaments int
	Finished    int    // Tournaments that ended with a single winner
	Rounds      Sample // Rounds per tournament

	players map[string]*PlayerStats
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{players: make(map[string]*PlayerStats)}
}

// Add folds one tournament result into the report.
func (r *Report) Add(res *tournament.Result) {
	if res == nil || len(res.Standings) == 0 {
		return
	}
	r.Tournaments++
	r.Rounds.Add(float64(res.Rounds))
	if res.Finished {
		r.Finished++
	}

	starting := res.TotalChips / len(res.Standings)
	byID := make(map[int]*PlayerStats, len(res.Standings))
	for _, s := range res.Standings {
		p := r.player(s.Name, s.Tag)
		byID[s.PlayerID] = p

		p.Tournaments++
		p.Places.Add(float64(s.Place))
		p.FinalChips.Add(float64(s.Chips))
		p.NetChips += s.Chips - starting
		if res.Finished && s.Place == 1 {
			p.Wins++
		}
	}

	for _, a := range res.Actions {
		p := byID[a.PlayerID]
		if p == nil {
			continue
		}
		p.Decisions++
		switch a.Action {
		case game.Raise, game.AllIn:
			p.Raises++
		case game.Fold:
			p.Folds++
		}
		p.Bets.Add(float64(a.Paid))
	}

	for id, f := range res.Failures {
		if p := byID[id]; p != nil {
			p.Failures.Timeouts += f.Timeouts
			p.Failures.Errors += f.Errors
			p.Failures.Corrections += f.Corrections
		}
	}
}

// Player returns the stats for name, if present.
func (r *Report) Player(name string) (*PlayerStats, bool) {
	p, ok := r.players[name]
	return p, ok
}

// Players returns every player, best first: most wins, then best mean
// place, then name.
func (r *Report) Players() []*PlayerStats {
	out := make([]*PlayerStats, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.Places.Mean() != b.Places.Mean() {
			return a.Places.Mean() < b.Places.Mean()
		}
		return a.Name < b.Name
	})
	return out
}

func (r *Report) player(name, tag string) *PlayerStats {
	p, ok := r.players[name]
	if !ok {
		p = &PlayerStats{Name: name, Tag: tag}
		r.players[name] = p
	}
	return p
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
