package main

import (
	"github.com/lox/holdem-tourney/internal/fileutil"
	"github.com/lox/holdem-tourney/internal/simulator"
	"github.com/lox/holdem-tourney/internal/tournament"
)

type exportedBatch struct {
	Seed        int64                `json:"seed"`
	Tournaments []exportedTournament `json:"tournaments"`
	Players     []exportedPlayer     `json:"players"`
}

type exportedTournament struct {
	ID           string                   `json:"id"`
	Seed         int64                    `json:"seed"`
	Rounds       int                      `json:"rounds"`
	Finished     bool                     `json:"finished"`
	Standings    []exportedStanding       `json:"standings"`
	Eliminations []tournament.Elimination `json:"eliminations"`
}

type exportedStanding struct {
	Place      int    `json:"place"`
	Name       string `json:"name"`
	Strategy   string `json:"strategy"`
	Chips      int    `json:"chips"`
	OutInRound int    `json:"outInRound,omitempty"`
	Timeouts   int    `json:"timeouts,omitempty"`
	Errors     int    `json:"errors,omitempty"`
	Corrected  int    `json:"corrected,omitempty"`
}

type exportedPlayer struct {
	Name        string  `json:"name"`
	Strategy    string  `json:"strategy"`
	Tournaments int     `json:"tournaments"`
	Wins        int     `json:"wins"`
	MeanPlace   float64 `json:"meanPlace"`
	NetChips    int     `json:"netChips"`
	Volatility  float64 `json:"volatility"`
	AvgBet      float64 `json:"avgBet"`
	Aggression  float64 `json:"aggression"`
	Passivity   float64 `json:"passivity"`
}

func newExport(batch *simulator.Batch) exportedBatch {
	out := exportedBatch{Seed: batch.Seed}
	for _, res := range batch.Results {
		t := exportedTournament{
			ID:           res.ID,
			Seed:         res.Seed,
			Rounds:       res.Rounds,
			Finished:     res.Finished,
			Eliminations: res.Eliminations,
		}
		for _, s := range res.Standings {
			f := res.Failures[s.PlayerID]
			t.Standings = append(t.Standings, exportedStanding{
				Place:      s.Place,
				Name:       s.Name,
				Strategy:   s.Tag,
				Chips:      s.Chips,
				OutInRound: s.EliminatedRound,
				Timeouts:   f.Timeouts,
				Errors:     f.Errors,
				Corrected:  f.Corrections,
			})
		}
		out.Tournaments = append(out.Tournaments, t)
	}
	for _, p := range batch.Report.Players() {
		out.Players = append(out.Players, exportedPlayer{
			Name:        p.Name,
			Strategy:    p.Tag,
			Tournaments: p.Tournaments,
			Wins:        p.Wins,
			MeanPlace:   p.Places.Mean(),
			NetChips:    p.NetChips,
			Volatility:  p.Volatility(),
			AvgBet:      p.AvgBet(),
			Aggression:  p.Aggression(),
			Passivity:   p.Passivity(),
		})
	}
	return out
}

// writeResults saves the batch as JSON.
func writeResults(filename string, batch *simulator.Batch) error {
	return fileutil.WriteJSON(filename, newExport(batch), 0o644)
}
