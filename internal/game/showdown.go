package game

import (
	"sort"

	"github.com/lox/holdem-tourney/poker"
)

// PotAward is the resolution of one pot.
type PotAward struct {
	Pot
	Winners []int // Player IDs in odd-chip order
	Shares  []int // Chips won, aligned with Winners
	Rank    poker.HandRank
}

// SplitPot divides amount evenly between winners. Odd chips go one at a time
// to the winners in the order given.
func SplitPot(amount int, winners []int) []int {
	if len(winners) == 0 {
		return nil
	}
	shares := make([]int, len(winners))
	base, rem := amount/len(winners), amount%len(winners)
	for i := range shares {
		shares[i] = base
		if i < rem {
			shares[i]++
		}
	}
	return shares
}

// ResolvePots awards each pot, smallest tier first, to the eligible players
// holding the best rank. order lists player IDs clockwise starting left of
// the button and decides who receives odd chips.
func ResolvePots(pots []Pot, ranks map[int]poker.HandRank, order []int) []PotAward {
	position := make(map[int]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	awards := make([]PotAward, 0, len(pots))
	for _, pot := range pots {
		var best poker.HandRank
		var winners []int
		for _, id := range pot.Eligible {
			rank, ok := ranks[id]
			if !ok {
				continue
			}
			switch {
			case len(winners) == 0 || rank > best:
				best, winners = rank, []int{id}
			case rank == best:
				winners = append(winners, id)
			}
		}
		if len(winners) == 0 {
			winners = append(winners, pot.Eligible...)
		}

		sort.SliceStable(winners, func(i, j int) bool {
			return position[winners[i]] < position[winners[j]]
		})

		awards = append(awards, PotAward{
			Pot:     pot,
			Winners: winners,
			Shares:  SplitPot(pot.Amount, winners),
			Rank:    best,
		})
	}
	return awards
}

// AwardUncontested gives every pot to the last player standing.
func AwardUncontested(pots []Pot, winner int) []PotAward {
	awards := make([]PotAward, 0, len(pots))
	for _, pot := range pots {
		awards = append(awards, PotAward{
			Pot:     pot,
			Winners: []int{winner},
			Shares:  []int{pot.Amount},
		})
	}
	return awards
}
