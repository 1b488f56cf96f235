package game

import "sort"

// Contribution is one player's total commitment to a hand.
type Contribution struct {
	Player int // Player ID
	Amount int
	Folded bool
}

// Pot is a main or side pot. Level is the contribution tier that closes it.
type Pot struct {
	Amount   int
	Level    int
	Eligible []int // Player IDs, in contribution order
}

// BuildPots splits contributions into a main pot and side pots.
//
// Each distinct contribution level forms a tier worth (level - previous
// level) times the number of players who put in at least that level; the
// non-folded players among them are eligible to win it. Adjacent tiers with
// the same eligible players are merged. Chips above the largest contribution
// of a player still in the hand are left out; see Uncalled.
func BuildPots(contributions []Contribution) []Pot {
	limit := liveLimit(contributions)

	var levels []int
	seen := make(map[int]bool)
	for _, c := range contributions {
		amount := min(c.Amount, limit)
		if amount > 0 && !seen[amount] {
			seen[amount] = true
			levels = append(levels, amount)
		}
	}
	sort.Ints(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		contributors := 0
		var eligible []int
		for _, c := range contributions {
			if c.Amount < level {
				continue
			}
			contributors++
			if !c.Folded {
				eligible = append(eligible, c.Player)
			}
		}

		amount := (level - prev) * contributors
		prev = level

		if n := len(pots); n > 0 && sameSet(pots[n-1].Eligible, eligible) {
			pots[n-1].Amount += amount
			pots[n-1].Level = level
			continue
		}
		pots = append(pots, Pot{Amount: amount, Level: level, Eligible: eligible})
	}
	return pots
}

// Uncalled returns the chips each player put in above the largest
// contribution of any player still in the hand, keyed by player ID. Nobody
// can win them, so they go back to whoever put them in.
func Uncalled(contributions []Contribution) map[int]int {
	limit := liveLimit(contributions)
	out := make(map[int]int)
	for _, c := range contributions {
		if c.Amount > limit {
			out[c.Player] = c.Amount - limit
		}
	}
	return out
}

func liveLimit(contributions []Contribution) int {
	limit := 0
	for _, c := range contributions {
		if !c.Folded && c.Amount > limit {
			limit = c.Amount
		}
	}
	return limit
}

// TotalPot sums the amounts of all pots.
func TotalPot(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
