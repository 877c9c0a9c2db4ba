package standings

import (
	"sort"

	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// topOpponentsFaced counts, per player, the distinct members of the top-N
// rating pool that player has faced across eligible matches.
//
// The pool is deliberately defined by raw rating, not by ranked status.
// Making it "the top 10 ranked players" would turn qualification into a
// fixed-point computation; that is not a bug to fix, the non-recursive
// definition is the intended semantics.
func topOpponentsFaced(players []smash.Player, eligible map[string]smash.Match, byMatch map[string][]smash.Participant) map[string]int {
	pool := topRatedPool(players)

	distinct := make(map[string]map[string]bool)
	for id := range eligible {
		parts := byMatch[id]
		// Eligible matches always hold exactly two human rows.
		for i, part := range parts {
			opponent := parts[1-i]
			if opponent.PlayerID == part.PlayerID {
				continue // a player never counts as their own opponent
			}
			if !pool[opponent.PlayerID] {
				continue
			}
			set := distinct[part.PlayerID]
			if set == nil {
				set = make(map[string]bool)
				distinct[part.PlayerID] = set
			}
			set[opponent.PlayerID] = true
		}
	}

	faced := make(map[string]int, len(distinct))
	for playerID, set := range distinct {
		faced[playerID] = len(set)
	}
	return faced
}

// topRatedPool returns the top-N players by rating as a set. Players sharing a
// rating at the boundary are ordered by player id ascending, so the pool is
// the same on every run over the same data.
func topRatedPool(players []smash.Player) map[string]bool {
	sorted := make([]smash.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		return sorted[i].ID < sorted[j].ID
	})

	n := TopN
	if len(sorted) < n {
		n = len(sorted)
	}
	pool := make(map[string]bool, n)
	for _, p := range sorted[:n] {
		pool[p.ID] = true
	}
	return pool
}
