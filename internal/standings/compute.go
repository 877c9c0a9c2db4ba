package standings

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// Compute derives the full standings from a snapshot. It is a pure function:
// it never mutates the snapshot and has no side effects, so recomputing over
// an unchanged snapshot always yields identical output, ordering included.
func Compute(snap *smash.Snapshot) (*Result, error) {
	eligible, byMatch, err := eligibleMatches(snap)
	if err != nil {
		return nil, err
	}

	totals := aggregate(eligible, byMatch)
	streaks := winStreaks(eligible, byMatch)
	faced := topOpponentsFaced(snap.Players, eligible, byMatch)

	return assemble(snap.Players, totals, streaks, faced), nil
}

// eligibleMatches returns the set of ranked-eligible matches and the non-CPU
// participant rows grouped per match. A match is eligible iff it is not
// archived and has exactly two non-CPU participants. It also validates
// referential integrity: a participant pointing at a missing match or player,
// or a duplicate (match, player) pair, is a data error, not something to drop.
func eligibleMatches(snap *smash.Snapshot) (map[string]smash.Match, map[string][]smash.Participant, error) {
	matches := make(map[string]smash.Match, len(snap.Matches))
	for _, m := range snap.Matches {
		matches[m.ID] = m
	}
	players := make(map[string]bool, len(snap.Players))
	for _, p := range snap.Players {
		players[p.ID] = true
	}

	humans := make(map[string][]smash.Participant)
	seen := make(map[string]bool, len(snap.Participants))
	for _, part := range snap.Participants {
		if _, ok := matches[part.MatchID]; !ok {
			return nil, nil, fmt.Errorf("participant %d references unknown match %q", part.ID, part.MatchID)
		}
		if part.IsCPU {
			// CPU rows never count toward the two-human check or any aggregate.
			continue
		}
		if !players[part.PlayerID] {
			return nil, nil, fmt.Errorf("participant %d references unknown player %q", part.ID, part.PlayerID)
		}
		key := part.MatchID + "\x00" + part.PlayerID
		if seen[key] {
			return nil, nil, fmt.Errorf("duplicate participant for player %q in match %q", part.PlayerID, part.MatchID)
		}
		seen[key] = true
		humans[part.MatchID] = append(humans[part.MatchID], part)
	}

	eligible := make(map[string]smash.Match)
	byMatch := make(map[string][]smash.Participant)
	for id, parts := range humans {
		m := matches[id]
		if m.Archived || len(parts) != 2 {
			continue
		}
		eligible[id] = m
		byMatch[id] = parts
	}
	return eligible, byMatch, nil
}

// aggregate computes the per-player win/loss and combat sums plus character
// usage counts over eligible matches only.
func aggregate(eligible map[string]smash.Match, byMatch map[string][]smash.Participant) map[string]*playerTotals {
	totals := make(map[string]*playerTotals)
	for id := range eligible {
		for _, part := range byMatch[id] {
			t := totals[part.PlayerID]
			if t == nil {
				t = &playerTotals{characterUses: make(map[string]int)}
				totals[part.PlayerID] = t
			}
			if part.HasWon {
				t.wins++
			} else {
				t.losses++
			}
			t.kos += part.KOs
			t.falls += part.Falls
			t.selfDestructs += part.SelfDestructs
			if part.Character != "" {
				t.characterUses[part.Character]++
			}
		}
	}
	return totals
}

// mainCharacter picks the most-used character. Ties are broken by the
// lexicographically smallest name so the result is deterministic.
func mainCharacter(uses map[string]int) string {
	best := ""
	bestCount := 0
	for character, count := range uses {
		if count > bestCount || (count == bestCount && bestCount > 0 && character < best) {
			best = character
			bestCount = count
		}
	}
	return best
}

func assemble(players []smash.Player, totals map[string]*playerTotals, streaks map[string]int, faced map[string]int) *Result {
	leaderboard := make([]PlayerStanding, 0, len(players))
	for _, p := range players {
		s := PlayerStanding{
			PlayerID:    p.ID,
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Rating:      p.Rating,
			Country:     p.Country,
			Inactive:    p.Inactive,
		}
		if t := totals[p.ID]; t != nil {
			s.Wins = t.wins
			s.Losses = t.losses
			s.KOs = t.kos
			s.Falls = t.falls
			s.SelfDestructs = t.selfDestructs
			s.MainCharacter = mainCharacter(t.characterUses)
			if t.wins+t.losses > 0 {
				s.WinRate = math.Round(float64(t.wins)/float64(t.wins+t.losses)*1000) / 10
			}
		}
		s.WinStreak = streaks[p.ID]
		s.TopOpponentsFaced = faced[p.ID]
		s.Ranked = s.TopOpponentsFaced >= RankedThreshold
		leaderboard = append(leaderboard, s)
	}

	sort.Slice(leaderboard, func(i, j int) bool {
		if leaderboard[i].Rating != leaderboard[j].Rating {
			return leaderboard[i].Rating > leaderboard[j].Rating
		}
		return leaderboard[i].PlayerID < leaderboard[j].PlayerID
	})

	var unranked []PlayerStanding
	for _, s := range leaderboard {
		if !s.Ranked {
			unranked = append(unranked, s)
		}
	}
	// Closest to qualifying first.
	sort.Slice(unranked, func(i, j int) bool {
		if unranked[i].TopOpponentsFaced != unranked[j].TopOpponentsFaced {
			return unranked[i].TopOpponentsFaced > unranked[j].TopOpponentsFaced
		}
		if unranked[i].Rating != unranked[j].Rating {
			return unranked[i].Rating > unranked[j].Rating
		}
		return strings.Compare(unranked[i].PlayerID, unranked[j].PlayerID) < 0
	})

	return &Result{Leaderboard: leaderboard, Unranked: unranked}
}
