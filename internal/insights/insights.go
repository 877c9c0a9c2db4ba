// Package insights derives dashboard summaries (overall totals, character
// usage, rivalries, recent form) from the same eligible-match history the
// standings use: archived matches and anything that is not a two-human 1v1
// never count.
package insights

import (
	"math"
	"sort"

	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// duel is one eligible 1v1 with its two human rows.
type duel struct {
	match smash.Match
	parts [2]smash.Participant
}

// eligibleDuels filters the snapshot down to eligible 1v1s. Unlike the
// standings computation this is a presentation path, so rows referencing
// unknown players are skipped rather than reported.
func eligibleDuels(snap *smash.Snapshot) []duel {
	known := make(map[string]bool, len(snap.Players))
	for _, p := range snap.Players {
		known[p.ID] = true
	}

	humans := make(map[string][]smash.Participant)
	for _, part := range snap.Participants {
		if part.IsCPU || !known[part.PlayerID] {
			continue
		}
		humans[part.MatchID] = append(humans[part.MatchID], part)
	}

	var duels []duel
	for _, m := range snap.Matches {
		parts := humans[m.ID]
		if m.Archived || len(parts) != 2 {
			continue
		}
		duels = append(duels, duel{match: m, parts: [2]smash.Participant{parts[0], parts[1]}})
	}
	// Oldest first; deterministic even with colliding timestamps.
	sort.Slice(duels, func(i, j int) bool {
		if duels[i].match.CreatedAt != duels[j].match.CreatedAt {
			return duels[i].match.CreatedAt < duels[j].match.CreatedAt
		}
		return duels[i].match.ID < duels[j].match.ID
	})
	return duels
}

func playerNames(snap *smash.Snapshot) map[string]string {
	names := make(map[string]string, len(snap.Players))
	for _, p := range snap.Players {
		name := p.DisplayName
		if name == "" {
			name = p.Name
		}
		names[p.ID] = name
	}
	return names
}

// Overall computes the history-wide totals.
func Overall(snap *smash.Snapshot) OverallStats {
	duels := eligibleDuels(snap)

	stats := OverallStats{
		TotalMatches: len(duels),
		TotalPlayers: len(snap.Players),
	}
	for _, p := range snap.Players {
		if !p.Inactive {
			stats.ActivePlayers++
		}
	}

	characters := make(map[string]bool)
	for i, d := range duels {
		if i == 0 {
			stats.FirstMatchAt = d.match.CreatedAt
		}
		stats.LastMatchAt = d.match.CreatedAt
		for _, part := range d.parts {
			stats.TotalKOs += part.KOs
			stats.TotalFalls += part.Falls
			stats.TotalSelfDestructs += part.SelfDestructs
			if part.Character != "" {
				characters[part.Character] = true
			}
		}
	}
	stats.UniqueCharacters = len(characters)

	if len(duels) > 0 {
		days := (stats.LastMatchAt - stats.FirstMatchAt) / 86400
		if days < 1 {
			days = 1
		}
		stats.AvgMatchesPerDay = round1(float64(len(duels)) / float64(days))
	}
	return stats
}

// Characters computes per-character usage, sorted by times played descending
// with character name as the tie-break.
func Characters(snap *smash.Snapshot) []CharacterStats {
	totals := make(map[string]*CharacterStats)
	players := make(map[string]map[string]bool)

	for _, d := range eligibleDuels(snap) {
		for _, part := range d.parts {
			if part.Character == "" {
				continue
			}
			cs := totals[part.Character]
			if cs == nil {
				cs = &CharacterStats{Character: part.Character}
				totals[part.Character] = cs
				players[part.Character] = make(map[string]bool)
			}
			cs.TimesPlayed++
			if part.HasWon {
				cs.Wins++
			}
			cs.KOs += part.KOs
			cs.Falls += part.Falls
			cs.SelfDestructs += part.SelfDestructs
			players[part.Character][part.PlayerID] = true
		}
	}

	result := make([]CharacterStats, 0, len(totals))
	for name, cs := range totals {
		cs.UniquePlayers = len(players[name])
		cs.WinRate = round1(float64(cs.Wins) / float64(cs.TimesPlayed) * 100)
		result = append(result, *cs)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TimesPlayed != result[j].TimesPlayed {
			return result[i].TimesPlayed > result[j].TimesPlayed
		}
		return result[i].Character < result[j].Character
	})
	return result
}

// Rivalries finds the most frequent pairings with at least three meetings,
// sorted by total matches descending.
func Rivalries(snap *smash.Snapshot) []Rivalry {
	names := playerNames(snap)

	type tally struct {
		p1, p2        string
		total, p1Wins int
	}
	tallies := make(map[string]*tally)

	for _, d := range eligibleDuels(snap) {
		a, b := d.parts[0], d.parts[1]
		// Normalize the pair so (a, b) and (b, a) share a tally.
		if a.PlayerID > b.PlayerID {
			a, b = b, a
		}
		key := a.PlayerID + "\x00" + b.PlayerID
		tl := tallies[key]
		if tl == nil {
			tl = &tally{p1: a.PlayerID, p2: b.PlayerID}
			tallies[key] = tl
		}
		tl.total++
		if a.HasWon {
			tl.p1Wins++
		}
	}

	var rivalries []Rivalry
	for _, tl := range tallies {
		if tl.total < rivalryMinMatches {
			continue
		}
		p2Wins := tl.total - tl.p1Wins
		dominant := tl.p1Wins
		if p2Wins > dominant {
			dominant = p2Wins
		}
		rivalries = append(rivalries, Rivalry{
			Player1:      names[tl.p1],
			Player2:      names[tl.p2],
			TotalMatches: tl.total,
			Player1Wins:  tl.p1Wins,
			Player2Wins:  p2Wins,
			Dominance:    round1(float64(dominant) / float64(tl.total) * 100),
		})
	}
	sort.Slice(rivalries, func(i, j int) bool {
		if rivalries[i].TotalMatches != rivalries[j].TotalMatches {
			return rivalries[i].TotalMatches > rivalries[j].TotalMatches
		}
		if rivalries[i].Player1 != rivalries[j].Player1 {
			return rivalries[i].Player1 < rivalries[j].Player1
		}
		return rivalries[i].Player2 < rivalries[j].Player2
	})
	return rivalries
}

// Form computes each qualifying player's last-10 record and whether they are
// trending hot or cold against the previous ten games.
func Form(snap *smash.Snapshot) []RecentForm {
	names := playerNames(snap)

	// Newest first per player.
	outcomes := make(map[string][]bool)
	duels := eligibleDuels(snap)
	for i := len(duels) - 1; i >= 0; i-- {
		for _, part := range duels[i].parts {
			outcomes[part.PlayerID] = append(outcomes[part.PlayerID], part.HasWon)
		}
	}

	var forms []RecentForm
	for playerID, history := range outcomes {
		if len(history) < formWindow {
			continue
		}
		wins := 0
		for _, won := range history[:formWindow] {
			if won {
				wins++
			}
		}

		trend := TrendStable
		if len(history) >= 2*formWindow {
			prevWins := 0
			for _, won := range history[formWindow : 2*formWindow] {
				if won {
					prevWins++
				}
			}
			switch {
			case wins > prevWins+2:
				trend = TrendHot
			case wins < prevWins-2:
				trend = TrendCold
			}
		}

		forms = append(forms, RecentForm{
			Player:       names[playerID],
			Last10Wins:   wins,
			Last10Losses: formWindow - wins,
			Trend:        trend,
			WinRate:      round1(float64(wins) / formWindow * 100),
		})
	}
	sort.Slice(forms, func(i, j int) bool {
		if forms[i].Last10Wins != forms[j].Last10Wins {
			return forms[i].Last10Wins > forms[j].Last10Wins
		}
		return forms[i].Player < forms[j].Player
	})
	return forms
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
