package standings

import (
	"sort"

	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// streakEntry is one eligible match outcome for a player, carrying the keys
// needed for recency ordering.
type streakEntry struct {
	createdAt int64
	matchID   string
	won       bool
}

// winStreaks computes each player's current consecutive-win count: order that
// player's eligible matches most-recent-first and count the prefix of wins,
// stopping at the first loss. The secondary ordering key (match id descending)
// keeps the result deterministic when two matches share a timestamp.
func winStreaks(eligible map[string]smash.Match, byMatch map[string][]smash.Participant) map[string]int {
	histories := make(map[string][]streakEntry)
	for id, m := range eligible {
		for _, part := range byMatch[id] {
			histories[part.PlayerID] = append(histories[part.PlayerID], streakEntry{
				createdAt: m.CreatedAt,
				matchID:   m.ID,
				won:       part.HasWon,
			})
		}
	}

	streaks := make(map[string]int, len(histories))
	for playerID, history := range histories {
		sort.Slice(history, func(i, j int) bool {
			if history[i].createdAt != history[j].createdAt {
				return history[i].createdAt > history[j].createdAt
			}
			return history[i].matchID > history[j].matchID
		})
		streak := 0
		for _, entry := range history {
			if !entry.won {
				break
			}
			streak++
		}
		streaks[playerID] = streak
	}
	return streaks
}
