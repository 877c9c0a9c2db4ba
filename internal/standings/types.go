package standings

const (
	// TopN is the size of the rating-based qualification pool.
	TopN = 10
	// RankedThreshold is the number of distinct top-N opponents a player must
	// have faced to count as ranked.
	RankedThreshold = 3
)

// PlayerStanding is the fully assembled leaderboard record for one player.
type PlayerStanding struct {
	PlayerID          string  `json:"player_id"`
	Name              string  `json:"name"`
	DisplayName       string  `json:"display_name,omitempty"`
	Rating            int     `json:"rating"`
	Country           string  `json:"country,omitempty"`
	Inactive          bool    `json:"inactive,omitempty"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	WinRate           float64 `json:"win_rate"`
	KOs               int     `json:"kos"`
	Falls             int     `json:"falls"`
	SelfDestructs     int     `json:"self_destructs"`
	MainCharacter     string  `json:"main_character,omitempty"`
	WinStreak         int     `json:"win_streak"`
	TopOpponentsFaced int     `json:"top_opponents_faced"`
	Ranked            bool    `json:"ranked"`
}

// Result holds both presentation orderings of the same standings records.
// Leaderboard is every player sorted by rating; Unranked is the subset of
// unranked players sorted by how close they are to qualifying.
type Result struct {
	Leaderboard []PlayerStanding `json:"leaderboard"`
	Unranked    []PlayerStanding `json:"unranked"`
}

// playerTotals accumulates the per-player sums before assembly.
type playerTotals struct {
	wins          int
	losses        int
	kos           int
	falls         int
	selfDestructs int
	characterUses map[string]int
}
