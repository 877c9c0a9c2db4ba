package insights

// OverallStats summarizes the whole eligible match history.
type OverallStats struct {
	TotalMatches       int     `json:"total_matches"`
	TotalPlayers       int     `json:"total_players"`
	ActivePlayers      int     `json:"active_players"`
	FirstMatchAt       int64   `json:"first_match_at,omitempty"`
	LastMatchAt        int64   `json:"last_match_at,omitempty"`
	TotalKOs           int     `json:"total_kos"`
	TotalFalls         int     `json:"total_falls"`
	TotalSelfDestructs int     `json:"total_sds"`
	UniqueCharacters   int     `json:"unique_characters_played"`
	AvgMatchesPerDay   float64 `json:"avg_matches_per_day"`
}

// CharacterStats is the per-character usage and performance summary.
type CharacterStats struct {
	Character     string  `json:"character"`
	TimesPlayed   int     `json:"times_played"`
	Wins          int     `json:"wins"`
	WinRate       float64 `json:"win_rate"`
	KOs           int     `json:"kos"`
	Falls         int     `json:"falls"`
	SelfDestructs int     `json:"sds"`
	UniquePlayers int     `json:"unique_players"`
}

// Rivalry is a frequently repeated head-to-head pairing.
type Rivalry struct {
	Player1      string  `json:"player1"`
	Player2      string  `json:"player2"`
	TotalMatches int     `json:"total_matches"`
	Player1Wins  int     `json:"player1_wins"`
	Player2Wins  int     `json:"player2_wins"`
	Dominance    float64 `json:"dominance"`
}

// RecentForm is a player's last-10-games window compared against the ten
// before it.
type RecentForm struct {
	Player       string  `json:"player"`
	Last10Wins   int     `json:"last_10_wins"`
	Last10Losses int     `json:"last_10_losses"`
	Trend        string  `json:"form_trend"`
	WinRate      float64 `json:"win_rate"`
}

// Trend values for RecentForm.
const (
	TrendHot    = "hot"
	TrendCold   = "cold"
	TrendStable = "stable"
)

// rivalryMinMatches is the minimum number of meetings before a pairing counts
// as a rivalry.
const rivalryMinMatches = 3

// formWindow is the size of the recent-form window.
const formWindow = 10
