package league

import (
	"database/sql"
	"sync"

	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MatchRecord is a match together with its participant rows, as served by the
// match history view.
type MatchRecord struct {
	Match        smash.Match         `json:"match"`
	Participants []smash.Participant `json:"participants"`
}
