package smash

// DefaultRating is the rating assigned to a freshly registered player.
// Ratings are maintained by an external process; this service only reads them.
const DefaultRating = 1200

// Player represents a registered player.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Rating      int    `json:"rating"`
	Inactive    bool   `json:"inactive"`
	Country     string `json:"country,omitempty"`
	Picture     string `json:"picture,omitempty"`
}

// Match represents a single recorded game. Matches are immutable once created,
// except for the archived flag which removes them from every aggregate.
type Match struct {
	ID               string           `json:"id"`
	CreatedAt        int64            `json:"created_at"`
	Archived         bool             `json:"archived"`
	ProcessingStatus ProcessingStatus `json:"processing_status,omitempty"`
}

// Participant is one player's (or CPU's) row in a match.
type Participant struct {
	ID            int64  `json:"id"`
	MatchID       string `json:"match_id"`
	PlayerID      string `json:"player_id"`
	Character     string `json:"character"`
	IsCPU         bool   `json:"is_cpu"`
	KOs           int    `json:"kos"`
	Falls         int    `json:"falls"`
	SelfDestructs int    `json:"self_destructs"`
	HasWon        bool   `json:"has_won"`
}

// Snapshot is a point-in-time read of all leaderboard data. The standings and
// insights computations consume it read-only.
type Snapshot struct {
	Players      []Player
	Matches      []Match
	Participants []Participant
}

// ProcessingStatus defines the internal processing state of a match.
type ProcessingStatus string

const (
	StatusNew                ProcessingStatus = "NEW"
	StatusResultNotified     ProcessingStatus = "RESULT_NOTIFIED"
	StatusStandingsRefreshed ProcessingStatus = "STANDINGS_REFRESHED"
	StatusCompleted          ProcessingStatus = "COMPLETED"
)
