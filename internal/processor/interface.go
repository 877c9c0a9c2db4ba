package processor

import (
	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/notifier"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatchesForProcessing() ([]smash.Match, error)
	GetMatch(matchID string) (*league.MatchRecord, error)
	GetAllPlayers() ([]smash.Player, error)
	UpdateProcessingStatus(matchID string, status smash.ProcessingStatus) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}

// Standings is the slice of the standings service the processor needs: it only
// ever drops the cached result after a match changes.
type Standings interface {
	Invalidate()
}
