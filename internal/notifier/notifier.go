package notifier

import (
	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/standings"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches. Names maps player IDs to display names.
	SendResultNotification(rec *league.MatchRecord, names map[string]string, dryRun bool) error

	// For slash commands
	SendLeaderboard(result *standings.Result, dryRun bool) error
	SendPlayerStats(standing *standings.PlayerStanding, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(result *standings.Result) (any, error)
	FormatPlayerStatsResponse(standing *standings.PlayerStanding, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
