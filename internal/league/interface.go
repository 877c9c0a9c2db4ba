package league

import "github.com/thecooltechguy/smash-leaderboard/internal/smash"

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	UpsertPlayers(players []smash.Player) error
	GetAllPlayers() ([]smash.Player, error)
	GetPlayer(playerID string) (*smash.Player, error)
	GetPlayerByName(name string) (*smash.Player, error)
	IsKnownPlayer(playerID string) bool
	AddMatch(match *smash.Match, participants []smash.Participant) error
	SetMatchArchived(matchID string, archived bool) error
	ListMatches(limit, offset int) ([]MatchRecord, error)
	GetMatch(matchID string) (*MatchRecord, error)
	Snapshot() (*smash.Snapshot, error)
	GetMatchesForProcessing() ([]smash.Match, error)
	UpdateProcessingStatus(matchID string, status smash.ProcessingStatus) error
	Clear()
	ClearMatch(matchID string)
}
