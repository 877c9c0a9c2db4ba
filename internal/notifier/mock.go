package notifier

import (
	"sync"

	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/standings"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc func(rec *league.MatchRecord, names map[string]string, dryRun bool) error
	SendLeaderboardFunc        func(result *standings.Result, dryRun bool) error

	// Call records
	SendResultNotificationCalls []struct{ Record *league.MatchRecord }
	SendLeaderboardCalls        []*standings.Result
	SendPlayerStatsCalls        []struct {
		Standing *standings.PlayerStanding
		Query    string
	}
	SendPlayerNotFoundCalls []string

	// Spies for format functions
	FormatLeaderboardResponseFunc    func(result *standings.Result) (any, error)
	FormatPlayerStatsResponseFunc    func(standing *standings.PlayerStanding, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Last formatted responses
	LastLeaderboardResponse    any
	LastPlayerStatsResponse    any
	LastPlayerNotFoundResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendPlayerStatsCalls = nil
	m.SendPlayerNotFoundCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
	m.LastPlayerNotFoundResponse = nil
}

func (m *Mock) SendResultNotification(rec *league.MatchRecord, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct{ Record *league.MatchRecord }{rec})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(rec, names, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(result *standings.Result, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, result)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerStats(standing *standings.PlayerStanding, query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerStatsCalls = append(m.SendPlayerStatsCalls, struct {
		Standing *standings.PlayerStanding
		Query    string
	}{standing, query})
	return nil
}

func (m *Mock) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerNotFoundCalls = append(m.SendPlayerNotFoundCalls, query)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(result *standings.Result) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(result)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerStatsResponse(standing *standings.PlayerStanding, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		resp, err := m.FormatPlayerStatsResponseFunc(standing, query)
		m.LastPlayerStatsResponse = resp
		return resp, err
	}
	return "formatted_player_stats", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		resp, err := m.FormatPlayerNotFoundResponseFunc(query)
		m.LastPlayerNotFoundResponse = resp
		return resp, err
	}
	return "formatted_player_not_found", nil
}
