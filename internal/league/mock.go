package league

import (
	"sync"

	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
)

// MockStore is a mock implementation of the LeagueStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayersFunc           func(players []smash.Player) error
	GetAllPlayersFunc           func() ([]smash.Player, error)
	GetPlayerFunc               func(playerID string) (*smash.Player, error)
	GetPlayerByNameFunc         func(name string) (*smash.Player, error)
	IsKnownPlayerFunc           func(playerID string) bool
	AddMatchFunc                func(match *smash.Match, participants []smash.Participant) error
	SetMatchArchivedFunc        func(matchID string, archived bool) error
	ListMatchesFunc             func(limit, offset int) ([]MatchRecord, error)
	GetMatchFunc                func(matchID string) (*MatchRecord, error)
	SnapshotFunc                func() (*smash.Snapshot, error)
	GetMatchesForProcessingFunc func() ([]smash.Match, error)
	UpdateProcessingStatusFunc  func(matchID string, status smash.ProcessingStatus) error
	ClearFunc                   func()
	ClearMatchFunc              func(matchID string)

	// Call records
	UpsertPlayersCalls [][]smash.Player
	AddMatchCalls      []struct {
		Match        *smash.Match
		Participants []smash.Participant
	}
	SetMatchArchivedCalls []struct {
		MatchID  string
		Archived bool
	}
	UpdateProcessingStatusCalls []struct {
		MatchID string
		Status  smash.ProcessingStatus
	}
	GetPlayerByNameCalls []string
	ClearMatchCalls      []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = nil
	m.AddMatchCalls = nil
	m.SetMatchArchivedCalls = nil
	m.UpdateProcessingStatusCalls = nil
	m.GetPlayerByNameCalls = nil
	m.ClearMatchCalls = nil
}

func (m *MockStore) UpsertPlayers(players []smash.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, players)
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *MockStore) GetAllPlayers() ([]smash.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetPlayer(playerID string) (*smash.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerByName(name string) (*smash.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerByNameCalls = append(m.GetPlayerByNameCalls, name)
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(name)
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) AddMatch(match *smash.Match, participants []smash.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddMatchCalls = append(m.AddMatchCalls, struct {
		Match        *smash.Match
		Participants []smash.Participant
	}{match, participants})
	if m.AddMatchFunc != nil {
		return m.AddMatchFunc(match, participants)
	}
	return nil
}

func (m *MockStore) SetMatchArchived(matchID string, archived bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetMatchArchivedCalls = append(m.SetMatchArchivedCalls, struct {
		MatchID  string
		Archived bool
	}{matchID, archived})
	if m.SetMatchArchivedFunc != nil {
		return m.SetMatchArchivedFunc(matchID, archived)
	}
	return nil
}

func (m *MockStore) ListMatches(limit, offset int) ([]MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(limit, offset)
	}
	return nil, nil
}

func (m *MockStore) GetMatch(matchID string) (*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) Snapshot() (*smash.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return &smash.Snapshot{}, nil
}

func (m *MockStore) GetMatchesForProcessing() ([]smash.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForProcessingFunc != nil {
		return m.GetMatchesForProcessingFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateProcessingStatus(matchID string, status smash.ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = append(m.UpdateProcessingStatusCalls, struct {
		MatchID string
		Status  smash.ProcessingStatus
	}{matchID, status})
	if m.UpdateProcessingStatusFunc != nil {
		return m.UpdateProcessingStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearMatchCalls = append(m.ClearMatchCalls, matchID)
	if m.ClearMatchFunc != nil {
		m.ClearMatchFunc(matchID)
	}
}
