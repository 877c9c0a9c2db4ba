package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                     sync.Mutex
	matchesRecorded        int
	matchesProcessed       int
	processingDurations    []float64
	standingsComputations  int
	computeDurations       []float64
	standingsCacheHits     int
	standingsInvalidations int
	slackNotifSent         int
	slackNotifFailed       int
	startupTime            float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
		computeDurations:    make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncMatchesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesProcessed++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncStandingsComputations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsComputations++
}

func (m *Mock) ObserveComputeDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.computeDurations = append(m.computeDurations, duration)
}

func (m *Mock) IncStandingsCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsCacheHits++
}

func (m *Mock) IncStandingsInvalidations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standingsInvalidations++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// MatchesProcessed returns the number of times IncMatchesProcessed was called.
func (m *Mock) MatchesProcessed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesProcessed
}

// StandingsComputations returns the number of times IncStandingsComputations was called.
func (m *Mock) StandingsComputations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsComputations
}

// StandingsCacheHits returns the number of times IncStandingsCacheHits was called.
func (m *Mock) StandingsCacheHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsCacheHits
}

// StandingsInvalidations returns the number of times IncStandingsInvalidations was called.
func (m *Mock) StandingsInvalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingsInvalidations
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
