package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded()
	IncMatchesProcessed()
	ObserveProcessingDuration(duration float64)
	IncStandingsComputations()
	ObserveComputeDuration(duration float64)
	IncStandingsCacheHits()
	IncStandingsInvalidations()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
