package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesRecorded        prometheus.Counter
	MatchesProcessed       prometheus.Counter
	ProcessingDuration     prometheus.Histogram
	StandingsComputations  prometheus.Counter
	ComputeDuration        prometheus.Histogram
	StandingsCacheHits     prometheus.Counter
	StandingsInvalidations prometheus.Counter
	SlackNotifSent         prometheus.Counter
	SlackNotifFailed       prometheus.Counter
	StartupTimeSeconds     prometheus.Gauge
}
