package processor

import (
	"github.com/thecooltechguy/smash-leaderboard/internal/metrics"
	"github.com/thecooltechguy/smash-leaderboard/internal/pubsub"
)

// Processor advances recorded matches through their notification and
// standings-refresh lifecycle.
type Processor struct {
	store     Store
	notifier  Notifier
	metrics   metrics.Metrics
	pubsub    pubsub.PubSubClient
	standings Standings
}
