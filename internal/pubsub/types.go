package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventStandingsRefresh EventType = "standings-refresh"
	EventNotifyResult     EventType = "notify-result"
)

// StandingsRefreshEvent asks the receiver to recompute the standings after a
// match has been recorded or archived.
type StandingsRefreshEvent struct {
	MatchID string `msgpack:"match_id"`
}

// ResultEvent carries a finished match for downstream notification.
type ResultEvent struct {
	MatchID string `msgpack:"match_id"`
	Winner  string `msgpack:"winner"`
	Loser   string `msgpack:"loser"`
}
