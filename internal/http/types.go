package http

import (
	"net/http"

	"github.com/thecooltechguy/smash-leaderboard/internal/config"
	"github.com/thecooltechguy/smash-leaderboard/internal/league"
	"github.com/thecooltechguy/smash-leaderboard/internal/metrics"
	"github.com/thecooltechguy/smash-leaderboard/internal/notifier"
	"github.com/thecooltechguy/smash-leaderboard/internal/processor"
	"github.com/thecooltechguy/smash-leaderboard/internal/pubsub"
	"github.com/thecooltechguy/smash-leaderboard/internal/standings"
)

type Server struct {
	Store          league.LeagueStore
	Standings      *standings.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
