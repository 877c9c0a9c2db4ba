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

func NewServer(store league.LeagueStore, standingsSvc *standings.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Standings:      standingsSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("/standings/unranked", Chain(s.UnrankedHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.MatchesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/archive", Chain(s.ArchiveMatchHandler(true), paramsMiddleware))
	s.Router.Handle("/matches/unarchive", Chain(s.ArchiveMatchHandler(false), paramsMiddleware))
	s.Router.Handle("/process", Chain(s.ProcessMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/insights/overall", Chain(s.OverallInsightsHandler(), paramsMiddleware))
	s.Router.Handle("/insights/characters", Chain(s.CharacterInsightsHandler(), paramsMiddleware))
	s.Router.Handle("/insights/rivalries", Chain(s.RivalryInsightsHandler(), paramsMiddleware))
	s.Router.Handle("/insights/form", Chain(s.FormInsightsHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/standings-refresh", Chain(s.StandingsRefreshHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
