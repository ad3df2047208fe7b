package http

import (
	"net/http"

	"github.com/roccity/rally/internal/config"
	"github.com/roccity/rally/internal/engine"
	"github.com/roccity/rally/internal/metrics"
)

func NewServer(eng *engine.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, ops metrics.MetricsStore, cfg config.Config) *Server {
	server := &Server{
		Engine:         eng,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Ops:            ops,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/rounds", Chain(s.ListRoundsHandler(), paramsMiddleware))
	s.Router.Handle("/rounds/generate", Chain(s.GenerateRoundHandler(), paramsMiddleware))
	s.Router.Handle("/scores", Chain(s.EnterScoreHandler(), paramsMiddleware))
	s.Router.Handle("/rankings", Chain(s.RankingsHandler(), paramsMiddleware))
	s.Router.Handle("/session", Chain(s.SessionHandler(), paramsMiddleware))
	s.Router.Handle("/session/new", Chain(s.NewSessionHandler(), paramsMiddleware))
	s.Router.Handle("/sessions", Chain(s.SessionArchivesHandler(), paramsMiddleware))
	s.Router.Handle("/history/reset", Chain(s.ResetHistoryHandler(), paramsMiddleware))
	s.Router.Handle("/ops", Chain(s.OpsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
