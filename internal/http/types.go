package http

import (
	"net/http"

	"github.com/roccity/rally/internal/config"
	"github.com/roccity/rally/internal/engine"
	"github.com/roccity/rally/internal/metrics"
)

type Server struct {
	Engine         *engine.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Ops            metrics.MetricsStore
	Cfg            config.Config
	Router         *http.ServeMux
}
