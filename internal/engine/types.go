package engine

import (
	"github.com/roccity/rally/internal/config"
	"github.com/roccity/rally/internal/metrics"
	"github.com/roccity/rally/internal/notifier"
	"github.com/roccity/rally/internal/store"
)

// Engine handles the business logic of the league: round generation, score
// entry, standings, session rollover and history resets. All operations
// run synchronously to completion and persist on success.
type Engine struct {
	store    store.LeagueStore
	notifier notifier.Notifier
	metrics  metrics.Metrics
	ops      metrics.MetricsStore
	cfg      config.LeagueConfig
}
