package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/pharmabill/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideMetricsConfig,
		provideRegistry,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
)

// provideRegistry exposes the process-wide registry when metrics are
// enabled, and a private one otherwise so /metrics stays empty.
func provideRegistry(cfg Config) (prometheus.Registerer, prometheus.Gatherer) {
	if !cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		return reg, reg
	}
	return prometheus.DefaultRegisterer, prometheus.DefaultGatherer
}
