package observability

import (
	"strings"

	"github.com/smallbiznis/pharmabill/internal/config"
	"github.com/smallbiznis/pharmabill/internal/observability/metrics"
)

// Config holds observability settings derived from the application config.
type Config struct {
	ServiceName    string
	Environment    string
	MetricsEnabled bool
	Debug          bool
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "pharmabill"
	}
	return Config{
		ServiceName:    serviceName,
		Environment:    strings.TrimSpace(cfg.Environment),
		MetricsEnabled: cfg.MetricsEnabled,
		Debug:          cfg.Debug(),
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}
}
