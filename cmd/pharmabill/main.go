package main

import (
	"github.com/smallbiznis/pharmabill/internal/bill"
	"github.com/smallbiznis/pharmabill/internal/clock"
	"github.com/smallbiznis/pharmabill/internal/config"
	"github.com/smallbiznis/pharmabill/internal/idgen"
	"github.com/smallbiznis/pharmabill/internal/logger"
	"github.com/smallbiznis/pharmabill/internal/medicine"
	"github.com/smallbiznis/pharmabill/internal/observability"
	"github.com/smallbiznis/pharmabill/internal/providers/pdf"
	"github.com/smallbiznis/pharmabill/internal/seed"
	"github.com/smallbiznis/pharmabill/internal/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		clock.Module,
		fx.Provide(RegisterIDGenerator),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Functional Domains
		medicine.Module,
		bill.Module,
		pdf.Module,
		seed.Module,

		server.Module,
	)
	app.Run()
}

func RegisterIDGenerator(cfg config.Config) (idgen.Generator, error) {
	return idgen.New(cfg.IDStrategy, cfg.SnowflakeNode)
}
