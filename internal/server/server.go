package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/pharmabill/internal/bill/composer"
	billdomain "github.com/smallbiznis/pharmabill/internal/bill/domain"
	"github.com/smallbiznis/pharmabill/internal/clock"
	"github.com/smallbiznis/pharmabill/internal/config"
	medicinedomain "github.com/smallbiznis/pharmabill/internal/medicine/domain"
	obslogger "github.com/smallbiznis/pharmabill/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/pharmabill/internal/observability/metrics"
	"github.com/smallbiznis/pharmabill/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	HTTPMetrics *obsmetrics.HTTPMetrics `optional:"true"`
	Gatherer    prometheus.Gatherer     `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	if !p.Cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(p.Log, obslogger.MiddlewareConfig{
		Debug:           p.Cfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(p.HTTPMetrics))
	r.Use(ErrorHandlingMiddleware())

	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Server adapts the catalog, billing store and bill composer to HTTP.
type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	clock       clock.Clock
	medicineSvc medicinedomain.Service
	billSvc     billdomain.Service
	composer    *composer.Composer
	pdf         pdf.Provider
	billingCfg  *config.BillingConfigHolder
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Clock       clock.Clock
	MedicineSvc medicinedomain.Service
	BillSvc     billdomain.Service
	Composer    *composer.Composer
	PDF         pdf.Provider
	BillingCfg  *config.BillingConfigHolder
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		clock:       p.Clock,
		medicineSvc: p.MedicineSvc,
		billSvc:     p.BillSvc,
		composer:    p.Composer,
		pdf:         p.PDF,
		billingCfg:  p.BillingCfg,
	}

	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	medicines := api.Group("/medicines")
	medicines.GET("", s.ListMedicines)
	medicines.GET("/categories", s.ListCategories)
	medicines.GET("/:id", s.GetMedicine)
	medicines.POST("", s.CreateMedicine)
	medicines.PUT("/:id", s.UpdateMedicine)
	medicines.DELETE("/:id", s.DeleteMedicine)

	bills := api.Group("/bills")
	bills.GET("", s.ListBills)
	bills.POST("/preview", s.PreviewBill)
	bills.GET("/:id", s.GetBill)
	bills.GET("/:id/pdf", s.GetBillPDF)
	bills.POST("", s.CreateBill)
	bills.PUT("/:id", s.UpdateBill)
	bills.DELETE("/:id", s.DeleteBill)
}
