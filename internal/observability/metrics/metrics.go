package metrics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"

	EntityMedicine = "medicine"
	EntityBill     = "bill"
	EntityDraft    = "draft"
)

// Config labels every series with service and environment.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics counts catalog and billing mutations. A nil *Metrics is a no-op.
type Metrics struct {
	medicineMutations  *prometheus.CounterVec
	billMutations      *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
}

// HTTPMetrics captures request volume and latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func constLabels(cfg Config) prometheus.Labels {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "pharmabill"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}
}

// New registers the domain counters on registerer.
func New(registerer prometheus.Registerer, cfg Config) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	var err error
	m := &Metrics{}
	m.medicineMutations, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pharmabill_medicines_mutations_total",
		Help:        "Catalog writes applied, by operation.",
		ConstLabels: labels,
	}, []string{"op"}))
	if err != nil {
		return nil, err
	}
	m.billMutations, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pharmabill_bills_mutations_total",
		Help:        "Bill writes applied, by operation.",
		ConstLabels: labels,
	}, []string{"op"}))
	if err != nil {
		return nil, err
	}
	m.validationFailures, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pharmabill_validation_failures_total",
		Help:        "Operations rejected by validation, by entity.",
		ConstLabels: labels,
	}, []string{"entity"}))
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) RecordMedicineMutation(op string) {
	if m == nil {
		return
	}
	m.medicineMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) RecordBillMutation(op string) {
	if m == nil {
		return
	}
	m.billMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) RecordValidationFailure(entity string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(entity).Inc()
}

func NewHTTPMetrics(registerer prometheus.Registerer, cfg Config) (*HTTPMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	var err error
	h := &HTTPMetrics{}
	h.requests, err = register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "pharmabill_http_requests_total",
		Help:        "HTTP requests by route and status.",
		ConstLabels: labels,
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}
	h.duration, err = register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "pharmabill_http_request_duration_seconds",
		Help:        "HTTP request latency by route.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"method", "route"}))
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GinMiddleware records every request against its matched route.
func GinMiddleware(h *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		h.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		h.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// register returns the already registered collector when an identical one
// exists, so repeated construction keeps counting into the same series.
func register[T prometheus.Collector](registerer prometheus.Registerer, c T) (T, error) {
	if err := registerer.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}
