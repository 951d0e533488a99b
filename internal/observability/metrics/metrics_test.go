package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCounters(t *testing.T) {
	m, err := New(prometheus.NewRegistry(), Config{ServiceName: "pharmabill", Environment: "test"})
	require.NoError(t, err)

	m.RecordMedicineMutation(OpCreate)
	m.RecordMedicineMutation(OpCreate)
	m.RecordBillMutation(OpDelete)
	m.RecordValidationFailure(EntityDraft)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.medicineMutations.WithLabelValues(OpCreate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.billMutations.WithLabelValues(OpDelete)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues(EntityDraft)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordMedicineMutation(OpUpdate)
		m.RecordBillMutation(OpCreate)
		m.RecordValidationFailure(EntityBill)
	})
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := Config{ServiceName: "pharmabill", Environment: "test"}

	first, err := New(reg, cfg)
	require.NoError(t, err)
	second, err := New(reg, cfg)
	require.NoError(t, err)

	first.RecordBillMutation(OpCreate)
	second.RecordBillMutation(OpCreate)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.billMutations.WithLabelValues(OpCreate)))
}

func TestGinMiddlewareCountsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, err := NewHTTPMetrics(prometheus.NewRegistry(), Config{})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(h))
	r.GET("/api/medicines/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/medicines/1", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(h.requests.WithLabelValues(http.MethodGet, "/api/medicines/:id", "404")))
}
