package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/pharmabill/internal/bill/composer"
	billrepository "github.com/smallbiznis/pharmabill/internal/bill/repository"
	billservice "github.com/smallbiznis/pharmabill/internal/bill/service"
	"github.com/smallbiznis/pharmabill/internal/clock"
	"github.com/smallbiznis/pharmabill/internal/config"
	"github.com/smallbiznis/pharmabill/internal/idgen"
	medicinerepository "github.com/smallbiznis/pharmabill/internal/medicine/repository"
	medicineservice "github.com/smallbiznis/pharmabill/internal/medicine/service"
	obsmetrics "github.com/smallbiznis/pharmabill/internal/observability/metrics"
	"github.com/smallbiznis/pharmabill/internal/providers/pdf"
	"github.com/smallbiznis/pharmabill/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	cfg := config.Config{AppName: "pharmabill", Environment: "test", PDFEnabled: true}
	clk := clock.NewFakeClock(time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC))
	genID := idgen.NewSequence("id-")

	reg := prometheus.NewRegistry()
	httpMetrics, err := obsmetrics.NewHTTPMetrics(reg, obsmetrics.Config{})
	require.NoError(t, err)

	medicineRepo := medicinerepository.Provide()
	billRepo := billrepository.Provide()
	require.NoError(t, seed.Load(context.Background(), medicineRepo, billRepo))

	medicineSvc := medicineservice.New(medicineservice.Params{Log: log, GenID: genID, Repo: medicineRepo})
	billSvc := billservice.New(billservice.Params{Log: log, GenID: genID, Repo: billRepo})

	return NewServer(ServerParams{
		Gin: NewEngine(EngineParams{
			Cfg:         cfg,
			Log:         log,
			HTTPMetrics: httpMetrics,
			Gatherer:    reg,
		}),
		Cfg:         cfg,
		Log:         log,
		Clock:       clk,
		MedicineSvc: medicineSvc,
		BillSvc:     billSvc,
		Composer: composer.New(composer.Params{
			Log:     log,
			GenID:   genID,
			Catalog: medicineSvc,
			Clock:   clk,
		}),
		PDF:        pdf.New(cfg),
		BillingCfg: config.NewStaticBillingConfigHolder(config.DefaultBillingConfig()),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func errorFields(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decode(t, w)
	payload, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error payload: %s", w.Body.String())
	fields, _ := payload["errors"].(map[string]any)
	return fields
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	doJSON(t, s, http.MethodGet, "/api/medicines", nil)
	w = doJSON(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pharmabill_http_requests_total")
}

func TestListMedicinesPaginates(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/medicines?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	items := body["data"].([]any)
	assert.Len(t, items, 5)
	first := items[0].(map[string]any)
	assert.Equal(t, "Simvastatin", first["name"])
	assert.Equal(t, "$22.50", first["price_display"])

	pageInfo := body["page_info"].(map[string]any)
	assert.Equal(t, 10.0, pageInfo["total"])
	assert.Equal(t, 2.0, pageInfo["total_pages"])

	w = doJSON(t, s, http.MethodGet, "/api/medicines?q=cardio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].([]any), 2)

	w = doJSON(t, s, http.MethodGet, "/api/medicines?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPastLastPageIsEmpty(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/medicines?page=1844674407370955163",
		"/api/bills?page=1844674407370955163",
	} {
		w := doJSON(t, s, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, decode(t, w)["data"].([]any), path)
	}
}

func TestListCategories(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/medicines/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]any)
	assert.Len(t, data["categories"].([]any), 9)
	assert.Equal(t, "2025-05-20", data["default_expiry_date"])
}

func TestMedicineLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/medicines", map[string]any{
		"name":        "Cetirizine",
		"description": "Antihistamine",
		"price":       4.5,
		"stock":       20,
		"category":    "Allergy",
		"expiry_date": "2026-09-30",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["data"].(map[string]any)
	id := created["id"].(string)

	w = doJSON(t, s, http.MethodPut, "/api/medicines/"+id, map[string]any{
		"name":        "Cetirizine 10mg",
		"price":       4.75,
		"stock":       18,
		"category":    "Allergy",
		"expiry_date": "2026-09-30",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "$4.75", decode(t, w)["data"].(map[string]any)["price_display"])

	w = doJSON(t, s, http.MethodDelete, "/api/medicines/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/medicines/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/api/medicines/999", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCreateMedicineValidation(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/medicines", map[string]any{
		"name":     "",
		"category": "Pain Relief",
		"price":    5,
		"stock":    1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := errorFields(t, w)
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Expiry date is required", fields["expiryDate"])

	w = doJSON(t, s, http.MethodGet, "/api/medicines", nil)
	assert.Equal(t, 10.0, decode(t, w)["page_info"].(map[string]any)["total"])
}

func TestMalformedJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/bills", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error"].(map[string]any)["type"])
	assert.Empty(t, errorFields(t, w))
}

func TestCreateBillPricesFromCatalog(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/bills", map[string]any{
		"customer_name": "Alice Brown",
		"discount":      5,
		"charges": []map[string]any{
			{"description": "Doctor Consultation", "amount": 50},
		},
		"medicines": []map[string]any{
			{"medicine_id": "1", "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	bill := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "2024-05-20", bill["date"])
	assert.Equal(t, "$61.98", bill["subtotal_display"])
	assert.Equal(t, "$56.98", bill["total_display"])

	line := bill["medicines"].([]any)[0].(map[string]any)
	assert.Equal(t, "Paracetamol", line["medicine_name"])
	assert.Equal(t, "$11.98", line["total_display"])

	w = doJSON(t, s, http.MethodGet, "/api/bills/"+bill["id"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateBillReportsAllErrors(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/bills", map[string]any{
		"customer_name": "",
		"discount":      -1,
		"charges": []map[string]any{
			{"description": "", "amount": 10},
		},
		"medicines": []map[string]any{
			{"medicine_id": "1", "quantity": 0},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := errorFields(t, w)
	assert.Equal(t, "Description is required", fields["charges[0].description"])
	assert.Equal(t, "Quantity must be greater than 0", fields["medicines[0].quantity"])
	assert.Equal(t, "Customer name is required", fields["customerName"])
	assert.Equal(t, "Discount cannot be negative", fields["discount"])
	assert.Equal(t, "Add at least one charge or medicine", fields["items"])

	w = doJSON(t, s, http.MethodGet, "/api/bills", nil)
	assert.Equal(t, 3.0, decode(t, w)["page_info"].(map[string]any)["total"])
}

func TestUpdateBillKeepsSnapshots(t *testing.T) {
	s := newTestServer(t)

	// a catalog price change must not reach lines already billed
	w := doJSON(t, s, http.MethodPut, "/api/medicines/1", map[string]any{
		"name":        "Paracetamol",
		"price":       9.99,
		"stock":       100,
		"category":    "Pain Relief",
		"expiry_date": "2025-12-31",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodPut, "/api/bills/1", map[string]any{
		"customer_name": "John Doe",
		"discount":      0,
		"charges": []map[string]any{
			{"id": "c1"},
		},
		"medicines": []map[string]any{
			{"id": "m1"},
			{"medicine_id": "1", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bill := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "1", bill["id"])
	assert.Equal(t, "2023-05-15", bill["date"])
	assert.Len(t, bill["charges"].([]any), 1)

	lines := bill["medicines"].([]any)
	require.Len(t, lines, 2)
	assert.Equal(t, 5.99, lines[0].(map[string]any)["unit_price"])
	assert.Equal(t, 9.99, lines[1].(map[string]any)["unit_price"])
	assert.Equal(t, "$71.97", bill["total_display"])
}

func TestUpdateBillRejectsEditedSnapshot(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPut, "/api/bills/1", map[string]any{
		"customer_name": "John Doe",
		"charges": []map[string]any{
			{"id": "c1", "description": "Doctor Consultation", "amount": 80},
		},
		"medicines": []map[string]any{
			{"id": "m1", "medicine_id": "1", "quantity": 5},
			{"id": "m2", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	fields := errorFields(t, w)
	assert.Equal(t, "A billed charge cannot be edited", fields["charges[0].amount"])
	assert.Equal(t, "A billed medicine cannot be edited", fields["medicines[0].quantity"])
	assert.NotContains(t, fields, "charges[0].description")
	assert.NotContains(t, fields, "medicines[0].medicineId")
	assert.NotContains(t, fields, "medicines[1].quantity")

	w = doJSON(t, s, http.MethodGet, "/api/bills/1", nil)
	bill := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, 2.0, bill["medicines"].([]any)[0].(map[string]any)["quantity"])
}

func TestUpdateBillUnknown(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPut, "/api/bills/404", map[string]any{"customer_name": "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewBill(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/bills/preview", map[string]any{
		"discount": 20,
		"charges": []map[string]any{
			{"description": "Blood Test", "amount": 15},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bill := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "-$5.00", bill["total_display"])
	assert.Nil(t, bill["id"])

	w = doJSON(t, s, http.MethodGet, "/api/bills", nil)
	assert.Equal(t, 3.0, decode(t, w)["page_info"].(map[string]any)["total"])
}

func TestListAndDeleteBills(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/bills?q=smith", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "$134.49", items[0].(map[string]any)["total_display"])

	w = doJSON(t, s, http.MethodDelete, "/api/bills/2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/bills/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBillPDF(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/bills/1/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = doJSON(t, s, http.MethodGet, "/api/bills/404/pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
