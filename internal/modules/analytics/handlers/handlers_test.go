package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/quantfolio/internal/config"
	"github.com/aristath/quantfolio/internal/modules/analytics"
)

func setupRouter() *chi.Mux {
	svc := analytics.NewService(config.EngineConfig{
		Seed:                     5,
		DefaultInitialCapital:    100000,
		MonteCarloDays:           10,
		MonteCarloSimulations:    3,
		FrontierRandomPortfolios: 50,
	}, zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(svc, zerolog.Nop()).RegisterRoutes(r)
	})
	return router
}

// observations builds n daily rows per asset: epoch-millisecond dates and
// numeric prices for A, day-first strings and locale prices for B.
func observations(n int) []map[string]any {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []map[string]any
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		out = append(out, map[string]any{
			"date":       d.UnixMilli(),
			"price":      100 + float64(i%5),
			"asset_code": "A",
			"asset_name": "Alpha",
		})
		price := 50 + i%3
		out = append(out, map[string]any{
			"date":       d.Format("02.01.2006"),
			"price":      fmt.Sprintf("%d,50", price),
			"asset_code": "B",
			"asset_name": "Bravo",
		})
	}
	return out
}

func post(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Contains(t, response, "data")
	require.Contains(t, response, "metadata")
	meta := response["metadata"].(map[string]any)
	assert.NotEmpty(t, meta["timestamp"])
	assert.NotEmpty(t, meta["run_id"])
	return response
}

func TestHandleNormalize(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/normalize", map[string]any{"observations": observations(5)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	data := decodeEnvelope(t, w)["data"].([]any)
	require.Len(t, data, 2)

	first := data[0].(map[string]any)
	assert.Equal(t, "A", first["asset_code"])
	rows := first["rows"].([]any)
	require.Len(t, rows, 5)
	assert.Equal(t, "2024-01-01T00:00:00Z", rows[0].(map[string]any)["date"])

	second := data[1].(map[string]any)
	assert.InDelta(t, 50.5, second["rows"].([]any)[0].(map[string]any)["price"], 1e-9)
}

func TestHandleMetrics(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/metrics", map[string]any{
		"observations": observations(30),
		"benchmark":    "B",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]any)
	require.Len(t, data, 2)
	metrics := data[0].(map[string]any)["metrics"].(map[string]any)
	assert.Contains(t, metrics, "sharpe")
	assert.Contains(t, metrics, "comparative")
}

func TestHandleSimulate(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/simulate", map[string]any{
		"observations":    observations(10),
		"weights":         map[string]float64{"A": 0.5, "B": 0.5},
		"initial_capital": 1000,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	p := data["portfolio"].(map[string]any)
	assert.Equal(t, "PORTFOLIO", p["asset_code"])
	rows := p["rows"].([]any)
	require.Len(t, rows, 10)
	assert.Equal(t, 1000.0, rows[0].(map[string]any)["price"])
}

func TestHandleSimulate_InvalidWeight(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/simulate", map[string]any{
		"observations": observations(10),
		"weights":      map[string]float64{"A": -1},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSimulate_InsufficientData(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/simulate", map[string]any{
		"observations": []any{},
		"weights":      map[string]float64{"A": 1},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeEnvelope(t, w)["data"])
}

func TestHandleValueAtRisk(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/var", map[string]any{
		"observations": observations(20),
		"weights":      map[string]float64{"A": 1, "B": 1},
		"confidences":  []float64{0.95, 0.99},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]any)
	require.Len(t, data, 2)
	v95 := data[0].(map[string]any)["amount"].(float64)
	v99 := data[1].(map[string]any)["amount"].(float64)
	assert.GreaterOrEqual(t, v99, v95)

	w = post(t, router, "/api/analytics/var", map[string]any{
		"observations": observations(20),
		"weights":      map[string]float64{"A": 1},
		"confidences":  []float64{1.5},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMonteCarlo_Msgpack(t *testing.T) {
	router := setupRouter()

	payload, err := json.Marshal(map[string]any{
		"observations": observations(15),
		"weights":      map[string]float64{"A": 1},
		"days":         7,
		"simulations":  4,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/monte-carlo", bytes.NewReader(payload))
	req.Header.Set("Accept", "application/msgpack")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	var response struct {
		Data struct {
			Paths [][]float64 `msgpack:"paths"`
		} `msgpack:"data"`
		Metadata struct {
			RunID string `msgpack:"run_id"`
		} `msgpack:"metadata"`
	}
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data.Paths, 4)
	assert.Len(t, response.Data.Paths[0], 7)
	assert.NotEmpty(t, response.Metadata.RunID)
}

func TestHandleFrontier(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/frontier", map[string]any{
		"observations": observations(40),
		"codes":        []string{"A", "B"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Len(t, data["random_cloud"].([]any), 50)
	assert.Contains(t, data, "max_sharpe")
	assert.Contains(t, data, "min_volatility")
}

func TestHandleRealReturns(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/real-returns", map[string]any{
		"observations": observations(10),
		"weights":      map[string]float64{"A": 1},
		"inflation": []map[string]any{
			{"year_month": "2024-01", "monthly_rate_percent": 1.5},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	rows := data["rows"].([]any)
	require.Len(t, rows, 10)
	assert.Contains(t, rows[0].(map[string]any), "real_return")
}

func TestHandleCompare_MissingParams(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/api/analytics/compare", map[string]any{"observations": observations(3)})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_InvalidBody(t *testing.T) {
	router := setupRouter()

	for _, path := range []string{
		"/api/analytics/normalize",
		"/api/analytics/metrics",
		"/api/analytics/simulate",
		"/api/analytics/frontier",
	} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString("{not json"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/normalize", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
