package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/quantfolio/internal/config"
	"github.com/aristath/quantfolio/internal/modules/analytics"
)

func newTestServer(out *bytes.Buffer) *Server {
	log := zerolog.Nop()
	if out != nil {
		log = zerolog.New(out)
	}
	return New(Config{
		Log: log,
		Analytics: analytics.NewService(config.EngineConfig{
			DefaultInitialCapital:    100000,
			MonteCarloDays:           10,
			MonteCarloSimulations:    2,
			FrontierRandomPortfolios: 10,
		}, log),
		Port:    0,
		DevMode: true,
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "quantfolio", response["service"])
	assert.Equal(t, Version, response["version"])
}

func TestHandleSystemStatus(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Contains(t, data, "cpu_percent")
	assert.Contains(t, data, "ram_percent")
	assert.GreaterOrEqual(t, data["goroutines"].(float64), 1.0)
}

func TestAnalyticsRoutesMounted(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/normalize", bytes.NewBufferString(`{"observations": []}`))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(&buf)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Contains(t, buf.String(), `"message":"HTTP request"`)
	assert.Contains(t, buf.String(), `"path":"/health"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/analytics/frontier", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
