// Package handlers provides HTTP handlers for the analytics engine.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/quantfolio/internal/domain"
	"github.com/aristath/quantfolio/internal/modules/analytics"
	"github.com/aristath/quantfolio/internal/modules/portfolio"
)

const contentTypeMsgpack = "application/msgpack"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 32 << 20

// Handler handles analytics HTTP requests
type Handler struct {
	service *analytics.Service
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

type observationsRequest struct {
	Observations []domain.RawObservation `json:"observations"`
}

type metricsRequest struct {
	Benchmark    string                  `json:"benchmark"`
	Observations []domain.RawObservation `json:"observations"`
}

type codesRequest struct {
	Codes        []string                `json:"codes"`
	Observations []domain.RawObservation `json:"observations"`
	Seed         uint64                  `json:"seed"`
}

type compareRequest struct {
	AssetCode    string                  `json:"asset_code"`
	Benchmark    string                  `json:"benchmark"`
	Observations []domain.RawObservation `json:"observations"`
}

type portfolioRequest struct {
	Weights        domain.WeightVector     `json:"weights"`
	Observations   []domain.RawObservation `json:"observations"`
	InitialCapital float64                 `json:"initial_capital"`
}

func (p portfolioRequest) spec() analytics.PortfolioSpec {
	return analytics.PortfolioSpec{Weights: p.Weights, InitialCapital: p.InitialCapital}
}

type varRequest struct {
	portfolioRequest
	Confidences []float64 `json:"confidences"`
}

type monteCarloRequest struct {
	portfolioRequest
	Days        int    `json:"days"`
	Simulations int    `json:"simulations"`
	Seed        uint64 `json:"seed"`
}

type realReturnsRequest struct {
	portfolioRequest
	Inflation []domain.InflationObservation `json:"inflation"`
}

// HandleNormalize handles POST /api/analytics/normalize
func (h *Handler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	var req observationsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.service.Normalize(req.Observations))
}

// HandleReturns handles POST /api/analytics/returns
func (h *Handler) HandleReturns(w http.ResponseWriter, r *http.Request) {
	var req observationsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.service.Returns(req.Observations))
}

// HandleMetrics handles POST /api/analytics/metrics
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	var req metricsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.service.Metrics(req.Observations, req.Benchmark))
}

// HandlePeriodReturns handles POST /api/analytics/period-returns
func (h *Handler) HandlePeriodReturns(w http.ResponseWriter, r *http.Request) {
	var req observationsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.service.PeriodReturns(req.Observations))
}

// HandleCorrelation handles POST /api/analytics/correlation
func (h *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	var req codesRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.service.Correlation(req.Observations, req.Codes))
}

// HandleCompare handles POST /api/analytics/compare
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AssetCode == "" || req.Benchmark == "" {
		http.Error(w, "asset_code and benchmark are required", http.StatusBadRequest)
		return
	}
	h.respond(w, r, h.service.Compare(req.Observations, req.AssetCode, req.Benchmark))
}

// HandleSimulate handles POST /api/analytics/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.Simulate(req.Observations, req.spec())
	if h.failed(w, err) {
		return
	}
	h.respond(w, r, result)
}

// HandleFrontier handles POST /api/analytics/frontier
func (h *Handler) HandleFrontier(w http.ResponseWriter, r *http.Request) {
	var req codesRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.service.Frontier(req.Observations, req.Codes, req.Seed))
}

// HandleValueAtRisk handles POST /api/analytics/var
func (h *Handler) HandleValueAtRisk(w http.ResponseWriter, r *http.Request) {
	var req varRequest
	if !h.decode(w, r, &req) {
		return
	}
	for _, c := range req.Confidences {
		if c <= 0 || c >= 1 {
			http.Error(w, fmt.Sprintf("confidence must be between 0 and 1, got %v", c), http.StatusBadRequest)
			return
		}
	}
	result, err := h.service.ValueAtRisk(req.Observations, req.spec(), req.Confidences)
	if h.failed(w, err) {
		return
	}
	h.respond(w, r, result)
}

// HandleMonteCarlo handles POST /api/analytics/monte-carlo
func (h *Handler) HandleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req monteCarloRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Days < 0 || req.Simulations < 0 {
		http.Error(w, "days and simulations must not be negative", http.StatusBadRequest)
		return
	}
	result, err := h.service.MonteCarlo(req.Observations, req.spec(), req.Days, req.Simulations, req.Seed)
	if h.failed(w, err) {
		return
	}
	h.respond(w, r, result)
}

// HandleRealReturns handles POST /api/analytics/real-returns
func (h *Handler) HandleRealReturns(w http.ResponseWriter, r *http.Request) {
	var req realReturnsRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.service.RealReturns(req.Observations, req.spec(), req.Inflation)
	if h.failed(w, err) {
		return
	}
	h.respond(w, r, result)
}

// decode reads a JSON body into dst. Numbers stay json.Number so epoch
// milliseconds survive intact.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("Invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// failed writes the error response for err and reports whether it did.
func (h *Handler) failed(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, portfolio.ErrInvalidWeight) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return true
	}
	h.log.Error().Err(err).Msg("Analytics request failed")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
	return true
}

type metadata struct {
	Timestamp string `json:"timestamp" msgpack:"timestamp"`
	RunID     string `json:"run_id" msgpack:"run_id"`
}

type envelope struct {
	Data     any      `json:"data" msgpack:"data"`
	Metadata metadata `json:"metadata" msgpack:"metadata"`
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, data any) {
	body := envelope{
		Data: data,
		Metadata: metadata{
			Timestamp: time.Now().Format(time.RFC3339),
			RunID:     uuid.New().String(),
		},
	}

	if wantsMsgpack(r) {
		h.writeMsgpack(w, http.StatusOK, body)
		return
	}
	h.writeJSON(w, http.StatusOK, body)
}

func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeMsgpack(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeMsgpack)
	w.WriteHeader(status)

	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode msgpack response")
	}
}
