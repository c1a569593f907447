package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		// Single-asset and cross-asset analytics
		r.Post("/normalize", h.HandleNormalize)
		r.Post("/returns", h.HandleReturns)
		r.Post("/metrics", h.HandleMetrics)
		r.Post("/period-returns", h.HandlePeriodReturns)
		r.Post("/correlation", h.HandleCorrelation)
		r.Post("/compare", h.HandleCompare)
		r.Post("/frontier", h.HandleFrontier)

		// Portfolio analytics
		r.Post("/simulate", h.HandleSimulate)
		r.Post("/var", h.HandleValueAtRisk)
		r.Post("/monte-carlo", h.HandleMonteCarlo)
		r.Post("/real-returns", h.HandleRealReturns)
	})
}
