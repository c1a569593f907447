// Package main is the entry point for the quantfolio analytics server.
// It serves the price-series analytics and portfolio-risk engine over HTTP:
// normalization, risk metrics, portfolio simulation, efficient frontiers,
// Value-at-Risk, Monte Carlo projections and inflation-adjusted returns.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/quantfolio/internal/config"
	"github.com/aristath/quantfolio/internal/modules/analytics"
	"github.com/aristath/quantfolio/internal/server"
	"github.com/aristath/quantfolio/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Uint64("seed", cfg.Engine.Seed).
		Int("monte_carlo_days", cfg.Engine.MonteCarloDays).
		Int("monte_carlo_simulations", cfg.Engine.MonteCarloSimulations).
		Int("frontier_random_portfolios", cfg.Engine.FrontierRandomPortfolios).
		Msg("Starting quantfolio")

	srv := server.New(server.Config{
		Log:       log,
		Analytics: analytics.NewService(cfg.Engine, logger.Component(log, "analytics")),
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// In-flight frontier solves get up to 10 seconds to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
