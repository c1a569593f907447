// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel string
	Port     int
	DevMode  bool
	Engine   EngineConfig
}

// EngineConfig holds the defaults applied to analytics requests that leave a
// parameter unset.
type EngineConfig struct {
	// Seed for the random cloud and Monte Carlo shocks; 0 draws a fresh seed
	// per request.
	Seed                     uint64
	DefaultInitialCapital    float64
	MonteCarloDays           int
	MonteCarloSimulations    int
	FrontierRandomPortfolios int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("QUANTFOLIO_PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Engine: EngineConfig{
			Seed:                     getEnvAsUint64("QUANTFOLIO_SEED", 0),
			DefaultInitialCapital:    getEnvAsFloat("DEFAULT_INITIAL_CAPITAL", 100000),
			MonteCarloDays:           getEnvAsInt("MONTE_CARLO_DAYS", 180),
			MonteCarloSimulations:    getEnvAsInt("MONTE_CARLO_SIMULATIONS", 50),
			FrontierRandomPortfolios: getEnvAsInt("FRONTIER_RANDOM_PORTFOLIOS", 2000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every numeric setting is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Engine.DefaultInitialCapital <= 0 {
		return fmt.Errorf("DEFAULT_INITIAL_CAPITAL must be positive, got %v", c.Engine.DefaultInitialCapital)
	}
	if c.Engine.MonteCarloDays <= 0 {
		return fmt.Errorf("MONTE_CARLO_DAYS must be positive, got %d", c.Engine.MonteCarloDays)
	}
	if c.Engine.MonteCarloSimulations <= 0 {
		return fmt.Errorf("MONTE_CARLO_SIMULATIONS must be positive, got %d", c.Engine.MonteCarloSimulations)
	}
	if c.Engine.FrontierRandomPortfolios <= 0 {
		return fmt.Errorf("FRONTIER_RANDOM_PORTFOLIOS must be positive, got %d", c.Engine.FrontierRandomPortfolios)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
