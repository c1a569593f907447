// Package utils holds small helpers shared by the service layer.
package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// SlowOperationThreshold is the duration above which a timed operation is
// logged at warn level.
const SlowOperationThreshold = 10 * time.Second

// OperationTimer provides a defer-friendly way to measure operation duration.
// The returned function logs the elapsed time with the given fields and
// returns it.
//
// Usage:
//
//	stop := utils.OperationTimer("frontier", log)
//	defer stop(map[string]interface{}{"assets": n})
func OperationTimer(operation string, log zerolog.Logger) func(fields map[string]interface{}) time.Duration {
	start := time.Now()

	return func(fields map[string]interface{}) time.Duration {
		duration := time.Since(start)

		event := log.Debug()
		if duration > SlowOperationThreshold {
			event = log.Warn()
		}
		event = event.
			Str("operation", operation).
			Dur("duration_ms", duration)

		for key, value := range fields {
			switch v := value.(type) {
			case string:
				event = event.Str(key, v)
			case int:
				event = event.Int(key, v)
			case float64:
				event = event.Float64(key, v)
			case bool:
				event = event.Bool(key, v)
			default:
				event = event.Interface(key, v)
			}
		}

		if duration > SlowOperationThreshold {
			event.Msg("Slow operation detected")
		} else {
			event.Msg("Operation completed")
		}
		return duration
	}
}
