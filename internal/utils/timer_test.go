package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	stop := OperationTimer("frontier", log)
	duration := stop(map[string]interface{}{
		"assets":    4,
		"converged": true,
		"codes":     "A,B",
		"ratio":     0.5,
		"other":     []int{1},
	})

	assert.GreaterOrEqual(t, int64(duration), int64(0))
	out := buf.String()
	assert.Contains(t, out, `"operation":"frontier"`)
	assert.Contains(t, out, `"assets":4`)
	assert.Contains(t, out, `"converged":true`)
	assert.Contains(t, out, `"codes":"A,B"`)
	assert.Contains(t, out, `"message":"Operation completed"`)
}

func TestOperationTimer_NilFields(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	OperationTimer("noop", log)(nil)

	assert.Contains(t, buf.String(), `"operation":"noop"`)
}
