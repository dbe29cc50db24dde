package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 6.0, Sum([]float64{1, 2, 3}))
}

// Population deviation, not sample: divides by n.
func TestStdDev(t *testing.T) {
	numbers := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.Equal(t, 2.0, StdDev(numbers, 5.0))
	assert.Equal(t, 0.0, StdDev([]float64{3, 3, 3}, 3.0))
	assert.Equal(t, 0.0, StdDev(nil, 0.0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 66.67, Round(66.666666, 2))
	assert.Equal(t, 0.5, Round(0.496031, 2))
	assert.Equal(t, 1.9, Round(1.890547, 1))
	assert.Equal(t, 0.002, Round(0.0020000004, 6))
	assert.Equal(t, -1.25, Round(-1.248, 2))
}

func TestStringIntervalToSeconds(t *testing.T) {
	assert.Equal(t, int64(60), StringIntervalToSeconds("1m"))
	assert.Equal(t, int64(300), StringIntervalToSeconds("5m"))
	assert.Equal(t, int64(14400), StringIntervalToSeconds("4h"))
	assert.Equal(t, int64(86400), StringIntervalToSeconds("1d"))
	assert.Equal(t, int64(0), StringIntervalToSeconds("nonsense"))
}
