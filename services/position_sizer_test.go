package services

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestPositionSizerNoBalanceOrEdgeReturnsZero(t *testing.T) {
	positionSizer := NewPositionSizer()

	assert.Equal(t, 0.0, positionSizer.RecommendedAmount(0, 60))
	assert.Equal(t, 0.0, positionSizer.RecommendedAmount(-100, 60))
	assert.Equal(t, 0.0, positionSizer.RecommendedAmount(10000, 0))
	assert.Equal(t, 0.0, positionSizer.RecommendedAmount(10000, -5))
}

// At a 60% win rate the half-Kelly stake is 5% of the balance, so the 2%
// risk cap takes over.
func TestPositionSizerRiskCapWins(t *testing.T) {
	positionSizer := NewPositionSizer()

	assert.Equal(t, 200.0, positionSizer.RecommendedAmount(10000, 60))
}

// At 57% the half-Kelly stake stays under the cap and passes through.
func TestPositionSizerHalfKellyWins(t *testing.T) {
	positionSizer := NewPositionSizer()

	assert.Equal(t, 162.5, positionSizer.RecommendedAmount(10000, 57))
}

// A losing edge clamps Kelly to zero, which still floors at the minimum
// stake instead of skipping the trade.
func TestPositionSizerNegativeEdgeFloorsAtMinimum(t *testing.T) {
	positionSizer := NewPositionSizer()

	assert.Equal(t, 1.0, positionSizer.RecommendedAmount(10000, 45))
	assert.Equal(t, 1.0, positionSizer.RecommendedAmount(1.5, 45))
}

// The minimum stake never pushes the amount past what is actually there.
func TestPositionSizerNeverExceedsBalance(t *testing.T) {
	positionSizer := NewPositionSizer()

	assert.Equal(t, 0.5, positionSizer.RecommendedAmount(0.5, 60))
}

func TestProperty_PositionSizerBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("amount stays within 0 and the balance", prop.ForAll(
		func(balance float64, winRatePct float64) bool {
			positionSizer := NewPositionSizer()
			amount := positionSizer.RecommendedAmount(balance, winRatePct)
			return amount >= 0 && amount <= balance
		},
		gen.Float64Range(0.01, 1000000),
		gen.Float64Range(0.01, 100),
	))

	properties.TestingRun(t)
}
