package backtest

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/sdcoffey/techan"
	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// volumeConfidenceStrategy reads the detection confidence from the volume of
// the signal candle, so a fixture can vary confidence per window.
type volumeConfidenceStrategy struct{}

func (s *volumeConfidenceStrategy) Detect(timeSeries *techan.TimeSeries) (models.PatternResult, error) {
	return models.PatternResult{
		Detected:   true,
		Kind:       models.PatternFiveRed,
		Confidence: timeSeries.LastCandle().Volume.Float(),
	}, nil
}

func (s *volumeConfidenceStrategy) TradeDirection(kind models.PatternKind) models.Direction {
	return models.DirectionCall
}

func seriesWithVolumes(closes []float64, volumes []float64) *techan.TimeSeries {
	timeSeries := &techan.TimeSeries{}
	for i, closePrice := range closes {
		timeSeries.AddCandle(models.NewCandle(int64(1700000000+60*i), time.Minute,
			closePrice, closePrice+0.0005, closePrice-0.0005, closePrice, volumes[i]))
	}
	return timeSeries
}

// Low-confidence windows lose and high-confidence windows win, so raising
// the gate to 60 lifts the win rate from 50% to 100%.
func TestOptimizerFindsFilteringThreshold(t *testing.T) {
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 0.99, 1.05, 1.0, 1.04, 1.0, 1.06}
	volumes := []float64{50, 50, 50, 50, 50, 55, 85, 55, 85, 55, 85, 50}

	optimizer := NewOptimizer(&volumeConfidenceStrategy{})
	result, err := optimizer.Optimize(seriesWithVolumes(closes, volumes))

	assert.Nil(t, err)
	assert.Equal(t, 60.0, result.ConfidenceThreshold)
	assert.Equal(t, 100.0, result.ExpectedWinRate)
	assert.Equal(t, 3, result.TotalTrades)
}

// When every threshold scores the same, the lowest one stays.
func TestOptimizerTieKeepsLowestThreshold(t *testing.T) {
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.01, 1.02, 1.03, 1.04, 1.05, 1.06}
	volumes := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100}

	optimizer := NewOptimizer(&volumeConfidenceStrategy{})
	result, err := optimizer.Optimize(seriesWithVolumes(closes, volumes))

	assert.Nil(t, err)
	assert.Equal(t, 50.0, result.ConfidenceThreshold)
	assert.Equal(t, 100.0, result.ExpectedWinRate)
	assert.Equal(t, 6, result.TotalTrades)
}

func TestOptimizerNothingWinsReturnsZeroResult(t *testing.T) {
	closes := []float64{1.06, 1.05, 1.05, 1.04, 1.04, 1.03, 1.02, 1.02, 1.01, 1.01, 1.0, 0.99}
	volumes := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100}

	optimizer := NewOptimizer(&volumeConfidenceStrategy{})
	result, err := optimizer.Optimize(seriesWithVolumes(closes, volumes))

	assert.Nil(t, err)
	assert.Equal(t, analytics.OptimizationResult{}, result)
}

func TestOptimizerShortSeriesReturnsZeroResult(t *testing.T) {
	closes := []float64{1.0, 1.0, 1.0}
	volumes := []float64{100, 100, 100}

	optimizer := NewOptimizer(&volumeConfidenceStrategy{})
	result, err := optimizer.Optimize(seriesWithVolumes(closes, volumes))

	assert.Nil(t, err)
	assert.Equal(t, analytics.OptimizationResult{}, result)
}

func TestOptimizerRejectsMalformedSeries(t *testing.T) {
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.01, 1.02}
	volumes := []float64{100, 100, 100, 100, 100, 100, -1, 100}

	optimizer := NewOptimizer(&volumeConfidenceStrategy{})
	_, err := optimizer.Optimize(seriesWithVolumes(closes, volumes))

	assert.ErrorIs(t, err, models.ErrMalformedCandle)
}

// A stricter gate admits a subset of the signals. Single-threshold sweeps
// over a tape where every trade wins expose the per-threshold counts, which
// can only shrink as the threshold rises.
func TestProperty_RaisingThresholdNeverAddsTrades(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("trade count never grows with the threshold", prop.ForAll(
		func(volumes []float64) bool {
			closes := make([]float64, len(volumes))
			for i := range closes {
				closes[i] = 1.0 + 0.001*float64(i)
			}
			timeSeries := seriesWithVolumes(closes, volumes)

			previousTrades := len(closes)
			for _, threshold := range []float64{50.0, 60.0, 70.0, 80.0} {
				optimizer := NewOptimizer(&volumeConfidenceStrategy{})
				optimizer.Thresholds = []float64{threshold}

				result, err := optimizer.Optimize(timeSeries)
				if err != nil || result.TotalTrades > previousTrades {
					return false
				}
				previousTrades = result.TotalTrades
			}
			return true
		},
		gen.SliceOfN(20, gen.Float64Range(40.0, 100.0)),
	))

	properties.TestingRun(t)
}

func TestOptimizerHonorsCustomThresholds(t *testing.T) {
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.01, 1.02, 1.03, 1.04, 1.05, 1.06}
	volumes := []float64{90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90, 90}

	optimizer := NewOptimizer(&volumeConfidenceStrategy{})
	optimizer.Thresholds = []float64{95.0}

	result, err := optimizer.Optimize(seriesWithVolumes(closes, volumes))

	assert.Nil(t, err)
	assert.Equal(t, analytics.OptimizationResult{}, result)
}
