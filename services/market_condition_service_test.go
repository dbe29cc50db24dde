package services

import (
	"testing"
	"time"

	"github.com/sdcoffey/techan"
	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/AOBinarybot/models"
)

// trendSeries builds candles whose close moves by step per candle, each one
// opening at the previous close.
func trendSeries(count int, start float64, step float64) *techan.TimeSeries {
	timeSeries := &techan.TimeSeries{}
	for i := 0; i < count; i++ {
		closePrice := start + step*float64(i)
		openPrice := closePrice - step
		highPrice := closePrice + 0.0005
		lowPrice := openPrice - 0.0005
		if step < 0 {
			highPrice = openPrice + 0.0005
			lowPrice = closePrice - 0.0005
		}
		timeSeries.AddCandle(models.NewCandle(int64(1700000000+60*i), time.Minute,
			openPrice, highPrice, lowPrice, closePrice, 500))
	}
	return timeSeries
}

func flatSeries(count int, price float64) *techan.TimeSeries {
	timeSeries := &techan.TimeSeries{}
	for i := 0; i < count; i++ {
		timeSeries.AddCandle(models.NewCandle(int64(1700000000+60*i), time.Minute,
			price, price+0.0002, price-0.0002, price, 500))
	}
	return timeSeries
}

func TestMarketConditionInsufficientData(t *testing.T) {
	conditionService := NewMarketConditionService()

	condition, err := conditionService.Analyze(trendSeries(19, 1.0, 0.001))

	assert.Nil(t, err)
	assert.Equal(t, models.TrendUnknown, condition.Trend)
	assert.Equal(t, models.VolatilityUnknown, condition.Volatility)
	assert.True(t, condition.InsufficientData)
	assert.Equal(t, 0.0, condition.Strength)
}

// Twenty candles is the smallest analyzable window. The strength reference
// sits at the very first close of the series.
func TestMarketConditionAnalyzesAtExactlyTwentyCandles(t *testing.T) {
	conditionService := NewMarketConditionService()

	condition, err := conditionService.Analyze(trendSeries(20, 1.0, 0.001))

	assert.Nil(t, err)
	assert.False(t, condition.InsufficientData)
	assert.Equal(t, models.TrendBullish, condition.Trend)
	assert.Equal(t, models.VolatilityMedium, condition.Volatility)
	// (1.019 - 1.000) / 1.000 against the close of the first candle
	assert.Equal(t, 1.9, condition.Strength)
	assert.Equal(t, 0.002, condition.ATR)
}

func TestMarketConditionBullishTrend(t *testing.T) {
	conditionService := NewMarketConditionService()

	condition, err := conditionService.Analyze(trendSeries(25, 1.0, 0.001))

	assert.Nil(t, err)
	assert.Equal(t, models.TrendBullish, condition.Trend)
	assert.Equal(t, models.VolatilityMedium, condition.Volatility)
	assert.Equal(t, 1.9, condition.Strength)
	assert.Equal(t, 0.002, condition.ATR)
	assert.False(t, condition.InsufficientData)
}

func TestMarketConditionBearishTrend(t *testing.T) {
	conditionService := NewMarketConditionService()

	condition, err := conditionService.Analyze(trendSeries(25, 1.05, -0.001))

	assert.Nil(t, err)
	assert.Equal(t, models.TrendBearish, condition.Trend)
	assert.False(t, condition.InsufficientData)
}

func TestMarketConditionSidewaysLowVolatility(t *testing.T) {
	conditionService := NewMarketConditionService()

	condition, err := conditionService.Analyze(flatSeries(25, 1.0))

	assert.Nil(t, err)
	assert.Equal(t, models.TrendSideways, condition.Trend)
	assert.Equal(t, models.VolatilityLow, condition.Volatility)
	assert.Equal(t, 0.0, condition.Strength)
	assert.Equal(t, 0.0004, condition.ATR)
}

// Wide-ranged candles push the ATR past 0.2% of the close.
func TestMarketConditionHighVolatility(t *testing.T) {
	conditionService := NewMarketConditionService()

	timeSeries := &techan.TimeSeries{}
	for i := 0; i < 25; i++ {
		timeSeries.AddCandle(models.NewCandle(int64(1700000000+60*i), time.Minute,
			1.0, 1.0040, 0.9960, 1.0, 500))
	}

	condition, err := conditionService.Analyze(timeSeries)

	assert.Nil(t, err)
	assert.Equal(t, models.VolatilityHigh, condition.Volatility)
	assert.Equal(t, 0.008, condition.ATR)
}

func TestMarketConditionRejectsMalformedSeries(t *testing.T) {
	conditionService := NewMarketConditionService()

	timeSeries := trendSeries(25, 1.0, 0.001)
	timeSeries.Candles[3] = models.NewCandle(1700000180, time.Minute, 1.0, 0.99, 1.01, 1.0, 500)

	_, err := conditionService.Analyze(timeSeries)
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestMarketConditionStrengthCapsAtHundred(t *testing.T) {
	conditionService := NewMarketConditionService()

	condition, err := conditionService.Analyze(trendSeries(25, 1.0, 0.2))

	assert.Nil(t, err)
	assert.Equal(t, 100.0, condition.Strength)
}
