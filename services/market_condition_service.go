package services

import (
	"fmt"
	"math"

	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/models"
)

// MarketConditionService derives trend, volatility and strength from a
// candle window. The output annotates logs and the dashboard and never
// gates an entry.
type MarketConditionService struct {
	ShortWindow int
	LongWindow  int
	ATRWindow   int
}

func NewMarketConditionService() MarketConditionService {
	return MarketConditionService{
		ShortWindow: 5,
		LongWindow:  20,
		ATRWindow:   14,
	}
}

func (mcs *MarketConditionService) Analyze(timeSeries *techan.TimeSeries) (models.MarketCondition, error) {
	if err := models.ValidateSeries(timeSeries); err != nil {
		return models.MarketCondition{}, fmt.Errorf("market condition aborted: %w", err)
	}

	if len(timeSeries.Candles) < mcs.LongWindow {
		return models.MarketCondition{
			Trend:            models.TrendUnknown,
			Volatility:       models.VolatilityUnknown,
			InsufficientData: true,
		}, nil
	}

	lastIndex := len(timeSeries.Candles) - 1
	closePrices := techan.NewClosePriceIndicator(timeSeries)
	shortAverage := techan.NewSimpleMovingAverage(closePrices, mcs.ShortWindow).Calculate(lastIndex).Float()
	longAverage := techan.NewSimpleMovingAverage(closePrices, mcs.LongWindow).Calculate(lastIndex).Float()

	trend := models.TrendSideways
	if shortAverage > longAverage {
		trend = models.TrendBullish
	} else if shortAverage < longAverage {
		trend = models.TrendBearish
	}

	atr := mcs.averageTrueRange(timeSeries.Candles)

	lastClose := timeSeries.Candles[lastIndex].ClosePrice.Float()
	volatility := models.VolatilityLow
	if atr > lastClose*0.002 {
		volatility = models.VolatilityHigh
	} else if atr > lastClose*0.001 {
		volatility = models.VolatilityMedium
	}

	// Strength measures the move over the long window, referenced to the
	// close LongWindow candles back, capped at 100.
	referenceClose := timeSeries.Candles[len(timeSeries.Candles)-mcs.LongWindow].ClosePrice.Float()
	strength := math.Min(math.Abs((lastClose-referenceClose)/referenceClose)*100, 100)

	return models.MarketCondition{
		Trend:      trend,
		Volatility: volatility,
		Strength:   helpers.Round(strength, 1),
		ATR:        helpers.Round(atr, 6),
	}, nil
}

// averageTrueRange is the plain mean of the trailing true ranges, not the
// smoothed Wilder variant.
func (mcs *MarketConditionService) averageTrueRange(candles []*techan.Candle) float64 {
	var trueRanges []float64
	for i := 1; i < len(candles); i++ {
		highLow := candles[i].MaxPrice.Float() - candles[i].MinPrice.Float()
		highPreviousClose := math.Abs(candles[i].MaxPrice.Float() - candles[i-1].ClosePrice.Float())
		lowPreviousClose := math.Abs(candles[i].MinPrice.Float() - candles[i-1].ClosePrice.Float())
		trueRanges = append(trueRanges, math.Max(highLow, math.Max(highPreviousClose, lowPreviousClose)))
	}

	if len(trueRanges) < mcs.ATRWindow {
		return 0.0
	}
	window := trueRanges[len(trueRanges)-mcs.ATRWindow:]
	return helpers.Sum(window) / float64(len(window))
}
