package Indicators

import (
	"math"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

type candleBodyRatioIndicator struct {
	series *techan.TimeSeries
}

// NewCandleBodyRatioIndicator measures how much of a candle's range its body
// fills, from 0 (all wick) to 1 (marubozu). A zero-range candle carries no
// information and scores 0.5.
func NewCandleBodyRatioIndicator(series *techan.TimeSeries) techan.Indicator {
	return candleBodyRatioIndicator{
		series: series,
	}
}

func (cbr candleBodyRatioIndicator) Calculate(index int) big.Decimal {
	candle := cbr.series.Candles[index]

	body := math.Abs(candle.ClosePrice.Float() - candle.OpenPrice.Float())
	wick := candle.MaxPrice.Float() - candle.MinPrice.Float()

	if wick == 0.0 {
		return big.NewDecimal(0.5)
	}

	return big.NewDecimal(math.Min(body/wick, 1.0))
}
