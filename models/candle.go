package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

// Candle validation errors. Insufficient data is never one of these: short
// series degrade to zero results, only malformed candles fail.
var (
	ErrMalformedCandle = errors.New("malformed candle")
	ErrInvalidRange    = errors.New("invalid candle range")
)

// CandleColor classifies a candle by the sign of close minus open.
type CandleColor int

const (
	ColorNeutral CandleColor = iota
	ColorGreen
	ColorRed
)

func (c CandleColor) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorRed:
		return "red"
	default:
		return "neutral"
	}
}

func ColorOf(candle *techan.Candle) CandleColor {
	difference := candle.ClosePrice.Float() - candle.OpenPrice.Float()
	if difference > 0 {
		return ColorGreen
	}
	if difference < 0 {
		return ColorRed
	}
	return ColorNeutral
}

// NewCandle builds a techan candle from plain OHLCV values.
func NewCandle(timestamp int64, duration time.Duration, open float64, high float64,
	low float64, close float64, volume float64) *techan.Candle {
	candle := techan.NewCandle(techan.NewTimePeriod(time.Unix(timestamp, 0), duration))
	candle.OpenPrice = big.NewDecimal(open)
	candle.MaxPrice = big.NewDecimal(high)
	candle.MinPrice = big.NewDecimal(low)
	candle.ClosePrice = big.NewDecimal(close)
	candle.Volume = big.NewDecimal(volume)
	return candle
}

// ValidateCandle rejects candles a feed should never hand us: non-finite or
// non-positive prices, a high below the low, negative volume.
func ValidateCandle(candle *techan.Candle) error {
	if candle == nil {
		return fmt.Errorf("%w: nil candle", ErrMalformedCandle)
	}

	open := candle.OpenPrice.Float()
	high := candle.MaxPrice.Float()
	low := candle.MinPrice.Float()
	closePrice := candle.ClosePrice.Float()

	for _, price := range []float64{open, high, low, closePrice} {
		if math.IsNaN(price) || math.IsInf(price, 0) {
			return fmt.Errorf("%w: non-finite price at %d", ErrMalformedCandle, candle.Period.Start.Unix())
		}
		if price <= 0 {
			return fmt.Errorf("%w: missing or non-positive price at %d", ErrMalformedCandle, candle.Period.Start.Unix())
		}
	}

	if high < low {
		return fmt.Errorf("%w: high %v below low %v at %d", ErrInvalidRange, high, low, candle.Period.Start.Unix())
	}
	if candle.Volume.Float() < 0 {
		return fmt.Errorf("%w: negative volume at %d", ErrMalformedCandle, candle.Period.Start.Unix())
	}

	return nil
}

// ValidateSeries fails on the first malformed candle in the series.
func ValidateSeries(timeSeries *techan.TimeSeries) error {
	if timeSeries == nil {
		return fmt.Errorf("%w: nil series", ErrMalformedCandle)
	}
	for _, candle := range timeSeries.Candles {
		if err := ValidateCandle(candle); err != nil {
			return err
		}
	}
	return nil
}
