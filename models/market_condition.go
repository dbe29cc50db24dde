package models

// Trend is the short versus long moving average relation.
type Trend string

// Volatility buckets the average true range relative to price.
type Volatility string

const (
	TrendUnknown  Trend = "unknown"
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"

	VolatilityUnknown Volatility = "unknown"
	VolatilityLow     Volatility = "low"
	VolatilityMedium  Volatility = "medium"
	VolatilityHigh    Volatility = "high"
)

// MarketCondition summarizes a candle window. It is advisory context for
// logs and the dashboard, never an entry gate.
type MarketCondition struct {
	Trend            Trend
	Volatility       Volatility
	Strength         float64
	ATR              float64
	InsufficientData bool
}
