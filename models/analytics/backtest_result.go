package analytics

import "gitlab.com/aoterocom/AOBinarybot/models"

// TradeRecord is one simulated trade inside a backtest run.
type TradeRecord struct {
	Timestamp  int64
	Pattern    models.PatternKind
	Direction  models.Direction
	Amount     float64
	Confidence float64
	Win        bool
	ProfitLoss float64
	Balance    float64
	EntryPrice float64
	ExitPrice  float64
}

// BacktestResult aggregates a simulated replay of the strategy. A zero
// value means the series was too short to simulate.
type BacktestResult struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	ProfitLoss    float64
	MaxDrawdown   float64
	SharpeRatio   float64
	FinalBalance  float64
	RecentTrades  []TradeRecord
}
