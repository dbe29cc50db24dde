package analytics

import (
	"time"

	"gitlab.com/aoterocom/AOBinarybot/models"
)

// AssetAnalysis is the rolling approval state for one asset. TradeSignal
// turns true when the latest backtest clears the minimum win rate, and
// LockedMonitor freezes the snapshot while a trade is open on the asset.
type AssetAnalysis struct {
	Asset         string
	TradeSignal   bool
	LockedMonitor bool

	Backtest     BacktestResult
	Patterns     map[models.PatternKind]PatternPerformance
	Optimization OptimizationResult
	Condition    models.MarketCondition

	UpdatedAt time.Time
}
