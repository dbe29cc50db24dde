package database

import "gorm.io/gorm"

// BacktestRun is one stored validation pass over an asset.
type BacktestRun struct {
	gorm.Model
	Asset         string `json:"asset" gorm:"size:200"`
	Strategy      string `json:"strategy" gorm:"size:100"`
	Lookback      int
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	ProfitLoss    float64
	MaxDrawdown   float64
	SharpeRatio   float64
	FinalBalance  float64
	Approved      bool
}
