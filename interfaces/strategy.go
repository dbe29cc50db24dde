package interfaces

import (
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

type (
	Strategy interface {
		Detect(timeSeries *techan.TimeSeries) (models.PatternResult, error)
		TradeDirection(kind models.PatternKind) models.Direction
		ShouldEnter(timeSeries *techan.TimeSeries) bool
		PerformSimulation(timeSeries *techan.TimeSeries, lookback int) (analytics.BacktestResult, error)
		Analyze(brokerService BrokerService, asset string) (*analytics.AssetAnalysis, error)
	}
)
