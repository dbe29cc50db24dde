package strategies

import (
	"time"

	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// AlwaysEnterStrategy signals on every candle. Pipeline wiring checks only,
// never trade it.
type AlwaysEnterStrategy struct{}

func (s *AlwaysEnterStrategy) Detect(timeSeries *techan.TimeSeries) (models.PatternResult, error) {
	return models.PatternResult{
		Detected:   true,
		Kind:       models.PatternFiveRed,
		Confidence: 100.0,
	}, nil
}

func (s *AlwaysEnterStrategy) TradeDirection(kind models.PatternKind) models.Direction {
	return models.DirectionCall
}

func (s *AlwaysEnterStrategy) ShouldEnter(timeSeries *techan.TimeSeries) bool {
	return true
}

func (s *AlwaysEnterStrategy) PerformSimulation(timeSeries *techan.TimeSeries, lookback int) (analytics.BacktestResult, error) {
	return analytics.BacktestResult{}, nil
}

func (s *AlwaysEnterStrategy) Analyze(brokerService interfaces.BrokerService, asset string) (*analytics.AssetAnalysis, error) {
	return &analytics.AssetAnalysis{
		Asset:       asset,
		TradeSignal: true,
		UpdatedAt:   time.Now(),
	}, nil
}
