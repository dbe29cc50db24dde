package backtest

import (
	"fmt"

	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// Optimizer sweeps the confidence gate over a fixed candidate set and keeps
// the threshold with the best simulated win rate. The sweep counts every
// detection above the threshold regardless of balance, so it measures the
// signal, not the bankroll.
type Optimizer struct {
	strategy   SignalStrategy
	Thresholds []float64
}

func NewOptimizer(strategy SignalStrategy) *Optimizer {
	return &Optimizer{
		strategy:   strategy,
		Thresholds: []float64{50.0, 60.0, 70.0, 80.0},
	}
}

// Optimize scans the thresholds in ascending order. Only a strictly better
// win rate replaces the incumbent, so ties settle on the lowest threshold,
// and a sweep where nothing ever wins returns the zero result.
func (o *Optimizer) Optimize(timeSeries *techan.TimeSeries) (analytics.OptimizationResult, error) {
	if err := models.ValidateSeries(timeSeries); err != nil {
		return analytics.OptimizationResult{}, fmt.Errorf("optimization aborted: %w", err)
	}

	var best analytics.OptimizationResult
	bestWinRate := 0.0

	for _, threshold := range o.Thresholds {
		totalTrades, wins, err := o.sweep(timeSeries, threshold)
		if err != nil {
			return analytics.OptimizationResult{}, err
		}

		winRate := 0.0
		if totalTrades > 0 {
			winRate = helpers.Round(float64(wins)/float64(totalTrades)*100, 2)
		}

		if winRate > bestWinRate {
			bestWinRate = winRate
			best = analytics.OptimizationResult{
				ConfidenceThreshold: threshold,
				ExpectedWinRate:     winRate,
				TotalTrades:         totalTrades,
			}
		}
	}

	return best, nil
}

func (o *Optimizer) sweep(timeSeries *techan.TimeSeries, threshold float64) (int, int, error) {
	candles := timeSeries.Candles
	totalTrades := 0
	wins := 0

	for i := 5; i < len(candles)-1; i++ {
		window := &techan.TimeSeries{Candles: candles[i-4 : i+1]}
		patternResult, err := o.strategy.Detect(window)
		if err != nil {
			return 0, 0, err
		}
		if !patternResult.Detected || patternResult.Confidence < threshold {
			continue
		}

		totalTrades++
		direction := o.strategy.TradeDirection(patternResult.Kind)
		if settles(direction, candles[i].ClosePrice.Float(), candles[i+1].ClosePrice.Float()) {
			wins++
		}
	}

	return totalTrades, wins, nil
}
