package strategies

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/backtest"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
	"gitlab.com/aoterocom/AOBinarybot/strategies/Indicators"
)

// FiveCandleStrategy trades against a run of five same-colored candles:
// five greens arm a put, five reds arm a call.
type FiveCandleStrategy struct {
	Interval      string
	MinConfidence float64
	MinWinRate    float64
	Lookback      int
	CandleLimit   int
}

func NewFiveCandleStrategy(interval string) FiveCandleStrategy {
	minConfidence, _ := strconv.ParseFloat(os.Getenv("minConfidence"), 64)
	if minConfidence == 0 {
		minConfidence = 60.0
	}
	minWinRate, _ := strconv.ParseFloat(os.Getenv("minWinRate"), 64)
	if minWinRate == 0 {
		minWinRate = 60.0
	}
	lookback, _ := strconv.Atoi(os.Getenv("lookbackPeriod"))
	if lookback == 0 {
		lookback = backtest.DefaultLookback
	}
	candleLimit, _ := strconv.Atoi(os.Getenv("candleLimit"))
	if candleLimit == 0 {
		candleLimit = 100
	}

	return FiveCandleStrategy{
		Interval:      interval,
		MinConfidence: minConfidence,
		MinWinRate:    minWinRate,
		Lookback:      lookback,
		CandleLimit:   candleLimit,
	}
}

// Detect classifies the last five candles of the series. Fewer than five
// candles or any neutral candle in the run means no pattern.
func (s *FiveCandleStrategy) Detect(timeSeries *techan.TimeSeries) (models.PatternResult, error) {
	if err := models.ValidateSeries(timeSeries); err != nil {
		return models.PatternResult{}, err
	}
	if len(timeSeries.Candles) < 5 {
		return models.PatternResult{}, nil
	}

	lastFive := timeSeries.Candles[len(timeSeries.Candles)-5:]

	sharedColor := models.ColorOf(lastFive[0])
	for _, candle := range lastFive[1:] {
		if models.ColorOf(candle) != sharedColor {
			return models.PatternResult{}, nil
		}
	}
	if sharedColor == models.ColorNeutral {
		return models.PatternResult{}, nil
	}

	kind := models.PatternFiveRed
	if sharedColor == models.ColorGreen {
		kind = models.PatternFiveGreen
	}

	return models.PatternResult{
		Detected:   true,
		Kind:       kind,
		Confidence: s.Confidence(lastFive),
	}, nil
}

// Confidence scores how decisively the candles closed. A candle whose body
// fills its full range scores 100, a flat-range candle defaults to 50, and
// averages above 70 get a 10% boost capped at 100.
func (s *FiveCandleStrategy) Confidence(candles []*techan.Candle) float64 {
	if len(candles) == 0 {
		return 0.0
	}

	bodyRatio := Indicators.NewCandleBodyRatioIndicator(&techan.TimeSeries{Candles: candles})

	totalConfidence := 0.0
	for i := range candles {
		totalConfidence += bodyRatio.Calculate(i).Float() * 100
	}

	averageConfidence := totalConfidence / float64(len(candles))
	if averageConfidence > 70 {
		averageConfidence = math.Min(averageConfidence*1.1, 100)
	}

	return helpers.Round(averageConfidence, 1)
}

// TradeDirection maps a pattern to the contrarian side. Unknown kinds fall
// through to call so a stale enum value never blocks the pipeline.
func (s *FiveCandleStrategy) TradeDirection(kind models.PatternKind) models.Direction {
	if kind == models.PatternFiveGreen {
		return models.DirectionPut
	}
	return models.DirectionCall
}

func (s *FiveCandleStrategy) ShouldEnter(timeSeries *techan.TimeSeries) bool {
	patternResult, err := s.Detect(timeSeries)
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("entry check failed: %s", err.Error()))
		return false
	}
	return patternResult.Detected && patternResult.Confidence >= s.MinConfidence
}

func (s *FiveCandleStrategy) PerformSimulation(timeSeries *techan.TimeSeries, lookback int) (analytics.BacktestResult, error) {
	simulator := backtest.NewSimulator(s)
	simulator.ConfidenceThreshold = s.MinConfidence
	return simulator.Run(timeSeries, lookback)
}

// Analyze runs the whole validation pass for one asset: trailing backtest,
// per-pattern performance and the confidence sweep. The trade signal raises
// only when the backtest produced trades and cleared the minimum win rate.
func (s *FiveCandleStrategy) Analyze(brokerService interfaces.BrokerService, asset string) (*analytics.AssetAnalysis, error) {
	timeSeries, err := brokerService.GetSeries(asset, s.Interval, s.CandleLimit)
	if err != nil {
		return nil, err
	}

	analysis := &analytics.AssetAnalysis{
		Asset:     asset,
		UpdatedAt: time.Now(),
	}

	analysis.Backtest, err = s.PerformSimulation(timeSeries, s.Lookback)
	if err != nil {
		return nil, err
	}

	simulator := backtest.NewSimulator(s)
	simulator.ConfidenceThreshold = s.MinConfidence
	analysis.Patterns, err = simulator.PatternPerformance(timeSeries)
	if err != nil {
		return nil, err
	}

	optimizer := backtest.NewOptimizer(s)
	analysis.Optimization, err = optimizer.Optimize(timeSeries)
	if err != nil {
		return nil, err
	}

	analysis.TradeSignal = analysis.Backtest.TotalTrades > 0 && analysis.Backtest.WinRate >= s.MinWinRate
	if analysis.TradeSignal {
		helpers.Logger.Debugln(fmt.Sprintf("✅ %s: approved with %.2f%% win rate over %d simulated trades",
			asset, analysis.Backtest.WinRate, analysis.Backtest.TotalTrades))
	} else {
		helpers.Logger.Debugln(fmt.Sprintf("❌ %s: rejected with %.2f%% win rate over %d simulated trades",
			asset, analysis.Backtest.WinRate, analysis.Backtest.TotalTrades))
	}

	return analysis, nil
}
