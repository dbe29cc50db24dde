package backtest

import (
	"fmt"

	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// DefaultLookback is the trailing window a simulation replays when the
// caller does not pick one.
const DefaultLookback = 100

type (
	// SignalStrategy is the slice of a strategy a simulation replays.
	SignalStrategy interface {
		Detect(timeSeries *techan.TimeSeries) (models.PatternResult, error)
		TradeDirection(kind models.PatternKind) models.Direction
	}
)

// Simulator replays a signal strategy over historical candles with fixed
// stakes and a fixed payout. Each detection enters at the close of the
// signal candle and settles against the close of the next one, so the last
// candle of the window never opens a trade.
type Simulator struct {
	strategy SignalStrategy

	InitialBalance      float64
	TradeAmount         float64
	ConfidenceThreshold float64
	Payout              float64
	RecentTradesKept    int
}

func NewSimulator(strategy SignalStrategy) *Simulator {
	return &Simulator{
		strategy:            strategy,
		InitialBalance:      10000.0,
		TradeAmount:         50.0,
		ConfidenceThreshold: 60.0,
		Payout:              0.8,
		RecentTradesKept:    10,
	}
}

// Run simulates the strategy over the trailing lookback candles of the
// series. Series shorter than the lookback return a zero result: too little
// history is not an error, it is just nothing to measure.
func (s *Simulator) Run(timeSeries *techan.TimeSeries, lookback int) (analytics.BacktestResult, error) {
	if err := models.ValidateSeries(timeSeries); err != nil {
		return analytics.BacktestResult{}, fmt.Errorf("simulation aborted: %w", err)
	}
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if len(timeSeries.Candles) < lookback {
		return analytics.BacktestResult{}, nil
	}

	testCandles := timeSeries.Candles[len(timeSeries.Candles)-lookback:]

	var trades []analytics.TradeRecord
	balance := s.InitialBalance

	for i := 5; i < len(testCandles); i++ {
		window := &techan.TimeSeries{Candles: testCandles[i-4 : i+1]}
		patternResult, err := s.strategy.Detect(window)
		if err != nil {
			return analytics.BacktestResult{}, err
		}
		if !patternResult.Detected || patternResult.Confidence < s.ConfidenceThreshold {
			continue
		}
		if balance < s.TradeAmount {
			continue
		}
		if i >= len(testCandles)-1 {
			continue
		}

		direction := s.strategy.TradeDirection(patternResult.Kind)
		entryPrice := testCandles[i].ClosePrice.Float()
		exitPrice := testCandles[i+1].ClosePrice.Float()

		win := settles(direction, entryPrice, exitPrice)
		profitLoss := -s.TradeAmount
		if win {
			profitLoss = s.TradeAmount * s.Payout
		}
		balance += profitLoss

		trades = append(trades, analytics.TradeRecord{
			Timestamp:  testCandles[i].Period.Start.Unix(),
			Pattern:    patternResult.Kind,
			Direction:  direction,
			Amount:     s.TradeAmount,
			Confidence: patternResult.Confidence,
			Win:        win,
			ProfitLoss: profitLoss,
			Balance:    balance,
			EntryPrice: entryPrice,
			ExitPrice:  exitPrice,
		})
	}

	return s.aggregate(trades, balance), nil
}

// PatternPerformance replays the whole series, not just the trailing
// lookback, and counts outcomes per pattern kind. Both kinds are always
// present in the map so callers can range over them without checks.
func (s *Simulator) PatternPerformance(timeSeries *techan.TimeSeries) (map[models.PatternKind]analytics.PatternPerformance, error) {
	if err := models.ValidateSeries(timeSeries); err != nil {
		return nil, fmt.Errorf("pattern performance aborted: %w", err)
	}

	counters := map[models.PatternKind]*analytics.PatternPerformance{
		models.PatternFiveGreen: {},
		models.PatternFiveRed:   {},
	}

	candles := timeSeries.Candles
	for i := 5; i < len(candles)-1; i++ {
		window := &techan.TimeSeries{Candles: candles[i-4 : i+1]}
		patternResult, err := s.strategy.Detect(window)
		if err != nil {
			return nil, err
		}
		if !patternResult.Detected || patternResult.Confidence < s.ConfidenceThreshold {
			continue
		}

		direction := s.strategy.TradeDirection(patternResult.Kind)
		win := settles(direction, candles[i].ClosePrice.Float(), candles[i+1].ClosePrice.Float())

		counter, ok := counters[patternResult.Kind]
		if !ok {
			counter = &analytics.PatternPerformance{}
			counters[patternResult.Kind] = counter
		}
		counter.Total++
		if win {
			counter.Wins++
		} else {
			counter.Losses++
		}
	}

	performance := make(map[models.PatternKind]analytics.PatternPerformance, len(counters))
	for kind, counter := range counters {
		if counter.Total > 0 {
			counter.WinRate = helpers.Round(float64(counter.Wins)/float64(counter.Total)*100, 2)
		}
		performance[kind] = *counter
	}
	return performance, nil
}

// settles reports whether a binary option won: the exit close has to move
// past the entry close in the trade direction, a flat close loses.
func settles(direction models.Direction, entryPrice float64, exitPrice float64) bool {
	if direction == models.DirectionCall {
		return exitPrice > entryPrice
	}
	return exitPrice < entryPrice
}

func (s *Simulator) aggregate(trades []analytics.TradeRecord, balance float64) analytics.BacktestResult {
	totalTrades := len(trades)
	winningTrades := 0
	for _, trade := range trades {
		if trade.Win {
			winningTrades++
		}
	}
	losingTrades := totalTrades - winningTrades

	winRate := 0.0
	if totalTrades > 0 {
		winRate = float64(winningTrades) / float64(totalTrades) * 100
	}

	var maxDrawdown float64
	peakBalance := s.InitialBalance
	for _, trade := range trades {
		if trade.Balance > peakBalance {
			peakBalance = trade.Balance
		}
		if drawdown := (peakBalance - trade.Balance) / peakBalance; drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	sharpeRatio := 0.0
	if totalTrades > 0 {
		returns := make([]float64, 0, totalTrades)
		for _, trade := range trades {
			returns = append(returns, trade.ProfitLoss/trade.Amount)
		}
		mean := helpers.Sum(returns) / float64(len(returns))
		if stdDev := helpers.StdDev(returns, mean); stdDev > 0 {
			sharpeRatio = mean / stdDev
		}
	}

	recentTrades := trades
	if len(recentTrades) > s.RecentTradesKept {
		recentTrades = recentTrades[len(recentTrades)-s.RecentTradesKept:]
	}

	return analytics.BacktestResult{
		TotalTrades:   totalTrades,
		WinningTrades: winningTrades,
		LosingTrades:  losingTrades,
		WinRate:       helpers.Round(winRate, 2),
		ProfitLoss:    helpers.Round(balance-s.InitialBalance, 2),
		MaxDrawdown:   helpers.Round(maxDrawdown*100, 2),
		SharpeRatio:   helpers.Round(sharpeRatio, 3),
		FinalBalance:  helpers.Round(balance, 2),
		RecentTrades:  append([]analytics.TradeRecord(nil), recentTrades...),
	}
}
