package main

import (
	"fmt"
	"log"

	"gitlab.com/aoterocom/AOBinarybot/backtest"
	"gitlab.com/aoterocom/AOBinarybot/providers/demo"
	"gitlab.com/aoterocom/AOBinarybot/services"
	"gitlab.com/aoterocom/AOBinarybot/strategies"
)

// Offline validation run against the synthetic feed. No broker, no database:
// a fixed seed makes the run reproducible.
func main() {
	assets := []string{"EURUSD_otc", "GBPUSD_otc", "USDJPY_otc"}
	demoService := demo.NewDemoServiceFullFilled(10000.0, 0.80, 42, assets, &demo.PriceOracle{})

	strategy := strategies.NewFiveCandleStrategy("1m")
	conditionService := services.NewMarketConditionService()

	for _, asset := range assets {
		timeSeries, err := demoService.GetSeries(asset, "1m", 500)
		if err != nil {
			log.Fatal(err.Error())
		}

		result, err := strategy.PerformSimulation(timeSeries, 400)
		if err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("\n%s\n", asset)
		fmt.Println(backtest.GenerateReport(result))

		simulator := backtest.NewSimulator(&strategy)
		simulator.ConfidenceThreshold = strategy.MinConfidence
		patterns, err := simulator.PatternPerformance(timeSeries)
		if err != nil {
			log.Fatal(err.Error())
		}
		for kind, performance := range patterns {
			fmt.Printf("%s: %d trades, %d wins, %.2f%% win rate\n",
				kind, performance.Total, performance.Wins, performance.WinRate)
		}

		optimization, err := backtest.NewOptimizer(&strategy).Optimize(timeSeries)
		if err != nil {
			log.Fatal(err.Error())
		}
		if optimization.TotalTrades == 0 {
			fmt.Println("optimizer: no threshold produced a winning trade")
		} else {
			fmt.Printf("optimizer: best threshold %.0f%% -> %.2f%% over %d trades\n",
				optimization.ConfidenceThreshold, optimization.ExpectedWinRate, optimization.TotalTrades)
		}

		condition, err := conditionService.Analyze(timeSeries)
		if err != nil {
			log.Fatal(err.Error())
		}
		fmt.Printf("condition: %s trend, %s volatility, strength %.1f%%\n",
			condition.Trend, condition.Volatility, condition.Strength)
	}
}
