package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/aoterocom/AOBinarybot/database"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/providers/demo"
	"gitlab.com/aoterocom/AOBinarybot/providers/paper"
)

// Maintenance tool for the trade database: records the latest candles for
// every configured asset, prints the recorded statistics and prunes settled
// trades older than the retention window.
func main() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")

	dbService, err := database.NewDBService(os.Getenv("databaseHost"), os.Getenv("databasePort"),
		os.Getenv("databaseName"), os.Getenv("databaseUser"), os.Getenv("databasePassword"))
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}

	var brokerService interfaces.BrokerService
	switch os.Getenv("provider") {
	case "paper":
		brokerService = paper.NewPaperService()
	default:
		brokerService = demo.NewDemoService()
	}
	if err := brokerService.Connect(); err != nil {
		panic("failed to connect broker: " + err.Error())
	}

	interval := os.Getenv("interval")
	if interval == "" {
		interval = "1m"
	}
	candleLimit, _ := strconv.Atoi(os.Getenv("candleLimit"))
	if candleLimit == 0 {
		candleLimit = 100
	}

	var assets []string
	for _, asset := range strings.Split(os.Getenv("assets"), ",") {
		if trimmedAsset := strings.TrimSpace(asset); trimmedAsset != "" {
			assets = append(assets, trimmedAsset)
		}
	}
	if len(assets) == 0 {
		assetInfos, err := brokerService.OpenAssets()
		if err != nil {
			panic("failed to list assets: " + err.Error())
		}
		for _, assetInfo := range assetInfos {
			assets = append(assets, assetInfo.Name)
		}
	}

	for _, asset := range assets {
		timeSeries, err := brokerService.GetSeries(asset, interval, candleLimit)
		if err != nil {
			fmt.Printf("%s: error getting candles: %s\n", asset, err.Error())
			continue
		}
		recorded := 0
		for _, candle := range timeSeries.Candles {
			dbService.AddOrUpdateCandle(*candle, asset, interval)
			recorded++
		}
		fmt.Printf("%s: recorded %d candles\n", asset, recorded)
	}

	overall := dbService.GetOverallStats()
	fmt.Println("\nOverall stats")
	fmt.Printf("  trades: %d  wins: %d  losses: %d  win rate: %.2f%%  profit: %.2f\n",
		overall.TotalTrades, overall.Wins, overall.Losses, overall.WinRate, overall.TotalProfit)

	fmt.Println("\nPer asset")
	for _, assetStats := range dbService.GetAssetStats() {
		fmt.Printf("  %s: trades: %d  wins: %d  win rate: %.2f%%  profit: %.2f\n",
			assetStats.Asset, assetStats.TotalTrades, assetStats.Wins, assetStats.WinRate, assetStats.TotalProfit)
	}

	fmt.Println("\nPer pattern")
	for _, patternStats := range dbService.GetPatternStats() {
		fmt.Printf("  %s: trades: %d  wins: %d  win rate: %.2f%%\n",
			patternStats.Pattern, patternStats.TotalTrades, patternStats.Wins, patternStats.WinRate)
	}

	fmt.Println("\nRecent trades")
	for _, trade := range dbService.GetRecentTrades(10) {
		fmt.Printf("  #%d %s %s %.2f -> %s %.2f\n",
			trade.ID, trade.Asset, trade.Direction, trade.Amount, trade.Result, trade.Profit)
	}

	retentionDays, _ := strconv.Atoi(os.Getenv("tradeRetentionDays"))
	if retentionDays == 0 {
		retentionDays = 30
	}
	deleted := dbService.DeleteOldTrades(retentionDays)
	fmt.Printf("\npruned %d settled trades older than %d days\n", deleted, retentionDays)
}
