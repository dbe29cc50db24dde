package services

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/database"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// TraderService runs the live loop: poll the signaled assets, enter on a
// fresh pattern, settle each trade after its expiry. One settlement
// goroutine per open trade.
type TraderService struct {
	brokerService        interfaces.BrokerService
	strategy             interfaces.Strategy
	assetAnalysisService *AssetAnalysisService
	sessionService       *SessionService
	databaseService      *database.DBService
	conditionService     MarketConditionService
	positionSizer        PositionSizer

	interval         string
	candleLimit      int
	expirySeconds    int
	maxOpenTrades    int
	fixedTradeAmount float64
	databaseEnabled  bool
	settleRetryDelay time.Duration

	initialBalance float64
	currentBalance float64
	balanceMutex   *sync.Mutex
}

func NewTraderService(brokerService interfaces.BrokerService, strategy interfaces.Strategy,
	assetAnalysisService *AssetAnalysisService, sessionService *SessionService,
	databaseService *database.DBService) TraderService {
	return TraderService{
		brokerService:        brokerService,
		strategy:             strategy,
		assetAnalysisService: assetAnalysisService,
		sessionService:       sessionService,
		databaseService:      databaseService,
		conditionService:     NewMarketConditionService(),
		positionSizer:        NewPositionSizer(),
		settleRetryDelay:     500 * time.Millisecond,
		balanceMutex:         &sync.Mutex{},
	}
}

func (ts *TraderService) Start() {
	ts.interval = os.Getenv("interval")
	if ts.interval == "" {
		ts.interval = "1m"
	}
	ts.candleLimit, _ = strconv.Atoi(os.Getenv("candleLimit"))
	if ts.candleLimit == 0 {
		ts.candleLimit = 100
	}
	ts.expirySeconds, _ = strconv.Atoi(os.Getenv("expirySeconds"))
	if ts.expirySeconds == 0 {
		ts.expirySeconds = 60
	}
	ts.maxOpenTrades, _ = strconv.Atoi(os.Getenv("maxOpenTrades"))
	if ts.maxOpenTrades == 0 {
		ts.maxOpenTrades = 1
	}
	ts.fixedTradeAmount, _ = strconv.ParseFloat(os.Getenv("tradeAmount"), 64)
	ts.databaseEnabled, _ = strconv.ParseBool(os.Getenv("enableDatabaseRecording"))
	if riskPct, _ := strconv.ParseFloat(os.Getenv("riskPct"), 64); riskPct > 0 {
		ts.positionSizer.RiskPct = riskPct
	}

	initialBalance, err := ts.brokerService.GetBalance()
	if err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("Couldn't get the initial balance: %s", err.Error()))
	}
	ts.initialBalance = initialBalance
	ts.setCurrentBalance(initialBalance)
	helpers.Logger.Infoln(fmt.Sprintf("🔸 Session started with %.2f$ balance", initialBalance))

	ts.RecoverOpenTrades()

	for {
		for _, assetAnalysis := range ts.assetAnalysisService.GetSignaledAssets() {
			asset := assetAnalysis.Asset

			if ts.sessionService.HasActiveTrade(asset) || ts.assetAnalysisService.IsAssetLocked(asset) {
				continue
			}
			if ts.sessionService.ActiveTradesCount() >= ts.maxOpenTrades {
				continue
			}

			timeSeries, err := ts.brokerService.GetSeries(asset, ts.interval, ts.candleLimit)
			if err != nil {
				helpers.Logger.Errorln(fmt.Sprintf("%s: error getting candles: %s", asset, err.Error()))
				continue
			}

			if ts.EntryCheck(timeSeries) {
				ts.assetAnalysisService.LockAsset(asset)
				ts.PerformEntry(asset, assetAnalysis, timeSeries)
			}
		}

		time.Sleep(1 * time.Second)
	}
}

func (ts *TraderService) EntryCheck(timeSeries *techan.TimeSeries) bool {
	return ts.strategy.ShouldEnter(timeSeries)
}

func (ts *TraderService) PerformEntry(asset string, assetAnalysis *analytics.AssetAnalysis,
	timeSeries *techan.TimeSeries) {
	patternResult, err := ts.strategy.Detect(timeSeries)
	if err != nil || !patternResult.Detected {
		ts.assetAnalysisService.UnLockAsset(asset)
		return
	}
	direction := ts.strategy.TradeDirection(patternResult.Kind)

	if ts.databaseEnabled && ts.databaseService != nil {
		ts.databaseService.AddSignal(asset, ts.interval, string(patternResult.Kind), string(direction),
			patternResult.Confidence, strings.Replace(reflect.TypeOf(ts.strategy).String(), "*strategies.", "", 1))
	}

	currentBalance := ts.getCurrentBalance()
	amount := ts.fixedTradeAmount
	if amount <= 0 {
		amount = ts.positionSizer.RecommendedAmount(currentBalance, assetAnalysis.Backtest.WinRate)
	}
	if amount <= 0 {
		helpers.Logger.Warnln(fmt.Sprintf("%s: no stake available, skipping entry", asset))
		ts.assetAnalysisService.UnLockAsset(asset)
		return
	}

	condition, err := ts.conditionService.Analyze(timeSeries)
	if err != nil {
		condition = models.MarketCondition{Trend: models.TrendUnknown, Volatility: models.VolatilityUnknown}
	}

	trade, err := ts.brokerService.Buy(asset, amount, direction, ts.expirySeconds)
	if err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("%s: error executing trade: %s", asset, err.Error()))
		ts.assetAnalysisService.UnLockAsset(asset)
		return
	}
	trade.Pattern = patternResult.Kind
	trade.Confidence = patternResult.Confidence
	trade.BacktestWinRate = assetAnalysis.Backtest.WinRate

	ts.sessionService.AddActiveTrade(trade)

	helpers.Logger.Infoln(
		fmt.Sprintf("📈 **%s: ❕ Entry signal**\n", trade.Asset) +
			fmt.Sprintf("Pattern: %s (confidence %.1f%%)\n", trade.Pattern, trade.Confidence) +
			fmt.Sprintf("Backtest win rate: %.2f%%\n", trade.BacktestWinRate) +
			fmt.Sprintf("Market: %s trend, %s volatility\n", condition.Trend, condition.Volatility) +
			fmt.Sprintf("Direction: %s Expiry: %ds\n", trade.Direction, trade.ExpirySeconds) +
			fmt.Sprintf("Entry price: %v\n", trade.EntryPrice) +
			fmt.Sprintf("Amount: %.2f$\n\n", trade.Amount) +
			fmt.Sprintf("Current balance: %.2f$", currentBalance))

	if ts.databaseEnabled && ts.databaseService != nil {
		trade.Id = ts.databaseService.AddTrade(trade)
	}

	go ts.SettleAfterExpiry(trade)
}

// SettleAfterExpiry waits out the option and records the outcome. Runs as
// its own goroutine and re-arms itself if anything panics mid-settlement.
func (ts *TraderService) SettleAfterExpiry(trade *models.Trade) {
	defer func() {
		if r := recover(); r != nil {
			helpers.Logger.Errorln(fmt.Sprintf("Recovered. Error on SettleAfterExpiry: %v", r))
			time.Sleep(1 * time.Second)
			ts.SettleAfterExpiry(trade)
		}
	}()

	if wait := time.Until(trade.ExpiryTime()); wait > 0 {
		time.Sleep(wait)
	}

	result, profit, err := ts.brokerService.CheckTradeResult(trade)
	count := 0
	for err != nil {
		if count > 15 {
			// Dropped, not settled: the database row stays executed so a
			// later session can recover it.
			helpers.Logger.Errorln(fmt.Sprintf("%s: giving up on settlement of trade %s, dropping it from the session: %s",
				trade.Asset, trade.TicketID, err.Error()))
			ts.sessionService.DropActiveTrade(trade)
			ts.assetAnalysisService.UnLockAsset(trade.Asset)
			return
		}
		count++
		time.Sleep(ts.settleRetryDelay)
		result, profit, err = ts.brokerService.CheckTradeResult(trade)
	}

	ts.sessionService.SettleTrade(trade, result, profit)
	ts.assetAnalysisService.UnLockAsset(trade.Asset)

	if balance, err := ts.brokerService.GetBalance(); err == nil {
		ts.setCurrentBalance(balance)
	}
	updatedBalance := ts.getCurrentBalance()

	resultEmoji := "✅"
	if result != models.TradeResultWin {
		resultEmoji = "❌"
	}

	helpers.Logger.Infoln(
		fmt.Sprintf("📉 **%s: ❕ Trade settled**\n", trade.Asset) +
			fmt.Sprintf("%s Result: %s Profit: %.2f$\n", resultEmoji, result, profit) +
			fmt.Sprintf("Session: %d trades, %.1f%% win rate\n", ts.sessionService.TotalTrades(), ts.sessionService.WinRate()) +
			fmt.Sprintf("Updated balance: %.2f$\n", updatedBalance) +
			fmt.Sprintf("Session gain: %.2f$", updatedBalance-ts.initialBalance))

	if ts.databaseEnabled && ts.databaseService != nil {
		ts.databaseService.UpdateTradeResult(trade.Id, string(result), profit)
	}
}

// RecoverOpenTrades re-arms settlement for trades left open by a previous
// session. Trades already past expiry settle immediately.
func (ts *TraderService) RecoverOpenTrades() {
	if !ts.databaseEnabled || ts.databaseService == nil {
		return
	}

	for _, dbTrade := range ts.databaseService.GetOpenTrades() {
		trade := &models.Trade{
			Id:              dbTrade.ID,
			TicketID:        dbTrade.TicketID,
			Asset:           dbTrade.Asset,
			Direction:       models.Direction(dbTrade.Direction),
			Amount:          dbTrade.Amount,
			ExpirySeconds:   dbTrade.ExpirySeconds,
			EntryPrice:      dbTrade.EntryPrice,
			OpenTime:        time.Unix(dbTrade.OpenTime, 0),
			Pattern:         models.PatternKind(dbTrade.Pattern),
			Confidence:      dbTrade.Confidence,
			BacktestWinRate: dbTrade.BacktestWinRate,
			Status:          models.TradeStatusExecuted,
		}

		ts.sessionService.AddActiveTrade(trade)
		ts.assetAnalysisService.LockAsset(trade.Asset)
		helpers.Logger.Infoln(fmt.Sprintf("⚡ %s: recovered open trade %s from a previous session",
			trade.Asset, trade.TicketID))
		go ts.SettleAfterExpiry(trade)
	}
}

// Settlement goroutines write the balance while the entry loop reads it.
func (ts *TraderService) getCurrentBalance() float64 {
	ts.balanceMutex.Lock()
	currentBalance := ts.currentBalance
	ts.balanceMutex.Unlock()
	return currentBalance
}

func (ts *TraderService) setCurrentBalance(balance float64) {
	ts.balanceMutex.Lock()
	ts.currentBalance = balance
	ts.balanceMutex.Unlock()
}
