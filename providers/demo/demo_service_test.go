package demo

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/sdcoffey/techan"
	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/AOBinarybot/models"
)

var testAssets = []string{"EURUSD_otc", "GBPUSD_otc", "USDJPY_otc"}

// scriptedOracle settles every trade with a fixed outcome so ledger tests
// do not depend on the tape.
type scriptedOracle struct {
	result models.TradeResult
}

func (o *scriptedOracle) Settle(trade *models.Trade, timeSeries *techan.TimeSeries) models.TradeResult {
	return o.result
}

func closesOf(timeSeries *techan.TimeSeries) []float64 {
	var closes []float64
	for _, candle := range timeSeries.Candles {
		closes = append(closes, candle.ClosePrice.Float())
	}
	return closes
}

func TestDemoServiceSameSeedReplaysTheSameTape(t *testing.T) {
	firstService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets, &PriceOracle{})
	secondService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets, &PriceOracle{})

	firstSeries, err := firstService.GetSeries("EURUSD_otc", "1m", 50)
	assert.Nil(t, err)
	secondSeries, err := secondService.GetSeries("EURUSD_otc", "1m", 50)
	assert.Nil(t, err)

	assert.Len(t, firstSeries.Candles, 50)
	assert.Equal(t, closesOf(firstSeries), closesOf(secondSeries))
}

func TestDemoServiceAssetsGetDistinctTapes(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets, &PriceOracle{})

	eurSeries, err := demoService.GetSeries("EURUSD_otc", "1m", 50)
	assert.Nil(t, err)
	gbpSeries, err := demoService.GetSeries("GBPUSD_otc", "1m", 50)
	assert.Nil(t, err)

	assert.NotEqual(t, closesOf(eurSeries), closesOf(gbpSeries))
}

// Every poll advances the tape one candle, so the second snapshot is the
// first one shifted by one.
func TestDemoServiceTapeAdvancesPerPoll(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets, &PriceOracle{})

	firstSeries, err := demoService.GetSeries("EURUSD_otc", "1m", 50)
	assert.Nil(t, err)
	secondSeries, err := demoService.GetSeries("EURUSD_otc", "1m", 50)
	assert.Nil(t, err)

	assert.Len(t, secondSeries.Candles, 50)
	assert.Equal(t, closesOf(firstSeries)[1:], closesOf(secondSeries)[:49])
}

func TestDemoServiceResolvesClosedAssetToOTC(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets, &PriceOracle{})

	_, err := demoService.GetSeries("EURUSD", "1m", 10)
	assert.Nil(t, err)

	trade, err := demoService.Buy("EURUSD", 50, models.DirectionCall, 60)
	assert.Nil(t, err)
	assert.Equal(t, "EURUSD_otc", trade.Asset)
}

func TestDemoServiceUnknownAssetIsClosed(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets, &PriceOracle{})

	_, err := demoService.GetSeries("XXXYYY", "1m", 10)
	assert.EqualError(t, err, "asset XXXYYY is closed")
}

func TestDemoServiceWinningTradeLedger(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets,
		&scriptedOracle{result: models.TradeResultWin})

	trade, err := demoService.Buy("EURUSD_otc", 100, models.DirectionCall, 60)
	assert.Nil(t, err)
	assert.Equal(t, "demo-1", trade.TicketID)
	assert.True(t, trade.IsOpen())

	balance, _ := demoService.GetBalance()
	assert.Equal(t, 9900.0, balance)

	result, profit, err := demoService.CheckTradeResult(trade)
	assert.Nil(t, err)
	assert.Equal(t, models.TradeResultWin, result)
	assert.Equal(t, 80.0, profit)

	balance, _ = demoService.GetBalance()
	assert.Equal(t, 10080.0, balance)
}

func TestDemoServiceLosingTradeLedger(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets,
		&scriptedOracle{result: models.TradeResultLoss})

	trade, err := demoService.Buy("EURUSD_otc", 100, models.DirectionPut, 60)
	assert.Nil(t, err)

	result, profit, err := demoService.CheckTradeResult(trade)
	assert.Nil(t, err)
	assert.Equal(t, models.TradeResultLoss, result)
	assert.Equal(t, -100.0, profit)

	balance, _ := demoService.GetBalance()
	assert.Equal(t, 9900.0, balance)
}

func TestDemoServiceRejectsBadStakes(t *testing.T) {
	demoService := NewDemoServiceFullFilled(50, 0.80, 42, testAssets, &PriceOracle{})

	_, err := demoService.Buy("EURUSD_otc", 0, models.DirectionCall, 60)
	assert.NotNil(t, err)

	_, err = demoService.Buy("EURUSD_otc", 100, models.DirectionCall, 60)
	assert.EqualError(t, err, "insufficient balance for a 100.00$ trade")
}

// A trade recovered from a previous session is not in the ticket book, the
// caller copy still settles.
func TestDemoServiceSettlesRecoveredTrades(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets,
		&scriptedOracle{result: models.TradeResultWin})

	recoveredTrade := &models.Trade{
		TicketID:      "demo-99",
		Asset:         "EURUSD_otc",
		Direction:     models.DirectionCall,
		Amount:        100,
		ExpirySeconds: 60,
		EntryPrice:    1.2,
		OpenTime:      time.Now().Add(-2 * time.Minute),
		Status:        models.TradeStatusExecuted,
	}

	result, profit, err := demoService.CheckTradeResult(recoveredTrade)
	assert.Nil(t, err)
	assert.Equal(t, models.TradeResultWin, result)
	assert.Equal(t, 80.0, profit)
}

func TestDemoServiceSettledTradeKeepsItsResult(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.80, 42, testAssets,
		&scriptedOracle{result: models.TradeResultLoss})

	settledTrade := &models.Trade{
		TicketID: "demo-7",
		Asset:    "EURUSD_otc",
		Amount:   100,
	}
	settledTrade.Settle(models.TradeResultWin, 80)

	result, profit, err := demoService.CheckTradeResult(settledTrade)
	assert.Nil(t, err)
	assert.Equal(t, models.TradeResultWin, result)
	assert.Equal(t, 80.0, profit)

	balance, _ := demoService.GetBalance()
	assert.Equal(t, 10000.0, balance)
}

func TestDemoServiceOpenAssetsListsOTCOnly(t *testing.T) {
	demoService := NewDemoServiceFullFilled(10000, 0.75, 42,
		[]string{"EURUSD_otc", "BTCUSDT"}, &PriceOracle{})

	assetInfos, err := demoService.OpenAssets()
	assert.Nil(t, err)
	assert.Len(t, assetInfos, 1)
	assert.Equal(t, "EURUSD_otc", assetInfos[0].Name)
	assert.True(t, assetInfos[0].Open)
	assert.Equal(t, 0.75, assetInfos[0].Payout)
	assert.Equal(t, 0.75, demoService.GetPayout("EURUSD_otc"))
}

func TestPriceOracleSettlesAgainstLastClose(t *testing.T) {
	oracle := &PriceOracle{}

	timeSeries := &techan.TimeSeries{}
	timeSeries.AddCandle(models.NewCandle(1700000000, time.Minute, 1.2000, 1.2015, 1.1995, 1.2010, 500))

	callTrade := &models.Trade{Direction: models.DirectionCall, EntryPrice: 1.2000}
	putTrade := &models.Trade{Direction: models.DirectionPut, EntryPrice: 1.2000}

	assert.Equal(t, models.TradeResultWin, oracle.Settle(callTrade, timeSeries))
	assert.Equal(t, models.TradeResultLoss, oracle.Settle(putTrade, timeSeries))

	flatTrade := &models.Trade{Direction: models.DirectionCall, EntryPrice: 1.2010}
	assert.Equal(t, models.TradeResultLoss, oracle.Settle(flatTrade, timeSeries))

	assert.Equal(t, models.TradeResultLoss, oracle.Settle(callTrade, &techan.TimeSeries{}))
}

func TestProperty_DemoFeedCandlesAreWellFormed(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every generated tape validates", prop.ForAll(
		func(seed int64) bool {
			demoService := NewDemoServiceFullFilled(10000, 0.80, seed, testAssets, &PriceOracle{})
			timeSeries, err := demoService.GetSeries("EURUSD_otc", "1m", 100)
			if err != nil {
				return false
			}
			return len(timeSeries.Candles) == 100 && models.ValidateSeries(timeSeries) == nil
		},
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}
