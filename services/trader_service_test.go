package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sdcoffey/techan"
	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// unreachableBroker refuses every settlement check, the way a platform
// behaves during an outage.
type unreachableBroker struct{}

func (ub *unreachableBroker) Connect() error { return nil }

func (ub *unreachableBroker) GetBalance() (float64, error) { return 10000.0, nil }

func (ub *unreachableBroker) GetSeries(asset string, interval string, limit int) (*techan.TimeSeries, error) {
	return nil, errors.New("broker unreachable")
}

func (ub *unreachableBroker) Buy(asset string, amount float64, direction models.Direction,
	expirySeconds int) (*models.Trade, error) {
	return nil, errors.New("broker unreachable")
}

func (ub *unreachableBroker) CheckTradeResult(trade *models.Trade) (models.TradeResult, float64, error) {
	return "", 0.0, errors.New("broker unreachable")
}

func (ub *unreachableBroker) OpenAssets() ([]models.AssetInfo, error) { return nil, nil }

func (ub *unreachableBroker) GetPayout(asset string) float64 { return 0.8 }

// A settlement that exhausts its retries has to leave the session book
// clean: with the trade stuck active, the open-trade cap would refuse
// every later entry for the rest of the session.
func TestTraderDropsTheTradeWhenSettlementGivesUp(t *testing.T) {
	broker := &unreachableBroker{}
	var results []*analytics.AssetAnalysis
	analysisService := NewAssetAnalysisService(broker, nil, "fiveCandleStrategy", &results, nil)
	analysisService.PopulateWithAssets([]string{"EURUSD_otc"})
	sessionService := NewSessionService()
	trader := NewTraderService(broker, nil, &analysisService, sessionService, nil)
	trader.settleRetryDelay = time.Millisecond

	trade := sessionTrade("demo-1", "EURUSD_otc")
	trade.OpenTime = time.Now().Add(-2 * time.Minute)
	sessionService.AddActiveTrade(trade)
	analysisService.LockAsset("EURUSD_otc")

	trader.SettleAfterExpiry(trade)

	assert.False(t, sessionService.HasActiveTrade("EURUSD_otc"))
	assert.Equal(t, 0, sessionService.ActiveTradesCount())
	assert.Equal(t, 0, sessionService.TotalTrades())
	assert.False(t, analysisService.IsAssetLocked("EURUSD_otc"))
	assert.True(t, trade.IsOpen())
}

func TestTraderCurrentBalanceSafeUnderConcurrentSettlements(t *testing.T) {
	broker := &unreachableBroker{}
	var results []*analytics.AssetAnalysis
	analysisService := NewAssetAnalysisService(broker, nil, "fiveCandleStrategy", &results, nil)
	trader := NewTraderService(broker, nil, &analysisService, NewSessionService(), nil)

	var waitGroup sync.WaitGroup
	for i := 0; i < 50; i++ {
		balance := 10000.0 + float64(i)
		waitGroup.Add(2)
		go func() {
			defer waitGroup.Done()
			trader.setCurrentBalance(balance)
		}()
		go func() {
			defer waitGroup.Done()
			trader.getCurrentBalance()
		}()
	}
	waitGroup.Wait()

	trader.setCurrentBalance(10250.0)
	assert.Equal(t, 10250.0, trader.getCurrentBalance())
}
