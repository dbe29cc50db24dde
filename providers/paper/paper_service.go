package paper

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/joho/godotenv"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/providers/demo"
)

// PaperService trades binary options on paper against live Binance candles.
// Orders never leave the process: the service keeps its own balance and
// ticket book and settles through an OutcomeOracle, only market data is
// real.
type PaperService struct {
	binanceClient *binance.Client
	oracle        interfaces.OutcomeOracle

	balance    float64
	payout     float64
	assets     []string
	interval   string
	trades     map[string]*models.Trade
	nextTicket int

	tradesMutex  *sync.Mutex
	balanceMutex *sync.Mutex
}

func NewPaperService() *PaperService {
	apiKey := os.Getenv("binanceAPIKey")
	apiSecret := os.Getenv("binanceAPISecret")

	balance, _ := strconv.ParseFloat(os.Getenv("paperBalance"), 64)
	if balance == 0 {
		balance = 10000.0
	}
	payout, _ := strconv.ParseFloat(os.Getenv("paperPayout"), 64)
	if payout == 0 {
		payout = 0.80
	}
	interval := os.Getenv("interval")
	if interval == "" {
		interval = "1m"
	}

	var assets []string
	for _, asset := range strings.Split(os.Getenv("assets"), ",") {
		if trimmedAsset := strings.TrimSpace(asset); trimmedAsset != "" {
			assets = append(assets, trimmedAsset)
		}
	}
	if len(assets) == 0 {
		assets = []string{"BTCUSDT", "ETHUSDT", "BNBUSDT"}
	}

	return &PaperService{
		binanceClient: binance.NewClient(apiKey, apiSecret),
		oracle:        &demo.PriceOracle{},
		balance:       balance,
		payout:        payout,
		assets:        assets,
		interval:      interval,
		trades:        make(map[string]*models.Trade),
		tradesMutex:   &sync.Mutex{},
		balanceMutex:  &sync.Mutex{},
	}
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

func (ps *PaperService) Connect() error {
	_, err := ps.binanceClient.NewExchangeInfoService().Do(context.Background())
	return err
}

func (ps *PaperService) GetBalance() (float64, error) {
	ps.balanceMutex.Lock()
	balance := ps.balance
	ps.balanceMutex.Unlock()
	return balance, nil
}

func (ps *PaperService) GetSeries(asset string, interval string, limit int) (*techan.TimeSeries, error) {
	if limit == 0 {
		limit = 1000
	}
	timeSeries := &techan.TimeSeries{}

	intervalSeconds := helpers.StringIntervalToSeconds(interval)
	candleDuration := time.Duration(intervalSeconds) * time.Second

	provisionalLimit := limit % 1000
	if provisionalLimit == 0 {
		provisionalLimit = 1000
	}

	var resultKlines []*binance.Kline
	for limit != 0 {
		startTime := time.Now().Unix() - intervalSeconds*int64(limit)
		klines, err := ps.binanceClient.NewKlinesService().Symbol(asset).
			Interval(interval).Limit(provisionalLimit).StartTime(startTime * 1000).Do(context.Background())
		if err != nil {
			return timeSeries, err
		}

		resultKlines = append(resultKlines, klines...)

		limit -= provisionalLimit
		provisionalLimit = 1000
	}

	for _, k := range resultKlines {
		timeSeries.AddCandle(klineToCandle(k, candleDuration))
	}

	return timeSeries, nil
}

func (ps *PaperService) Buy(asset string, amount float64, direction models.Direction,
	expirySeconds int) (*models.Trade, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid stake %v", amount)
	}

	entryPrice, err := ps.lastClose(asset)
	if err != nil {
		return nil, err
	}

	ps.balanceMutex.Lock()
	if ps.balance < amount {
		ps.balanceMutex.Unlock()
		return nil, fmt.Errorf("insufficient balance for a %.2f$ trade", amount)
	}
	ps.balance -= amount
	ps.balanceMutex.Unlock()

	ps.tradesMutex.Lock()
	ps.nextTicket++
	trade := &models.Trade{
		TicketID:      fmt.Sprintf("paper-%d", ps.nextTicket),
		Asset:         asset,
		Direction:     direction,
		Amount:        amount,
		ExpirySeconds: expirySeconds,
		EntryPrice:    entryPrice,
		OpenTime:      time.Now(),
		Status:        models.TradeStatusExecuted,
	}
	ps.trades[trade.TicketID] = trade
	ps.tradesMutex.Unlock()

	return trade, nil
}

func (ps *PaperService) CheckTradeResult(trade *models.Trade) (models.TradeResult, float64, error) {
	ps.tradesMutex.Lock()
	storedTrade, ok := ps.trades[trade.TicketID]
	if !ok {
		storedTrade = trade
	}
	ps.tradesMutex.Unlock()

	if storedTrade.IsSettled() {
		return storedTrade.Result, storedTrade.Profit, nil
	}

	timeSeries, err := ps.GetSeries(storedTrade.Asset, ps.interval, 1)
	if err != nil {
		return models.TradeResultLoss, 0, err
	}

	result := ps.oracle.Settle(storedTrade, timeSeries)

	profit := -storedTrade.Amount
	if result == models.TradeResultWin {
		profit = storedTrade.Amount * ps.payout
		ps.balanceMutex.Lock()
		ps.balance += storedTrade.Amount * (1 + ps.payout)
		ps.balanceMutex.Unlock()
	}

	ps.tradesMutex.Lock()
	delete(ps.trades, trade.TicketID)
	ps.tradesMutex.Unlock()

	return result, profit, nil
}

// OpenAssets reports the configured symbols. Crypto pairs trade around the
// clock, so they are always open.
func (ps *PaperService) OpenAssets() ([]models.AssetInfo, error) {
	var assetInfos []models.AssetInfo
	for _, asset := range ps.assets {
		assetInfos = append(assetInfos, models.AssetInfo{Name: asset, Open: true, Payout: ps.payout})
	}
	return assetInfos, nil
}

func (ps *PaperService) GetPayout(asset string) float64 {
	return ps.payout
}

func (ps *PaperService) lastClose(asset string) (float64, error) {
	klines, err := ps.binanceClient.NewKlinesService().Symbol(asset).
		Interval(ps.interval).Limit(1).Do(context.Background())
	if err != nil {
		return 0, err
	}
	if len(klines) == 0 {
		return 0, fmt.Errorf("no candles for %s", asset)
	}
	return big.NewFromString(klines[len(klines)-1].Close).Float(), nil
}

func klineToCandle(k *binance.Kline, duration time.Duration) *techan.Candle {
	period := techan.NewTimePeriod(time.Unix(k.OpenTime/1000, 0), duration)
	candle := techan.NewCandle(period)
	candle.OpenPrice = big.NewFromString(k.Open)
	candle.ClosePrice = big.NewFromString(k.Close)
	candle.MaxPrice = big.NewFromString(k.High)
	candle.MinPrice = big.NewFromString(k.Low)
	candle.TradeCount = uint(k.TradeNum)
	candle.Volume = big.NewFromString(k.Volume)
	return candle
}
