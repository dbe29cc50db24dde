package demo

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/models"
)

// DemoService is an offline practice broker. It synthesizes an OTC candle
// tape per asset from a seeded random walk, keeps a paper balance, and
// settles expired trades through an OutcomeOracle, so two runs with the
// same seed and the same call sequence replay identically.
type DemoService struct {
	balance float64
	payout  float64
	assets  []string
	seed    int64

	feeds      map[string]*feed
	trades     map[string]*models.Trade
	oracle     interfaces.OutcomeOracle
	nextTicket int

	feedsMutex   *sync.Mutex
	tradesMutex  *sync.Mutex
	balanceMutex *sync.Mutex
}

func NewDemoService() *DemoService {
	balance, _ := strconv.ParseFloat(os.Getenv("demoBalance"), 64)
	if balance == 0 {
		balance = 10000.0
	}
	payout, _ := strconv.ParseFloat(os.Getenv("demoPayout"), 64)
	if payout == 0 {
		payout = 0.80
	}
	seed, _ := strconv.ParseInt(os.Getenv("demoSeed"), 10, 64)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var assets []string
	for _, asset := range strings.Split(os.Getenv("assets"), ",") {
		if trimmedAsset := strings.TrimSpace(asset); trimmedAsset != "" {
			assets = append(assets, trimmedAsset)
		}
	}
	if len(assets) == 0 {
		assets = []string{"EURUSD_otc", "GBPUSD_otc", "USDJPY_otc", "AUDUSD_otc",
			"USDCAD_otc", "NZDUSD_otc", "EURJPY_otc", "GBPJPY_otc"}
	}

	return NewDemoServiceFullFilled(balance, payout, seed, assets, &PriceOracle{})
}

func NewDemoServiceFullFilled(balance float64, payout float64, seed int64, assets []string,
	oracle interfaces.OutcomeOracle) *DemoService {
	return &DemoService{
		balance:      balance,
		payout:       payout,
		assets:       assets,
		seed:         seed,
		feeds:        make(map[string]*feed),
		trades:       make(map[string]*models.Trade),
		oracle:       oracle,
		feedsMutex:   &sync.Mutex{},
		tradesMutex:  &sync.Mutex{},
		balanceMutex: &sync.Mutex{},
	}
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

func (ds *DemoService) Connect() error {
	helpers.Logger.Debugln(fmt.Sprintf("Connected to demo account with %.2f$ balance", ds.balance))
	return nil
}

func (ds *DemoService) GetBalance() (float64, error) {
	ds.balanceMutex.Lock()
	balance := ds.balance
	ds.balanceMutex.Unlock()
	return balance, nil
}

// GetSeries returns a snapshot of the trailing candles for the asset. The
// tape advances one candle per poll so the feed never stalls.
func (ds *DemoService) GetSeries(asset string, interval string, limit int) (*techan.TimeSeries, error) {
	if limit <= 0 {
		limit = 100
	}

	ds.feedsMutex.Lock()
	defer ds.feedsMutex.Unlock()

	assetFeed, _, err := ds.feedFor(asset, interval)
	if err != nil {
		return nil, err
	}

	for len(assetFeed.series.Candles) < limit {
		assetFeed.series.AddCandle(assetFeed.nextCandle())
	}
	assetFeed.series.AddCandle(assetFeed.nextCandle())

	candles := assetFeed.series.Candles
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return &techan.TimeSeries{Candles: append([]*techan.Candle{}, candles...)}, nil
}

func (ds *DemoService) Buy(asset string, amount float64, direction models.Direction,
	expirySeconds int) (*models.Trade, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid stake %v", amount)
	}

	ds.feedsMutex.Lock()
	assetFeed, resolvedAsset, err := ds.feedFor(asset, "")
	if err != nil {
		ds.feedsMutex.Unlock()
		return nil, err
	}
	if len(assetFeed.series.Candles) == 0 {
		assetFeed.series.AddCandle(assetFeed.nextCandle())
	}
	entryPrice := assetFeed.series.LastCandle().ClosePrice.Float()
	ds.feedsMutex.Unlock()

	ds.balanceMutex.Lock()
	if ds.balance < amount {
		ds.balanceMutex.Unlock()
		return nil, fmt.Errorf("insufficient balance for a %.2f$ trade", amount)
	}
	ds.balance -= amount
	ds.balanceMutex.Unlock()

	ds.tradesMutex.Lock()
	ds.nextTicket++
	trade := &models.Trade{
		TicketID:      fmt.Sprintf("demo-%d", ds.nextTicket),
		Asset:         resolvedAsset,
		Direction:     direction,
		Amount:        amount,
		ExpirySeconds: expirySeconds,
		EntryPrice:    entryPrice,
		OpenTime:      time.Now(),
		Status:        models.TradeStatusExecuted,
	}
	ds.trades[trade.TicketID] = trade
	ds.tradesMutex.Unlock()

	return trade, nil
}

// CheckTradeResult settles the option against the tape through the oracle.
// Winning trades get the stake back plus the payout, losing trades already
// paid on entry.
func (ds *DemoService) CheckTradeResult(trade *models.Trade) (models.TradeResult, float64, error) {
	ds.tradesMutex.Lock()
	storedTrade, ok := ds.trades[trade.TicketID]
	if !ok {
		// Trades recovered from a previous session are not in the ticket
		// book, the caller copy carries everything settlement needs.
		storedTrade = trade
	}
	ds.tradesMutex.Unlock()

	if storedTrade.IsSettled() {
		return storedTrade.Result, storedTrade.Profit, nil
	}

	ds.feedsMutex.Lock()
	assetFeed, _, err := ds.feedFor(storedTrade.Asset, "")
	if err != nil {
		ds.feedsMutex.Unlock()
		return models.TradeResultLoss, 0, err
	}
	assetFeed.series.AddCandle(assetFeed.nextCandle())
	snapshot := &techan.TimeSeries{Candles: append([]*techan.Candle{}, assetFeed.series.Candles...)}
	ds.feedsMutex.Unlock()

	result := ds.oracle.Settle(storedTrade, snapshot)

	profit := -storedTrade.Amount
	if result == models.TradeResultWin {
		profit = storedTrade.Amount * ds.payout
		ds.balanceMutex.Lock()
		ds.balance += storedTrade.Amount * (1 + ds.payout)
		ds.balanceMutex.Unlock()
	}

	ds.tradesMutex.Lock()
	delete(ds.trades, trade.TicketID)
	ds.tradesMutex.Unlock()

	return result, profit, nil
}

// OpenAssets lists the OTC assets, which on this platform are the ones that
// stay open around the clock.
func (ds *DemoService) OpenAssets() ([]models.AssetInfo, error) {
	var assetInfos []models.AssetInfo
	for _, asset := range ds.assets {
		if strings.HasSuffix(asset, "_otc") {
			assetInfos = append(assetInfos, models.AssetInfo{Name: asset, Open: true, Payout: ds.payout})
		}
	}
	return assetInfos, nil
}

func (ds *DemoService) GetPayout(asset string) float64 {
	return ds.payout
}

// resolveAsset applies the platform convention: when an asset is closed its
// over-the-counter variant with the "_otc" suffix usually is not.
func (ds *DemoService) resolveAsset(asset string) (string, error) {
	for _, knownAsset := range ds.assets {
		if knownAsset == asset {
			return asset, nil
		}
	}
	if !strings.HasSuffix(asset, "_otc") {
		return ds.resolveAsset(asset + "_otc")
	}
	return "", fmt.Errorf("asset %s is closed", strings.TrimSuffix(asset, "_otc"))
}

// feedFor returns the tape for the asset, creating it on first touch.
// Callers hold feedsMutex.
func (ds *DemoService) feedFor(asset string, interval string) (*feed, string, error) {
	resolvedAsset, err := ds.resolveAsset(asset)
	if err != nil {
		return nil, "", err
	}

	if existingFeed, ok := ds.feeds[resolvedAsset]; ok {
		return existingFeed, resolvedAsset, nil
	}

	intervalSeconds := helpers.StringIntervalToSeconds(interval)
	if intervalSeconds == 0 {
		intervalSeconds = 60
	}
	newAssetFeed := newFeed(assetSeed(ds.seed, resolvedAsset), time.Duration(intervalSeconds)*time.Second)
	ds.feeds[resolvedAsset] = newAssetFeed
	return newAssetFeed, resolvedAsset, nil
}

// feed is the synthetic tape for one asset: a seeded random walk around a
// forex-looking base price, rounded to 5 decimals like the platform feed.
type feed struct {
	rng       *rand.Rand
	series    *techan.TimeSeries
	lastPrice float64
	duration  time.Duration
	nextStart time.Time
}

func newFeed(seed int64, duration time.Duration) *feed {
	return &feed{
		rng:       rand.New(rand.NewSource(seed)),
		series:    &techan.TimeSeries{},
		lastPrice: 1.2000,
		duration:  duration,
		nextStart: time.Now().Truncate(duration),
	}
}

func (f *feed) nextCandle() *techan.Candle {
	openPrice := f.lastPrice + (f.rng.Float64()-0.5)*0.002
	closePrice := openPrice + (f.rng.Float64()-0.5)*0.001
	highPrice := math.Max(openPrice, closePrice) + f.rng.Float64()*0.0005
	lowPrice := math.Min(openPrice, closePrice) - f.rng.Float64()*0.0005
	volume := 100 + f.rng.Float64()*900

	// The walk continues from the unrounded close.
	f.lastPrice = closePrice

	candle := models.NewCandle(f.nextStart.Unix(), f.duration,
		helpers.Round(openPrice, 5), helpers.Round(highPrice, 5),
		helpers.Round(lowPrice, 5), helpers.Round(closePrice, 5),
		helpers.Round(volume, 2))
	f.nextStart = f.nextStart.Add(f.duration)
	return candle
}

func assetSeed(baseSeed int64, asset string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(asset))
	return baseSeed + int64(h.Sum32())
}
