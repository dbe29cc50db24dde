package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gitlab.com/aoterocom/AOBinarybot/database"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// AssetAnalysisService keeps a rolling validation verdict for every watched
// asset. The trader only enters assets whose latest analysis raised the
// trade signal, and a locked asset keeps its snapshot frozen while a trade
// is open on it.
type AssetAnalysisService struct {
	AssetAnalysisResults *[]*analytics.AssetAnalysis
	BrokerService        interfaces.BrokerService

	strategy         interfaces.Strategy
	strategyName     string
	conditionService MarketConditionService
	databaseService  *database.DBService

	interval         string
	candleLimit      int
	lookback         int
	analysisInterval time.Duration
	databaseEnabled  bool
}

func NewAssetAnalysisService(brokerService interfaces.BrokerService, strategy interfaces.Strategy,
	strategyName string, assetAnalysisResults *[]*analytics.AssetAnalysis,
	databaseService *database.DBService) AssetAnalysisService {

	interval := os.Getenv("interval")
	if interval == "" {
		interval = "1m"
	}
	candleLimit, _ := strconv.Atoi(os.Getenv("candleLimit"))
	if candleLimit == 0 {
		candleLimit = 100
	}
	lookback, _ := strconv.Atoi(os.Getenv("lookbackPeriod"))
	if lookback == 0 {
		lookback = 100
	}
	analysisSeconds, _ := strconv.Atoi(os.Getenv("analysisSeconds"))
	if analysisSeconds == 0 {
		analysisSeconds = 30
	}
	databaseEnabled, _ := strconv.ParseBool(os.Getenv("enableDatabaseRecording"))

	return AssetAnalysisService{
		AssetAnalysisResults: assetAnalysisResults,
		BrokerService:        brokerService,
		strategy:             strategy,
		strategyName:         strategyName,
		conditionService:     NewMarketConditionService(),
		databaseService:      databaseService,
		interval:             interval,
		candleLimit:          candleLimit,
		lookback:             lookback,
		analysisInterval:     time.Duration(analysisSeconds) * time.Second,
		databaseEnabled:      databaseEnabled,
	}
}

func (aas *AssetAnalysisService) PopulateWithAssets(assets []string) {
	for _, asset := range assets {
		*aas.AssetAnalysisResults = append(*aas.AssetAnalysisResults,
			&analytics.AssetAnalysis{Asset: asset})
	}
}

// PopulateFromBroker fills the watch list with every asset the broker
// reports open.
func (aas *AssetAnalysisService) PopulateFromBroker() error {
	assetInfos, err := aas.BrokerService.OpenAssets()
	if err != nil {
		return err
	}
	for _, assetInfo := range assetInfos {
		if assetInfo.Open {
			*aas.AssetAnalysisResults = append(*aas.AssetAnalysisResults,
				&analytics.AssetAnalysis{Asset: assetInfo.Name})
		}
	}
	return nil
}

// AnalyzeAssets revalidates the whole watch list forever.
func (aas *AssetAnalysisService) AnalyzeAssets() {
	defer func() {
		if r := recover(); r != nil {
			helpers.Logger.Errorln(fmt.Sprintf("Recovered. Error on AnalyzeAssets: %v", r))
			time.Sleep(1 * time.Second)
			aas.AnalyzeAssets()
		}
	}()

	for {
		for _, assetAnalysis := range *aas.AssetAnalysisResults {
			if assetAnalysis.LockedMonitor {
				continue
			}

			newAnalysis, err := aas.analyzeAsset(assetAnalysis.Asset)
			if err != nil {
				helpers.Logger.Errorln(fmt.Sprintf("%s: analysis failed: %s", assetAnalysis.Asset, err.Error()))
				continue
			}
			*assetAnalysis = *newAnalysis
		}

		time.Sleep(aas.analysisInterval)
	}
}

func (aas *AssetAnalysisService) analyzeAsset(asset string) (*analytics.AssetAnalysis, error) {
	analysis, err := aas.strategy.Analyze(aas.BrokerService, asset)
	if err != nil {
		return nil, err
	}

	timeSeries, err := aas.BrokerService.GetSeries(asset, aas.interval, aas.candleLimit)
	if err != nil {
		return nil, err
	}
	analysis.Condition, err = aas.conditionService.Analyze(timeSeries)
	if err != nil {
		return nil, err
	}

	if aas.databaseEnabled && aas.databaseService != nil {
		aas.databaseService.AddBacktestRun(asset, aas.strategyName, aas.lookback,
			analysis.Backtest, analysis.TradeSignal)
	}

	return analysis, nil
}

// GetSignaledAssets returns the approved assets best win rate first.
func (aas *AssetAnalysisService) GetSignaledAssets() []*analytics.AssetAnalysis {
	var signaledAssets []*analytics.AssetAnalysis
	for _, assetAnalysis := range *aas.AssetAnalysisResults {
		if assetAnalysis.TradeSignal {
			signaledAssets = append(signaledAssets, assetAnalysis)
		}
	}

	sort.Slice(signaledAssets, func(i, j int) bool {
		return signaledAssets[i].Backtest.WinRate > signaledAssets[j].Backtest.WinRate
	})
	return signaledAssets
}

func (aas *AssetAnalysisService) GetAssetAnalysis(asset string) *analytics.AssetAnalysis {
	for _, assetAnalysis := range *aas.AssetAnalysisResults {
		if assetAnalysis.Asset == asset {
			return assetAnalysis
		}
	}
	return nil
}

func (aas *AssetAnalysisService) LockAsset(asset string) {
	for _, assetAnalysis := range *aas.AssetAnalysisResults {
		if assetAnalysis.Asset == asset {
			assetAnalysis.LockedMonitor = true
		}
	}
}

func (aas *AssetAnalysisService) UnLockAsset(asset string) {
	for _, assetAnalysis := range *aas.AssetAnalysisResults {
		if assetAnalysis.Asset == asset {
			assetAnalysis.LockedMonitor = false
		}
	}
}

func (aas *AssetAnalysisService) IsAssetLocked(asset string) bool {
	for _, assetAnalysis := range *aas.AssetAnalysisResults {
		if assetAnalysis.Asset == asset {
			return assetAnalysis.LockedMonitor
		}
	}
	return false
}
