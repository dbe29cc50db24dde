package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOBinarybot/backtest"
	"gitlab.com/aoterocom/AOBinarybot/database"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
	"gitlab.com/aoterocom/AOBinarybot/providers/demo"
	"gitlab.com/aoterocom/AOBinarybot/providers/paper"
	"gitlab.com/aoterocom/AOBinarybot/services"
	strategies2 "gitlab.com/aoterocom/AOBinarybot/strategies"
	"gitlab.com/aoterocom/AOBinarybot/ui"
)

type Bot struct {
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

// RunTrader starts the headless trading loop: rolling analysis in the
// background, entries and settlements in the foreground.
func (b *Bot) RunTrader(c *cli.Context) {
	helpers.Logger.Infoln("🖖🏻 Binary signal trader started")

	brokerService, strategy, strategyName := b.setupPipeline(c)
	databaseService := b.databaseFromEnv()

	assetAnalysisService, sessionService := b.startAnalysis(brokerService, strategy, strategyName, databaseService)

	traderService := services.NewTraderService(brokerService, strategy, assetAnalysisService,
		sessionService, databaseService)
	traderService.Start()
}

// RunDashboard runs the same pipeline as RunTrader with the terminal
// dashboard in the foreground.
func (b *Bot) RunDashboard(c *cli.Context) {
	helpers.Logger.Infoln("🖖🏻 Binary signal trader started with dashboard")

	brokerService, strategy, strategyName := b.setupPipeline(c)
	databaseService := b.databaseFromEnv()

	assetAnalysisService, sessionService := b.startAnalysis(brokerService, strategy, strategyName, databaseService)

	traderService := services.NewTraderService(brokerService, strategy, assetAnalysisService,
		sessionService, databaseService)
	go traderService.Start()

	userInterface := ui.UserInterface{}
	userInterface.SetServices(brokerService, assetAnalysisService, sessionService, databaseService)
	userInterface.Run()
}

// RunBacktest validates the strategy over recent candles for one asset and
// prints the report.
func (b *Bot) RunBacktest(c *cli.Context) {
	brokerService, strategy, strategyName := b.setupPipeline(c)

	asset := c.String("asset")
	if asset == "" {
		assets := assetsFromEnv()
		if len(assets) == 0 {
			helpers.Logger.Fatalln("no asset to backtest: pass --asset or set the assets parameter")
		}
		asset = assets[0]
	}

	lookback := c.Int("lookback")
	if lookback == 0 {
		lookback, _ = strconv.Atoi(os.Getenv("lookbackPeriod"))
	}
	if lookback == 0 {
		lookback = backtest.DefaultLookback
	}
	candleLimit, _ := strconv.Atoi(os.Getenv("candleLimit"))
	if candleLimit < lookback {
		candleLimit = lookback
	}

	interval := intervalFromEnv()
	timeSeries, err := brokerService.GetSeries(asset, interval, candleLimit)
	if err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("%s: error getting candles: %s", asset, err.Error()))
	}

	result, err := strategy.PerformSimulation(timeSeries, lookback)
	if err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("%s: simulation failed: %s", asset, err.Error()))
	}

	fmt.Println(backtest.GenerateReport(result))

	simulator := backtest.NewSimulator(strategy)
	patterns, err := simulator.PatternPerformance(timeSeries)
	if err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("%s: pattern performance failed: %s", asset, err.Error()))
	}
	fmt.Println("    Pattern performance:")
	for _, kind := range []models.PatternKind{models.PatternFiveGreen, models.PatternFiveRed} {
		performance := patterns[kind]
		fmt.Printf("    %s: %d trades, %d wins, %.2f%% win rate\n",
			kind, performance.Total, performance.Wins, performance.WinRate)
	}

	if databaseService := b.databaseFromEnv(); databaseService != nil {
		databaseService.AddBacktestRun(asset, strategyName, lookback, result, backtest.Approved(result))
	}
}

// RunOptimize sweeps the confidence threshold for one asset and prints the
// best candidate.
func (b *Bot) RunOptimize(c *cli.Context) {
	brokerService, strategy, _ := b.setupPipeline(c)

	asset := c.String("asset")
	if asset == "" {
		assets := assetsFromEnv()
		if len(assets) == 0 {
			helpers.Logger.Fatalln("no asset to optimize: pass --asset or set the assets parameter")
		}
		asset = assets[0]
	}

	candleLimit, _ := strconv.Atoi(os.Getenv("candleLimit"))
	if candleLimit == 0 {
		candleLimit = 100
	}

	timeSeries, err := brokerService.GetSeries(asset, intervalFromEnv(), candleLimit)
	if err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("%s: error getting candles: %s", asset, err.Error()))
	}

	optimizer := backtest.NewOptimizer(strategy)
	optimization, err := optimizer.Optimize(timeSeries)
	if err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("%s: optimization failed: %s", asset, err.Error()))
	}

	if optimization.TotalTrades == 0 {
		fmt.Printf("%s: no confidence threshold produced a winning trade\n", asset)
		return
	}
	fmt.Printf("%s: best confidence threshold %.0f%% with %.2f%% expected win rate over %d trades\n",
		asset, optimization.ConfidenceThreshold, optimization.ExpectedWinRate, optimization.TotalTrades)
}

// setupPipeline resolves the provider and the strategy and connects to the
// broker. Every command starts here.
func (b *Bot) setupPipeline(c *cli.Context) (interfaces.BrokerService, interfaces.Strategy, string) {
	interval := intervalFromEnv()

	strategyName := c.String("strategy")
	if strategyName == "" {
		strategyName = os.Getenv("strategies")
	}
	if strategyName == "" {
		strategyName = "fiveCandleStrategy"
	}
	// Only one strategy trades per session, the first one configured.
	strategyName = strings.TrimSpace(strings.Split(strategyName, ",")[0])

	strategy, err := strategies2.StrategyFactory(strategyName, interval)
	if err != nil {
		helpers.Logger.Errorln(err)
		os.Exit(1)
	}

	provider := c.String("provider")
	if provider == "" {
		provider = os.Getenv("provider")
	}
	brokerService := b.brokerFor(provider)
	if err := brokerService.Connect(); err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("couldn't connect to the broker: %s", err.Error()))
	}

	return brokerService, strategy, strategyName
}

func (b *Bot) brokerFor(provider string) interfaces.BrokerService {
	switch provider {
	case "paper":
		return paper.NewPaperService()
	default:
		return demo.NewDemoService()
	}
}

func (b *Bot) databaseFromEnv() *database.DBService {
	databaseEnabled, _ := strconv.ParseBool(os.Getenv("enableDatabaseRecording"))
	if !databaseEnabled {
		return nil
	}

	databaseService, err := database.NewDBService(os.Getenv("databaseHost"), os.Getenv("databasePort"),
		os.Getenv("databaseName"), os.Getenv("databaseUser"), os.Getenv("databasePassword"))
	if err != nil {
		panic(err)
	}
	return databaseService
}

func (b *Bot) startAnalysis(brokerService interfaces.BrokerService, strategy interfaces.Strategy,
	strategyName string, databaseService *database.DBService) (*services.AssetAnalysisService, *services.SessionService) {

	var assetAnalysisResults []*analytics.AssetAnalysis
	assetAnalysisService := services.NewAssetAnalysisService(brokerService, strategy, strategyName,
		&assetAnalysisResults, databaseService)

	if assets := assetsFromEnv(); len(assets) > 0 {
		assetAnalysisService.PopulateWithAssets(assets)
	} else if err := assetAnalysisService.PopulateFromBroker(); err != nil {
		helpers.Logger.Fatalln(fmt.Sprintf("couldn't list open assets: %s", err.Error()))
	}
	go assetAnalysisService.AnalyzeAssets()

	return &assetAnalysisService, services.NewSessionService()
}

func assetsFromEnv() []string {
	var assets []string
	for _, asset := range strings.Split(os.Getenv("assets"), ",") {
		if trimmedAsset := strings.TrimSpace(asset); trimmedAsset != "" {
			assets = append(assets, trimmedAsset)
		}
	}
	return assets
}

func intervalFromEnv() string {
	interval := os.Getenv("interval")
	if interval == "" {
		interval = "1m"
	}
	return interval
}
