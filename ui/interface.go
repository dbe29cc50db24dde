package ui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"gitlab.com/aoterocom/AOBinarybot/database"
	dbmodels "gitlab.com/aoterocom/AOBinarybot/database/models"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
	"gitlab.com/aoterocom/AOBinarybot/interfaces"
	"gitlab.com/aoterocom/AOBinarybot/services"
)

// UserInterface is the terminal dashboard: session state, the watched
// assets with their validation verdicts, active and settled trades and the
// lifetime stats when database recording is on.
type UserInterface struct {
	BrokerService        interfaces.BrokerService
	AssetAnalysisService *services.AssetAnalysisService
	SessionService       *services.SessionService
	DatabaseService      *database.DBService

	initialBalance  float64
	currentBalance  float64
	databaseEnabled bool
	lifetimeStats   dbmodels.OverallStats
	statsLoaded     bool
}

func (ui *UserInterface) SetServices(brokerService interfaces.BrokerService,
	assetAnalysisService *services.AssetAnalysisService, sessionService *services.SessionService,
	databaseService *database.DBService) {
	ui.BrokerService = brokerService
	ui.AssetAnalysisService = assetAnalysisService
	ui.SessionService = sessionService
	ui.DatabaseService = databaseService
	ui.databaseEnabled, _ = strconv.ParseBool(os.Getenv("enableDatabaseRecording"))

	balance, err := brokerService.GetBalance()
	if err != nil {
		helpers.Logger.Errorln("ui: " + err.Error())
		return
	}
	ui.initialBalance = balance
	ui.currentBalance = balance
}

func (ui *UserInterface) Run() {
	if err := termui.Init(); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("failed to initialize termui: %v", err))
		return
	}
	defer termui.Close()

	uiEvents := termui.PollEvents()
	ticker := time.NewTicker(time.Second).C
	for {
		select {
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				helpers.Logger.Infoln("Exited by keyboard interrupt")
				return
			}
		case <-ticker:
			ui.UpdateUI()
		}
	}
}

func (ui *UserInterface) UpdateUI() {
	if balance, err := ui.BrokerService.GetBalance(); err == nil {
		ui.currentBalance = balance
	}

	sessionParagraph := widgets.NewParagraph()
	sessionParagraph.BorderStyle.Fg = termui.ColorYellow
	sessionParagraph.TitleStyle.Fg = termui.ColorYellow
	sessionParagraph.Block.Title = "Session"
	sessionParagraph.Text = fmt.Sprintf("Initial Balance: %.2f$\n", ui.initialBalance)
	sessionParagraph.Text += fmt.Sprintf("Current Balance: %.2f$\n", ui.currentBalance)
	sessionParagraph.Text += fmt.Sprintf("[P&L: %.2f$](fg:blue)\n", ui.currentBalance-ui.initialBalance)
	sessionParagraph.Text += fmt.Sprintf("Trades: %d  W: %d  L: %d\n",
		ui.SessionService.TotalTrades(), ui.SessionService.Wins(), ui.SessionService.Losses())
	sessionParagraph.Text += fmt.Sprintf("Win Rate: %.1f%%\n", ui.SessionService.WinRate())
	sessionParagraph.SetRect(0, 0, 34, 8)

	assetsList := widgets.NewList()
	assetsList.Block.Title = "Assets"
	var assetRows []string
	for _, assetAnalysis := range *ui.AssetAnalysisService.AssetAnalysisResults {
		signalEmoji := "❌"
		if assetAnalysis.TradeSignal {
			signalEmoji = "✅"
		}
		lockedMark := ""
		if assetAnalysis.LockedMonitor {
			lockedMark = " 🔒"
		}
		assetRows = append(assetRows, fmt.Sprintf("%s %s %.2f%% (%d trades) %s/%s%s",
			signalEmoji, assetAnalysis.Asset, assetAnalysis.Backtest.WinRate,
			assetAnalysis.Backtest.TotalTrades, assetAnalysis.Condition.Trend,
			assetAnalysis.Condition.Volatility, lockedMark))
	}
	assetsList.Rows = assetRows
	assetsList.SetRect(34, 0, 100, 12)

	activeParagraph := widgets.NewParagraph()
	activeParagraph.Block.Title = "Active Trades"
	activeTrades := ui.SessionService.AllActiveTrades()
	if len(activeTrades) == 0 {
		activeParagraph.Text = "None\n"
	}
	for _, trade := range activeTrades {
		remaining := time.Until(trade.ExpiryTime()).Round(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		activeParagraph.Text += fmt.Sprintf("%s %s %.2f$ expires in %s\n",
			trade.Asset, trade.Direction, trade.Amount, remaining)
	}
	activeParagraph.SetRect(0, 8, 34, 14)

	settledList := widgets.NewList()
	settledList.Block.Title = "Settled Trades"
	var settledRows []string
	for _, trade := range ui.SessionService.RecentSettledTrades(10) {
		resultEmoji := "❌"
		if trade.Won() {
			resultEmoji = "✅"
		}
		settledRows = append(settledRows, fmt.Sprintf("%s %s %s %.2f$ -> %.2f$",
			resultEmoji, trade.Asset, trade.Direction, trade.Amount, trade.Profit))
	}
	settledList.Rows = settledRows
	settledList.SetRect(34, 12, 100, 22)

	lifetimeParagraph := widgets.NewParagraph()
	lifetimeParagraph.Block.Title = "Lifetime"
	if ui.databaseEnabled && ui.DatabaseService != nil {
		if !ui.statsLoaded || time.Now().Second()%10 == 0 {
			ui.lifetimeStats = ui.DatabaseService.GetOverallStats()
			ui.statsLoaded = true
		}
		lifetimeParagraph.Text = fmt.Sprintf("Trades: %d\n", ui.lifetimeStats.TotalTrades)
		lifetimeParagraph.Text += fmt.Sprintf("W/L: %d/%d\n", ui.lifetimeStats.Wins, ui.lifetimeStats.Losses)
		lifetimeParagraph.Text += fmt.Sprintf("Win Rate: %.1f%%\n", ui.lifetimeStats.WinRate)
		lifetimeParagraph.Text += fmt.Sprintf("Profit: %.2f$\n", ui.lifetimeStats.TotalProfit)
	} else {
		lifetimeParagraph.Text = "database recording disabled\n"
	}
	lifetimeParagraph.SetRect(0, 14, 34, 22)

	termui.Render(sessionParagraph, assetsList, activeParagraph, settledList, lifetimeParagraph)
}
