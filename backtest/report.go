package backtest

import (
	"fmt"

	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

// MinimumWinRate is the approval bar a backtest has to clear before the bot
// is allowed to trade an asset live.
const MinimumWinRate = 60.0

// Approved reports whether a backtest clears the minimum win rate.
func Approved(result analytics.BacktestResult) bool {
	return result.WinRate >= MinimumWinRate
}

// GenerateReport renders a backtest result as the fixed validation report
// shown on the dashboard and written to the session log.
func GenerateReport(result analytics.BacktestResult) string {
	approval := "❌ NO"
	recommendation := "Strategy does not meet minimum requirements. Consider optimization."
	if Approved(result) {
		approval = "✅ YES"
		recommendation = "Strategy shows positive results. Approved for live trading."
	}

	return fmt.Sprintf(`
    ═══════════════════════════════════════
      BACKTEST REPORT - Five Identical Candles
    ═══════════════════════════════════════

    📊 PERFORMANCE METRICS
    ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
    Total Trades: %d
    Winning Trades: %d
    Losing Trades: %d
    Win Rate: %v%%

    💰 FINANCIAL RESULTS
    ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
    Profit/Loss: $%v
    Final Balance: $%v
    Max Drawdown: %v%%
    Sharpe Ratio: %v

    ✅ STRATEGY VALIDATION
    ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
    Strategy Approved: %s
    Minimum Win Rate: %v%%
    Current Win Rate: %v%%

    📈 RECOMMENDATION
    ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
    %s
`,
		result.TotalTrades,
		result.WinningTrades,
		result.LosingTrades,
		result.WinRate,
		result.ProfitLoss,
		result.FinalBalance,
		result.MaxDrawdown,
		result.SharpeRatio,
		approval,
		MinimumWinRate,
		result.WinRate,
		recommendation)
}
