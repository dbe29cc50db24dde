package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
)

func TestReportApprovedStrategy(t *testing.T) {
	result := analytics.BacktestResult{
		TotalTrades:   12,
		WinningTrades: 8,
		LosingTrades:  4,
		WinRate:       66.67,
		ProfitLoss:    120.0,
		MaxDrawdown:   1.25,
		SharpeRatio:   0.236,
		FinalBalance:  10120.0,
	}

	assert.True(t, Approved(result))

	report := GenerateReport(result)
	assert.Contains(t, report, "BACKTEST REPORT - Five Identical Candles")
	assert.Contains(t, report, "Total Trades: 12")
	assert.Contains(t, report, "Winning Trades: 8")
	assert.Contains(t, report, "Losing Trades: 4")
	assert.Contains(t, report, "Win Rate: 66.67%")
	assert.Contains(t, report, "Profit/Loss: $120")
	assert.Contains(t, report, "Final Balance: $10120")
	assert.Contains(t, report, "Max Drawdown: 1.25%")
	assert.Contains(t, report, "Sharpe Ratio: 0.236")
	assert.Contains(t, report, "Strategy Approved: ✅ YES")
	assert.Contains(t, report, "Minimum Win Rate: 60%")
	assert.Contains(t, report, "Strategy shows positive results. Approved for live trading.")
}

func TestReportRejectedStrategy(t *testing.T) {
	result := analytics.BacktestResult{
		TotalTrades:   10,
		WinningTrades: 5,
		LosingTrades:  5,
		WinRate:       50.0,
		ProfitLoss:    -50.0,
		FinalBalance:  9950.0,
	}

	assert.False(t, Approved(result))

	report := GenerateReport(result)
	assert.Contains(t, report, "Strategy Approved: ❌ NO")
	assert.Contains(t, report, "Strategy does not meet minimum requirements. Consider optimization.")
}

// The bar is inclusive: exactly 60% passes.
func TestReportApprovalBoundary(t *testing.T) {
	assert.True(t, Approved(analytics.BacktestResult{WinRate: 60.0}))
	assert.False(t, Approved(analytics.BacktestResult{WinRate: 59.99}))
}
