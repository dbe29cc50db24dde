package database

// OverallStats is the lifetime summary over every settled trade.
type OverallStats struct {
	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64
	TotalProfit float64
}

// AssetStats is the per-asset breakdown of settled trades.
type AssetStats struct {
	Asset       string
	TotalTrades int
	Wins        int
	WinRate     float64
	TotalProfit float64
}

// PatternStats is the per-pattern breakdown of settled trades.
type PatternStats struct {
	Pattern     string
	TotalTrades int
	Wins        int
	WinRate     float64
}
