package database

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sdcoffey/techan"
	database "gitlab.com/aoterocom/AOBinarybot/database/models"
	"gitlab.com/aoterocom/AOBinarybot/database/models/signals"
	"gitlab.com/aoterocom/AOBinarybot/models"
	"gitlab.com/aoterocom/AOBinarybot/models/analytics"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DBService struct {
	DB *gorm.DB
}

func NewDBService(dbHost string, dbPort string, dbName string, dbUser string, dbPass string) (*DBService, error) {
	dsn := dbUser + ":" + dbPass + "@tcp(" + dbHost + ":" + dbPort + ")/" + dbName + "?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	dbs := &DBService{
		DB: db,
	}

	err = dbs.DB.AutoMigrate(&database.Trade{}, &database.BacktestRun{}, &database.Candle{}, &signals.Signal{})
	if err != nil {
		return nil, err
	}

	return dbs, nil
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

// AddTrade stores a freshly executed trade and returns its row id so the
// settlement update can find it later.
func (dbs *DBService) AddTrade(trade *models.Trade) uint {
	dbTrade := database.Trade{
		TicketID:        trade.TicketID,
		Asset:           trade.Asset,
		Direction:       string(trade.Direction),
		Amount:          trade.Amount,
		ExpirySeconds:   trade.ExpirySeconds,
		EntryPrice:      trade.EntryPrice,
		OpenTime:        trade.OpenTime.Unix(),
		Pattern:         string(trade.Pattern),
		Confidence:      trade.Confidence,
		BacktestWinRate: trade.BacktestWinRate,
		Status:          string(trade.Status),
		Result:          string(trade.Result),
		Profit:          trade.Profit,
	}

	dbs.DB.Create(&dbTrade)
	return dbTrade.ID
}

// AddSignal records what the strategy saw, even when the entry itself gets
// filtered out later by the win rate or balance gates.
func (dbs *DBService) AddSignal(asset string, interval string, pattern string,
	direction string, confidence float64, strategy string) uint {
	dbSignal := signals.Signal{
		Asset:      asset,
		Interval:   interval,
		Pattern:    pattern,
		Direction:  direction,
		Confidence: confidence,
		Strategy:   strategy,
	}

	dbs.DB.Create(&dbSignal)
	return dbSignal.ID
}

func (dbs *DBService) UpdateTradeResult(tradeID uint, result string, profit float64) {
	dbs.DB.Model(&database.Trade{}).Where("id = ?", tradeID).Updates(map[string]interface{}{
		"status": string(models.TradeStatusSettled),
		"result": result,
		"profit": profit,
	})
}

// GetOpenTrades returns trades executed in a previous session that never
// settled, so the trader can pick their settlement back up.
func (dbs *DBService) GetOpenTrades() []database.Trade {
	rows, err := dbs.DB.Raw("SELECT * FROM trades WHERE status = ?", string(models.TradeStatusExecuted)).Rows()
	if err != nil {
		return nil
	}
	defer rows.Close()

	var trades []database.Trade
	for rows.Next() {
		var trade database.Trade
		dbs.DB.ScanRows(rows, &trade)
		trades = append(trades, trade)
	}
	return trades
}

func (dbs *DBService) GetRecentTrades(limit int) []database.Trade {
	rows, err := dbs.DB.Raw("SELECT * FROM trades WHERE status = ? ORDER BY id DESC LIMIT ?",
		string(models.TradeStatusSettled), limit).Rows()
	if err != nil {
		return nil
	}
	defer rows.Close()

	var trades []database.Trade
	for rows.Next() {
		var trade database.Trade
		dbs.DB.ScanRows(rows, &trade)
		trades = append(trades, trade)
	}
	return trades
}

func (dbs *DBService) GetOverallStats() database.OverallStats {
	var stats database.OverallStats
	row := dbs.DB.Raw(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN result = 'loss' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(profit), 0)
		FROM trades WHERE status = ?`, string(models.TradeStatusSettled)).Row()
	_ = row.Scan(&stats.TotalTrades, &stats.Wins, &stats.Losses, &stats.TotalProfit)

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades) * 100
	}
	return stats
}

func (dbs *DBService) GetAssetStats() []database.AssetStats {
	rows, err := dbs.DB.Raw(`SELECT asset, COUNT(*),
		COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(profit), 0)
		FROM trades WHERE status = ? GROUP BY asset ORDER BY asset`,
		string(models.TradeStatusSettled)).Rows()
	if err != nil {
		return nil
	}
	defer rows.Close()

	var allStats []database.AssetStats
	for rows.Next() {
		var stats database.AssetStats
		if err := rows.Scan(&stats.Asset, &stats.TotalTrades, &stats.Wins, &stats.TotalProfit); err != nil {
			continue
		}
		if stats.TotalTrades > 0 {
			stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades) * 100
		}
		allStats = append(allStats, stats)
	}
	return allStats
}

func (dbs *DBService) GetPatternStats() []database.PatternStats {
	rows, err := dbs.DB.Raw(`SELECT pattern, COUNT(*),
		COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0)
		FROM trades WHERE status = ? AND pattern <> '' GROUP BY pattern ORDER BY pattern`,
		string(models.TradeStatusSettled)).Rows()
	if err != nil {
		return nil
	}
	defer rows.Close()

	var allStats []database.PatternStats
	for rows.Next() {
		var stats database.PatternStats
		if err := rows.Scan(&stats.Pattern, &stats.TotalTrades, &stats.Wins); err != nil {
			continue
		}
		if stats.TotalTrades > 0 {
			stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades) * 100
		}
		allStats = append(allStats, stats)
	}
	return allStats
}

// DeleteOldTrades hard-deletes settled trades older than the given number of
// days and returns how many rows went away.
func (dbs *DBService) DeleteOldTrades(days int) int64 {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	result := dbs.DB.Unscoped().Where("open_time < ? AND status = ?",
		cutoff, string(models.TradeStatusSettled)).Delete(&database.Trade{})
	return result.RowsAffected
}

func (dbs *DBService) AddBacktestRun(asset string, strategy string, lookback int,
	result analytics.BacktestResult, approved bool) uint {
	dbRun := database.BacktestRun{
		Asset:         asset,
		Strategy:      strategy,
		Lookback:      lookback,
		TotalTrades:   result.TotalTrades,
		WinningTrades: result.WinningTrades,
		LosingTrades:  result.LosingTrades,
		WinRate:       result.WinRate,
		ProfitLoss:    result.ProfitLoss,
		MaxDrawdown:   result.MaxDrawdown,
		SharpeRatio:   result.SharpeRatio,
		FinalBalance:  result.FinalBalance,
		Approved:      approved,
	}

	dbs.DB.Create(&dbRun)
	return dbRun.ID
}

func (dbs *DBService) AddOrUpdateCandle(candle techan.Candle, symbol string, interval string) {
	dbCandle := database.Candle{
		Symbol:     symbol,
		Interval:   interval,
		Period:     candle.Period.Start.String() + " " + candle.Period.End.String(),
		OpenPrice:  candle.OpenPrice,
		ClosePrice: candle.ClosePrice,
		MaxPrice:   candle.MaxPrice,
		MinPrice:   candle.MinPrice,
		Volume:     candle.Volume,
		TradeCount: candle.TradeCount,
	}

	// Update columns to new value on conflict
	dbs.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "interval"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"open_price", "close_price", "max_price", "min_price", "volume", "trade_count"}),
	}).Create(&dbCandle)

}
