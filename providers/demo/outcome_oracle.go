package demo

import (
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/models"
)

// PriceOracle settles the way the platform does: the option wins when the
// last close moved past the entry price in the trade direction. A flat
// close loses.
type PriceOracle struct{}

func (po *PriceOracle) Settle(trade *models.Trade, timeSeries *techan.TimeSeries) models.TradeResult {
	if timeSeries == nil || len(timeSeries.Candles) == 0 {
		return models.TradeResultLoss
	}

	lastClose := timeSeries.LastCandle().ClosePrice.Float()
	if trade.Direction == models.DirectionCall && lastClose > trade.EntryPrice {
		return models.TradeResultWin
	}
	if trade.Direction == models.DirectionPut && lastClose < trade.EntryPrice {
		return models.TradeResultWin
	}
	return models.TradeResultLoss
}
