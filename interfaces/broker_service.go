package interfaces

import (
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/models"
)

type (
	// BrokerService is everything the bot needs from a binary options
	// platform: candles in, orders out, settlements back.
	//
	// Implementations that trade OTC variants retry a closed asset with the
	// "_otc" suffix before failing, both for candles and for orders.
	BrokerService interface {
		Connect() error
		GetBalance() (float64, error)
		GetSeries(asset string, interval string, limit int) (*techan.TimeSeries, error)
		Buy(asset string, amount float64, direction models.Direction, expirySeconds int) (*models.Trade, error)
		CheckTradeResult(trade *models.Trade) (models.TradeResult, float64, error)
		OpenAssets() ([]models.AssetInfo, error)
		GetPayout(asset string) float64
	}
)
