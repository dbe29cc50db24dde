package interfaces

import (
	"github.com/sdcoffey/techan"
	"gitlab.com/aoterocom/AOBinarybot/models"
)

type (
	// OutcomeOracle decides how a simulated broker settles an expired
	// trade. Implementations keep settlement policy, and any randomness it
	// may carry, out of the trading and validation code.
	OutcomeOracle interface {
		Settle(trade *models.Trade, timeSeries *techan.TimeSeries) models.TradeResult
	}
)
