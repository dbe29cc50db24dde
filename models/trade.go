package models

import "time"

// TradeResult is the settlement outcome of a binary option.
type TradeResult string

// TradeStatus tracks a trade through its lifecycle.
type TradeStatus string

const (
	TradeResultWin  TradeResult = "win"
	TradeResultLoss TradeResult = "loss"

	TradeStatusExecuted TradeStatus = "executed"
	TradeStatusSettled  TradeStatus = "settled"
)

// Trade is a placed binary option order plus its settlement state. The
// broker fills the identity fields on Buy, the trader annotates the signal
// fields, settlement fills Result and Profit.
type Trade struct {
	Id       uint
	TicketID string
	Asset    string

	Direction     Direction
	Amount        float64
	ExpirySeconds int
	EntryPrice    float64
	OpenTime      time.Time

	Pattern         PatternKind
	Confidence      float64
	BacktestWinRate float64

	Status TradeStatus
	Result TradeResult
	Profit float64
}

// ExpiryTime is the moment the option settles.
func (t *Trade) ExpiryTime() time.Time {
	return t.OpenTime.Add(time.Duration(t.ExpirySeconds) * time.Second)
}

func (t *Trade) IsOpen() bool {
	return t.Status == TradeStatusExecuted
}

func (t *Trade) IsSettled() bool {
	return t.Status == TradeStatusSettled
}

func (t *Trade) Won() bool {
	return t.Result == TradeResultWin
}

// Settle marks the trade finished with its outcome and realized profit.
func (t *Trade) Settle(result TradeResult, profit float64) {
	t.Result = result
	t.Profit = profit
	t.Status = TradeStatusSettled
}
