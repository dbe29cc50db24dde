package models

// AssetInfo describes a tradeable asset as the broker reports it. Payout is
// the fraction of the stake paid on a winning trade.
type AssetInfo struct {
	Name   string
	Open   bool
	Payout float64
}
