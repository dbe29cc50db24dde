package services

import (
	"math"

	"gitlab.com/aoterocom/AOBinarybot/helpers"
)

// PositionSizer turns the current balance and a backtested win rate into a
// stake: half Kelly, capped by a flat percentage of the balance, floored at
// the platform minimum.
type PositionSizer struct {
	RiskPct     float64
	Payout      float64
	KellyFactor float64
	MinAmount   float64
}

func NewPositionSizer() PositionSizer {
	return PositionSizer{
		RiskPct:     2.0,
		Payout:      0.8,
		KellyFactor: 0.5,
		MinAmount:   1.0,
	}
}

// RecommendedAmount returns 0 when there is no balance or no edge data. A
// negative Kelly fraction clamps to 0, which still floors at the minimum
// stake, and the result never exceeds the balance itself.
func (ps *PositionSizer) RecommendedAmount(balance float64, winRatePct float64) float64 {
	if balance <= 0 || winRatePct <= 0 {
		return 0.0
	}

	winProbability := winRatePct / 100.0
	lossProbability := 1 - winProbability

	kellyFraction := (ps.Payout*winProbability - lossProbability) / ps.Payout
	conservativeFraction := kellyFraction * ps.KellyFactor

	kellyAmount := balance * math.Max(conservativeFraction, 0)
	maxRiskAmount := balance * (ps.RiskPct / 100.0)

	recommendedAmount := math.Min(kellyAmount, maxRiskAmount)
	recommendedAmount = math.Max(helpers.Round(recommendedAmount, 2), ps.MinAmount)

	return math.Min(recommendedAmount, balance)
}
