package analytics

// OptimizationResult is the best confidence threshold found by a sweep.
// The zero value means no threshold produced a single winning trade.
type OptimizationResult struct {
	ConfidenceThreshold float64
	ExpectedWinRate     float64
	TotalTrades         int
}
