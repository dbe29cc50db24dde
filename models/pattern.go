package models

// PatternKind names a detected candle pattern.
type PatternKind string

// Direction is the side of a binary option order: call bets on a rise,
// put bets on a fall.
type Direction string

const (
	PatternFiveGreen PatternKind = "5_green"
	PatternFiveRed   PatternKind = "5_red"

	DirectionCall Direction = "call"
	DirectionPut  Direction = "put"
)

// PatternResult is the outcome of a single detection pass. Kind and
// Confidence are only meaningful when Detected is true.
type PatternResult struct {
	Detected   bool
	Kind       PatternKind
	Confidence float64
}
