package analytics

// PatternPerformance counts simulated outcomes for one pattern kind.
type PatternPerformance struct {
	Total   int
	Wins    int
	Losses  int
	WinRate float64
}
