package helpers

import (
	"math"

	str2duration "github.com/xhit/go-str2duration/v2"
)

func Sum(numbers []float64) (total float64) {
	for _, x := range numbers {
		total += x
	}
	return total
}

// StdDev is the population standard deviation around the given mean.
func StdDev(numbers []float64, mean float64) float64 {
	if len(numbers) == 0 {
		return 0.0
	}
	total := 0.0
	for _, number := range numbers {
		total += math.Pow(number-mean, 2)
	}
	variance := total / float64(len(numbers))
	return math.Sqrt(variance)
}

func Round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// StringIntervalToSeconds converts an interval expression ("1m", "4h", "1d")
// to seconds. Unparseable intervals yield 0.
func StringIntervalToSeconds(interval string) int64 {
	duration, err := str2duration.ParseDuration(interval)
	if err != nil {
		return 0
	}
	return int64(duration.Seconds())
}
