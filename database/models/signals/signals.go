package signals

import "gorm.io/gorm"

// Signal is the raw strategy output at the moment of entry, kept separate
// from trades so filtered-out signals can be recorded too.
type Signal struct {
	gorm.Model
	Asset      string
	Interval   string
	Pattern    string
	Direction  string
	Confidence float64
	Strategy   string
}
