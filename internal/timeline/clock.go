package timeline

import (
	"fmt"
	"math"
)

// FormatClock renders seconds as HH:MM:SS. Negative values use their
// magnitude and fractional seconds are truncated.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := uint64(math.Abs(seconds))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
