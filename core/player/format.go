package player

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as m:ss for the transport display. Unknown
// durations (NaN, infinite or negative) render as "0:00". Seconds are
// zero-padded to two digits; minutes are not padded.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	whole := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
