// Package format turns large magnitudes and durations into the compact
// strings the presentation layer shows.
package format

import (
	"fmt"
	"math"
	"time"
)

// Amount renders a non-negative magnitude with suffix thresholds at
// 1e3/1e6/1e9/1e12/1e15 (K/M/B/T/Q): integer truncation below 1000, one
// decimal place above.
func Amount(n float64) string {
	switch {
	case n < 1e3:
		return fmt.Sprintf("%d", int64(math.Floor(n)))
	case n < 1e6:
		return fmt.Sprintf("%.1fK", n/1e3)
	case n < 1e9:
		return fmt.Sprintf("%.1fM", n/1e6)
	case n < 1e12:
		return fmt.Sprintf("%.1fB", n/1e9)
	case n < 1e15:
		return fmt.Sprintf("%.1fT", n/1e12)
	default:
		return fmt.Sprintf("%.1fQ", n/1e15)
	}
}

// Duration renders a duration as "1h 2m 3s", omitting leading zero
// components.
func Duration(d time.Duration) string {
	total := int64(d.Seconds())
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
