package timeutil

import (
	"fmt"
	"time"
)

// Uptime renders d as "1h 2m 3s", dropping leading zero units. Anything
// under a second renders as "0s".
func Uptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Clamp bounds d to [lo, hi]. An inverted range collapses to lo.
func Clamp(d, lo, hi time.Duration) time.Duration {
	if hi < lo {
		hi = lo
	}
	switch {
	case d < lo:
		return lo
	case d > hi:
		return hi
	}
	return d
}
