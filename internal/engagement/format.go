package engagement

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatNumber shortens large counters: 1200 -> "1.2K", 1500000 -> "1.5M".
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return humanize.FtoaWithDigits(float64(n)/1_000_000, 1) + "M"
	case n >= 1_000:
		return humanize.FtoaWithDigits(float64(n)/1_000, 1) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}
