package schedule

import (
	"strconv"
	"strings"
	"time"
)

// FormatClock renders a duration as the largest non-zero units down to
// whole seconds, e.g. "1h 5min 3s". Sub-second precision is truncated, not
// rounded. Elapsed (non-positive) durations render as "0s" so the field is
// never empty.
func FormatClock(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	totalSeconds := int64(d / time.Second)
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60

	var b strings.Builder
	if hours > 0 {
		b.WriteString(strconv.FormatInt(hours, 10))
		b.WriteString("h ")
	}
	if minutes > 0 {
		b.WriteString(strconv.FormatInt(minutes, 10))
		b.WriteString("min ")
	}
	if seconds > 0 || b.Len() == 0 {
		b.WriteString(strconv.FormatInt(seconds, 10))
		b.WriteString("s")
	}
	return strings.TrimSpace(b.String())
}
