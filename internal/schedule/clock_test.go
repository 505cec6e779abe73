package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"hours minutes seconds", 3723000 * time.Millisecond, "1h 2min 3s"},
		{"zero", 0, "0s"},
		{"already elapsed", -500 * time.Millisecond, "0s"},
		{"whole hour", time.Hour, "1h"},
		{"whole minutes", 2 * time.Minute, "2min"},
		{"minutes and seconds", 62 * time.Second, "1min 2s"},
		{"seconds only", 59 * time.Second, "59s"},
		{"sub-second truncates", 900 * time.Millisecond, "0s"},
		{"truncation not rounding", 2950 * time.Millisecond, "2s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatClock(tt.d))
		})
	}
}
