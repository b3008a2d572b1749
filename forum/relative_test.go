package forum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"zero clamps to one second", 0, "1 second ago"},
		{"future clamps to one second", -time.Hour, "1 second ago"},
		{"sub-second", 400 * time.Millisecond, "1 second ago"},
		{"seconds", 45 * time.Second, "45 seconds ago"},
		{"one minute", 60 * time.Second, "1 minute ago"},
		{"minutes truncate", 150 * time.Second, "2 minutes ago"},
		{"one hour", time.Hour, "1 hour ago"},
		{"hours", 5*time.Hour + 59*time.Minute, "5 hours ago"},
		{"one day", 24 * time.Hour, "1 day ago"},
		{"days", 6 * day, "6 days ago"},
		{"one week", 7 * day, "1 week ago"},
		{"weeks", 20 * day, "2 weeks ago"},
		{"one month", 35 * day, "1 month ago"},
		{"months", 200 * day, "6 months ago"},
		{"just under a year", 364 * day, "11 months ago"},
		{"one year", 366 * day, "1 year ago"},
		{"years", 3 * 366 * day, "3 years ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now))
		})
	}
}
