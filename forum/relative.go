package forum

import (
	"fmt"
	"math"
	"time"
)

const secondsPerYear = 365 * 24 * 60 * 60

// timeUnits lists how many of the previous unit make up the named one.
var timeUnits = []struct {
	per  float64
	name string
}{
	{60, "minute"},
	{60, "hour"},
	{24, "day"},
	{7, "week"},
	{4.345, "month"},
	{12, "year"},
}

// RelativeTime describes how long before to the instant from was, e.g.
// "3 hours ago". Anything under a second, or in the future, is "1 second ago".
func RelativeTime(from, to time.Time) string {
	seconds := int64(to.Sub(from) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	if seconds >= secondsPerYear {
		return plural(seconds/secondsPerYear, "year")
	}

	count := float64(seconds)
	unit := "second"
	for i := 0; i < len(timeUnits) && count >= timeUnits[i].per; i++ {
		count = math.Floor(count / timeUnits[i].per)
		unit = timeUnits[i].name
	}
	return plural(int64(count), unit)
}

func plural(n int64, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
