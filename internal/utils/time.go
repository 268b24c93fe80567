package utils

import (
	"math"
	"time"
)

// DaysUntil returns the number of whole days from now until end, rounded up,
// floored at zero once the date has passed.
func DaysUntil(end time.Time) int {
	diff := time.Until(end)
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
