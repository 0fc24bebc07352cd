package scheduler

import "time"

// Daily settlement gap: the feed is unreliable for this hour on weekdays.
const blackoutHour = 15

// IsBlackout reports whether polling is suppressed at now. It uses now's own
// location, which is the process local zone in production.
func IsBlackout(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return now.Hour() == blackoutHour
}
