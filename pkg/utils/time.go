package utils

import "time"

// NowSortableTimestamp returns the current time in RFC3339 with nanosecond
// precision. Lexical order of these strings matches chronological order, which
// message and request sort keys rely on.
func NowSortableTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
