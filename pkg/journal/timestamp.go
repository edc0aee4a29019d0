package journal

import "time"

// TimestampLayout is the wall-clock format used for journal entries and
// marker attribute values: ISO-8601 UTC with microsecond precision.
// Normalized strings compare lexicographically in time order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Timestamp formats t in UTC with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a TimestampLayout string back to an instant.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
