package shared

import "time"

const dateOnly = "2006-01-02"

// ParseDate reads a timestamp from a request payload. Full RFC3339 values
// are preferred; a bare YYYY-MM-DD is taken as midnight UTC. Empty input
// yields the zero time so optional fields can stay unset.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateOnly, value)
}
