package shared

import (
	"errors"
	"strings"
	"time"
)

var errEmptyDate = errors.New("empty date")

// ParseDate parses a calendar date from a request, accepting RFC3339 or
// plain YYYY-MM-DD. Input is trimmed; a blank value is an error rather
// than a zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyDate
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.DateOnly, value)
}
