package article

import (
	"errors"
	"strings"
	"time"
)

// ErrDateFormat is returned by ParseDateBound for input that is neither a
// calendar date nor an RFC3339 timestamp.
var ErrDateFormat = errors.New("must be a date (YYYY-MM-DD) or RFC3339 timestamp")

// ParseDateBound parses an optional publication-date filter bound. Blank
// input yields nil. A bare date used as an upper bound (endOfDay) covers the
// whole day. The result is always in UTC, the zone publication dates are
// stored in.
func ParseDateBound(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, ErrDateFormat
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
