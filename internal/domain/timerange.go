package domain

import (
	"fmt"
	"time"
)

// TimeRange bounds reviews by calendar day. Zero values mean unbounded.
// Start is inclusive from local midnight; End is inclusive through the end of its day.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ParseTimeRange parses optional YYYY-MM-DD bounds. Empty strings leave a side open.
func ParseTimeRange(start, end string) (TimeRange, error) {
	var tr TimeRange
	if start != "" {
		t, err := time.ParseInLocation(DateLayout, start, time.Local)
		if err != nil {
			return TimeRange{}, &ValidationError{Err: ErrInvalidDate, Msg: fmt.Sprintf("invalid start_date %q: expected YYYY-MM-DD", start)}
		}
		tr.Start = t
	}
	if end != "" {
		t, err := time.ParseInLocation(DateLayout, end, time.Local)
		if err != nil {
			return TimeRange{}, &ValidationError{Err: ErrInvalidDate, Msg: fmt.Sprintf("invalid end_date %q: expected YYYY-MM-DD", end)}
		}
		tr.End = t
	}
	return tr, nil
}

func (tr TimeRange) IsZero() bool { return tr.Start.IsZero() && tr.End.IsZero() }

// Contains reports whether t falls inside the range.
func (tr TimeRange) Contains(t time.Time) bool {
	if !tr.Start.IsZero() && t.Before(tr.Start) {
		return false
	}
	// AddDate keeps DST days correct where Add(24h) would not.
	if !tr.End.IsZero() && !t.Before(tr.End.AddDate(0, 0, 1)) {
		return false
	}
	return true
}
