package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid reporting period")

// Period is a half-open reporting window [From, To) for analytics queries.
type Period struct {
	From time.Time
	To   time.Time
}

// PeriodFromString resolves a named period relative to now.
// Supported names: "month", "quarter", "year".
func PeriodFromString(name string, now time.Time) (Period, error) {
	now = now.UTC()

	switch name {
	case "", "month":
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Period{From: from, To: from.AddDate(0, 1, 0)}, nil
	case "quarter":
		quarterStart := time.Month(((int(now.Month())-1)/3)*3 + 1)
		from := time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, time.UTC)
		return Period{From: from, To: from.AddDate(0, 3, 0)}, nil
	case "year":
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return Period{From: from, To: from.AddDate(1, 0, 0)}, nil
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, name)
	}
}

// CustomPeriod builds a window from explicit bounds.
func CustomPeriod(from, to time.Time) (Period, error) {
	if !to.After(from) {
		return Period{}, fmt.Errorf("%w: end must be after start", ErrInvalidPeriod)
	}

	return Period{From: from.UTC(), To: to.UTC()}, nil
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}
