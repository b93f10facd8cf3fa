package compat

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// WholeBloodInterval is the minimum number of days between whole blood donations
const WholeBloodInterval = 56

// SoonWindow is how many days before the interval ends a donor counts as eligible soon
const SoonWindow = 11

const msPerDay = 24 * 60 * 60 * 1000

// Days is a count of whole elapsed days
type Days int64

// Unbounded stands in for an infinite distance when a date is absent.
// It compares greater than or equal to any interval.
const Unbounded Days = math.MaxInt64

// IsUnbounded reports whether d is the Unbounded sentinel
func (d Days) IsUnbounded() bool {
	return d == Unbounded
}

// ParseDate parses an RFC3339 timestamp or a YYYY-MM-DD date. An empty string is an absent date.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unparseable date %q", ErrInvalidArgument, s)
}

// DaysBetween returns the whole days between a and b regardless of order.
// Returns Unbounded if either date is absent.
func DaysBetween(a, b *time.Time) Days {
	if a == nil || b == nil {
		return Unbounded
	}
	diff := b.UnixMilli() - a.UnixMilli()
	if diff < 0 {
		diff = -diff
	}
	return Days(diff / msPerDay)
}

// DaysSince returns the whole days elapsed between date and now
func DaysSince(date *time.Time, now time.Time) Days {
	return DaysBetween(date, &now)
}

// IsEligible reports whether a donor may donate at now.
// Unwilling donors are never eligible; donors with no history always are.
func IsEligible(last *time.Time, willing bool, minDays int, now time.Time) bool {
	if !willing {
		return false
	}
	if last == nil {
		return true
	}
	return DaysSince(last, now) >= Days(minDays)
}

// NextEligibleDate returns the first instant a donor who last gave at last may give again
func NextEligibleDate(last *time.Time, minDays int, now time.Time) time.Time {
	if last == nil {
		return now
	}
	return last.UTC().AddDate(0, 0, minDays)
}

// Status is a coarse eligibility classification for display
type Status string

const (
	StatusNotWilling Status = "not_willing"
	StatusEligible   Status = "eligible"
	StatusSoon       Status = "soon"
	StatusNotYet     Status = "not_yet"
)

// Classify buckets a donor into an eligibility Status
func Classify(last *time.Time, willing bool, minDays int, now time.Time) Status {
	if !willing {
		return StatusNotWilling
	}
	if IsEligible(last, willing, minDays, now) {
		return StatusEligible
	}
	if DaysSince(last, now) >= Days(minDays-SoonWindow) {
		return StatusSoon
	}
	return StatusNotYet
}
