package compat

import (
	"errors"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := fixedNow.AddDate(0, 0, -n)
	return &t
}

func TestIsEligible_NeverDonated(t *testing.T) {
	if !IsEligible(nil, true, WholeBloodInterval, fixedNow) {
		t.Errorf("Expected willing donor with no history to be eligible")
	}
	if IsEligible(nil, false, WholeBloodInterval, fixedNow) {
		t.Errorf("Expected unwilling donor with no history to be ineligible")
	}
}

func TestIsEligible_Boundary(t *testing.T) {
	if !IsEligible(daysAgo(56), true, WholeBloodInterval, fixedNow) {
		t.Errorf("Expected donor at exactly 56 days to be eligible")
	}
	if IsEligible(daysAgo(55), true, WholeBloodInterval, fixedNow) {
		t.Errorf("Expected donor at 55 days to be ineligible")
	}
}

func TestIsEligible_WillingnessOverridesTiming(t *testing.T) {
	if IsEligible(daysAgo(365), false, WholeBloodInterval, fixedNow) {
		t.Errorf("Expected unwilling donor to be ineligible regardless of timing")
	}
}

func TestIsEligible_CustomInterval(t *testing.T) {
	if !IsEligible(daysAgo(30), true, 28, fixedNow) {
		t.Errorf("Expected donor at 30 days to be eligible for a 28 day interval")
	}
	if IsEligible(daysAgo(30), true, WholeBloodInterval, fixedNow) {
		t.Errorf("Expected donor at 30 days to be ineligible for whole blood")
	}
}

func TestNextEligibleDate_RoundTrip(t *testing.T) {
	last := time.Date(2024, 12, 20, 14, 0, 0, 0, time.UTC)

	next := NextEligibleDate(&last, WholeBloodInterval, fixedNow)
	if got := DaysBetween(&last, &next); got != 56 {
		t.Errorf("Expected next eligible date 56 days after last donation, got %d", got)
	}
	if !IsEligible(&last, true, WholeBloodInterval, next) {
		t.Errorf("Expected donor to be eligible on the next eligible date")
	}
	if IsEligible(&last, true, WholeBloodInterval, next.AddDate(0, 0, -1)) {
		t.Errorf("Expected donor to be ineligible one day before the next eligible date")
	}
}

func TestNextEligibleDate_CrossesYearAndLeapDay(t *testing.T) {
	last := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	if got := NextEligibleDate(&last, WholeBloodInterval, fixedNow); !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestNextEligibleDate_IgnoresLocalDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// 56 calendar days from here crosses the March DST change.
	last := time.Date(2025, 2, 1, 12, 0, 0, 0, loc)

	next := NextEligibleDate(&last, WholeBloodInterval, fixedNow)
	if got := next.Sub(last); got != 56*24*time.Hour {
		t.Errorf("Expected exactly 56 days of elapsed time, got %s", got)
	}
	if !IsEligible(&last, true, WholeBloodInterval, next) {
		t.Errorf("Expected donor to be eligible on the next eligible date")
	}
}

func TestNextEligibleDate_NeverDonated(t *testing.T) {
	if got := NextEligibleDate(nil, WholeBloodInterval, fixedNow); !got.Equal(fixedNow) {
		t.Errorf("Expected now, got %s", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 11, 23, 59, 0, 0, time.UTC)

	if got := DaysBetween(&a, &b); got != 10 {
		t.Errorf("Expected 10 whole days, got %d", got)
	}
	if DaysBetween(&a, &b) != DaysBetween(&b, &a) {
		t.Errorf("Expected DaysBetween to be symmetric")
	}
	if got := DaysBetween(&a, &a); got != 0 {
		t.Errorf("Expected 0 days, got %d", got)
	}
}

func TestDaysBetween_AbsentIsUnbounded(t *testing.T) {
	if got := DaysBetween(nil, &fixedNow); !got.IsUnbounded() {
		t.Errorf("Expected Unbounded, got %d", got)
	}
	if got := DaysBetween(&fixedNow, nil); !got.IsUnbounded() {
		t.Errorf("Expected Unbounded, got %d", got)
	}
	if got := DaysSince(nil, fixedNow); !got.IsUnbounded() {
		t.Errorf("Expected Unbounded, got %d", got)
	}
	if Unbounded < Days(WholeBloodInterval) {
		t.Errorf("Expected Unbounded to satisfy any interval")
	}
}

func TestDaysSince(t *testing.T) {
	if got := DaysSince(daysAgo(10), fixedNow); got != 10 {
		t.Errorf("Expected 10, got %d", got)
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-02":                time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		"2025-01-02T03:04:05Z":      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		"2025-01-02T03:04:05.250Z":  time.Date(2025, 1, 2, 3, 4, 5, 250_000_000, time.UTC),
		"2025-01-02T05:04:05+02:00": time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) returned error: %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %s, want %s", in, got, want)
		}
	}

	if got, err := ParseDate("  "); got != nil || err != nil {
		t.Errorf("Expected blank input to be absent, got %v, %v", got, err)
	}
	if _, err := ParseDate("last tuesday"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		last    *time.Time
		willing bool
		want    Status
	}{
		{"unwilling", nil, false, StatusNotWilling},
		{"never donated", nil, true, StatusEligible},
		{"past interval", daysAgo(60), true, StatusEligible},
		{"soon", daysAgo(45), true, StatusSoon},
		{"just before soon", daysAgo(44), true, StatusNotYet},
		{"recent", daysAgo(3), true, StatusNotYet},
	}
	for _, tc := range cases {
		got := Classify(tc.last, tc.willing, WholeBloodInterval, fixedNow)
		if got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
		if (got == StatusEligible) != IsEligible(tc.last, tc.willing, WholeBloodInterval, fixedNow) {
			t.Errorf("%s: Classify disagrees with IsEligible", tc.name)
		}
	}
}
