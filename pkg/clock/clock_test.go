package clock

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*60*60)
	c := NewFixed(time.Date(2025, 3, 15, 16, 30, 0, 0, loc))

	want := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	if got := c.Now(); !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("Expected %v in UTC, got %v", want, got)
	}
	if !c.Now().Equal(c.Now()) {
		t.Error("Expected fixed clock to stay frozen")
	}
}

func TestSystemClockIsUTC(t *testing.T) {
	before := time.Now()
	got := NewSystem().Now()
	if got.Location() != time.UTC {
		t.Errorf("Expected UTC, got %v", got.Location())
	}
	if got.Before(before.Add(-time.Second)) {
		t.Errorf("System clock %v is behind %v", got, before)
	}
}
