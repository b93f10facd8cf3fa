package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordMatchScan(t *testing.T) {
	m := New()
	m.RecordMatchScan(3)
	m.RecordMatchScan(0)

	if got := testutil.ToFloat64(m.MatchScans); got != 2 {
		t.Errorf("Expected 2 scans, got %v", got)
	}
	if got := testutil.ToFloat64(m.MatchesFound); got != 3 {
		t.Errorf("Expected 3 matches, got %v", got)
	}
}

func TestRecordEligibility(t *testing.T) {
	m := New()
	m.RecordEligibility("whole_blood", "eligible")
	m.RecordEligibility("whole_blood", "eligible")
	m.RecordEligibility("plasma", "not_yet")

	if got := testutil.ToFloat64(m.EligibilityChecks.WithLabelValues("whole_blood", "eligible")); got != 2 {
		t.Errorf("Expected 2 whole blood eligible checks, got %v", got)
	}
}

func TestNewRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.CompatChecks.Inc()

	if got := testutil.ToFloat64(b.CompatChecks); got != 0 {
		t.Errorf("Expected separate registries, got %v", got)
	}
}
