package compat

import (
	"errors"
	"testing"
)

func TestParseDonationType(t *testing.T) {
	got, err := ParseDonationType("")
	if err != nil || got != WholeBlood {
		t.Errorf("Expected empty input to mean whole blood, got %q (%v)", got, err)
	}

	got, err = ParseDonationType(" Plasma ")
	if err != nil || got != Plasma {
		t.Errorf("Expected plasma, got %q (%v)", got, err)
	}

	if _, err := ParseDonationType("saliva"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor(WholeBlood)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MinDays != WholeBloodInterval {
		t.Errorf("Expected whole blood interval of %d, got %d", WholeBloodInterval, p.MinDays)
	}

	if _, err := PolicyFor("saliva"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestPolicy_UsesConfiguredInterval(t *testing.T) {
	policies := DefaultPolicies()
	policies[Plasma] = Policy{Type: Plasma, MinDays: 14}

	p, _ := policies.Lookup(Plasma)
	if !p.IsEligible(daysAgo(14), true, fixedNow) {
		t.Errorf("Expected donor to be eligible after the overridden interval")
	}
	if p.IsEligible(daysAgo(13), true, fixedNow) {
		t.Errorf("Expected donor to be ineligible before the overridden interval")
	}

	next := p.NextEligibleDate(daysAgo(13), fixedNow)
	if got := DaysSince(daysAgo(13), next); got != 14 {
		t.Errorf("Expected next eligible date 14 days after donation, got %d", got)
	}
}
