package compat

import (
	"fmt"
	"strings"
	"time"
)

// DonationType identifies a kind of donation with its own recovery interval
type DonationType string

const (
	WholeBlood DonationType = "whole_blood"
	Plasma     DonationType = "plasma"
	Platelets  DonationType = "platelets"
	DoubleRed  DonationType = "double_red"
)

// Policy is the minimum interval applied to one donation type
type Policy struct {
	Type    DonationType `json:"donation_type"`
	MinDays int          `json:"min_days"`
}

// Policies maps each donation type to its interval
type Policies map[DonationType]Policy

// DefaultPolicies returns the standard intervals
func DefaultPolicies() Policies {
	return Policies{
		WholeBlood: {Type: WholeBlood, MinDays: WholeBloodInterval},
		Plasma:     {Type: Plasma, MinDays: 28},
		Platelets:  {Type: Platelets, MinDays: 7},
		DoubleRed:  {Type: DoubleRed, MinDays: 112},
	}
}

// ParseDonationType converts input into a DonationType. Empty input means whole blood.
func ParseDonationType(s string) (DonationType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WholeBlood, nil
	}
	t := DonationType(s)
	if _, ok := DefaultPolicies()[t]; !ok {
		return "", fmt.Errorf("%w: unknown donation type %q", ErrInvalidArgument, s)
	}
	return t, nil
}

// PolicyFor returns the default policy for a donation type
func PolicyFor(t DonationType) (Policy, error) {
	return DefaultPolicies().Lookup(t)
}

// Lookup returns the policy configured for t
func (p Policies) Lookup(t DonationType) (Policy, error) {
	policy, ok := p[t]
	if !ok {
		return Policy{}, fmt.Errorf("%w: unknown donation type %q", ErrInvalidArgument, t)
	}
	return policy, nil
}

// IsEligible applies the policy interval to IsEligible
func (p Policy) IsEligible(last *time.Time, willing bool, now time.Time) bool {
	return IsEligible(last, willing, p.MinDays, now)
}

// NextEligibleDate applies the policy interval to NextEligibleDate
func (p Policy) NextEligibleDate(last *time.Time, now time.Time) time.Time {
	return NextEligibleDate(last, p.MinDays, now)
}

// Classify applies the policy interval to Classify
func (p Policy) Classify(last *time.Time, willing bool, now time.Time) Status {
	return Classify(last, willing, p.MinDays, now)
}
