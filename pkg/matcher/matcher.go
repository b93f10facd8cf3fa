package matcher

import (
	"sort"
	"time"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/arnavshah/bloodclub-api-go/pkg/models"
)

// Matcher pairs donors with blood requests under one donation policy
type Matcher struct {
	Policy compat.Policy
	Now    time.Time
}

// NewMatcher creates a new matcher evaluating eligibility at now
func NewMatcher(policy compat.Policy, now time.Time) *Matcher {
	return &Matcher{
		Policy: policy,
		Now:    now,
	}
}

// Eligibility evaluates one donor against the matcher's policy
func (m *Matcher) Eligibility(last *time.Time, willing bool) models.Eligibility {
	e := models.Eligibility{
		Eligible:         m.Policy.IsEligible(last, willing, m.Now),
		Status:           m.Policy.Classify(last, willing, m.Now),
		NextEligibleDate: m.Policy.NextEligibleDate(last, m.Now),
		DonationType:     m.Policy.Type,
		MinDays:          m.Policy.MinDays,
	}
	if days := compat.DaysSince(last, m.Now); !days.IsUnbounded() {
		n := int64(days)
		e.DaysSince = &n
	}
	return e
}

// Match returns the willing donors whose blood a recipient can receive.
// Eligible donors come first, then those who donated longest ago, then by name.
func (m *Matcher) Match(recipient compat.BloodGroup, donors []models.Donor) ([]models.Match, error) {
	if _, err := compat.AcceptableDonors(recipient); err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0)
	for _, d := range donors {
		if !d.Willing {
			continue
		}
		ok, err := compat.IsCompatible(d.BloodGroup, recipient)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		matches = append(matches, models.Match{
			Donor:       d,
			Eligibility: m.Eligibility(d.LastDonation, d.Willing),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Eligible != b.Eligible {
			return a.Eligible
		}
		da := compat.DaysSince(a.Donor.LastDonation, m.Now)
		db := compat.DaysSince(b.Donor.LastDonation, m.Now)
		if da != db {
			return da > db
		}
		return a.Donor.Name < b.Donor.Name
	})

	return matches, nil
}

// Summarize computes dashboard totals across donors and requests
func (m *Matcher) Summarize(donors []models.Donor, requests []models.BloodRequest) models.Stats {
	stats := models.Stats{
		TotalDonors: len(donors),
		ByGroup:     make(map[compat.BloodGroup]models.GroupStats, len(compat.BloodGroups)),
	}
	for _, g := range compat.BloodGroups {
		stats.ByGroup[g] = models.GroupStats{}
	}

	for _, d := range donors {
		eligible := m.Policy.IsEligible(d.LastDonation, d.Willing, m.Now)
		if eligible {
			stats.EligibleDonors++
		}
		if gs, ok := stats.ByGroup[d.BloodGroup]; ok {
			gs.Total++
			if eligible {
				gs.Eligible++
			}
			stats.ByGroup[d.BloodGroup] = gs
		}
	}

	for _, r := range requests {
		switch r.Status {
		case models.StatusOpen:
			stats.OpenRequests++
		case models.StatusFulfilled:
			stats.FulfilledRequests++
		}
	}

	return stats
}

// Upcoming returns up to n open requests ordered by how soon they are needed
func Upcoming(requests []models.BloodRequest, n int) []models.BloodRequest {
	open := make([]models.BloodRequest, 0, len(requests))
	for _, r := range requests {
		if r.Status == models.StatusOpen {
			open = append(open, r)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].NeededBy < open[j].NeededBy
	})
	if n >= 0 && len(open) > n {
		open = open[:n]
	}
	return open
}
