package models

import (
	"encoding/json"
	"time"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
)

// Request statuses
const (
	StatusOpen      = "open"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"
)

// Donor is a club member who may give blood
type Donor struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	StudentID         string            `json:"student_id"`
	Department        string            `json:"department"`
	BloodGroup        compat.BloodGroup `json:"blood_group"`
	Phone             string            `json:"phone"`
	Email             string            `json:"email,omitempty"`
	ContactPreference string            `json:"contact_preference,omitempty"`
	Willing           bool              `json:"willing"`
	LastDonation      *time.Time        `json:"last_donation"`
	Notes             string            `json:"notes,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         *time.Time        `json:"updated_at,omitempty"`
}

// UnmarshalJSON decodes a donor, treating a missing willing flag as true
func (d *Donor) UnmarshalJSON(data []byte) error {
	type plain Donor
	aux := struct {
		*plain
		Willing *bool `json:"willing"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Willing = aux.Willing == nil || *aux.Willing
	return nil
}

// BloodRequest is an open or closed need for blood
type BloodRequest struct {
	ID              string            `json:"id"`
	PatientName     string            `json:"patient_name"`
	BloodGroup      compat.BloodGroup `json:"blood_group"`
	Units           int               `json:"units"`
	NeededBy        string            `json:"needed_by"` // YYYY-MM-DD
	Location        string            `json:"location"`
	ContactPerson   string            `json:"contact_person"`
	ContactPhone    string            `json:"contact_phone"`
	Notes           string            `json:"notes,omitempty"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	FulfilledAt     *time.Time        `json:"fulfilled_at,omitempty"`
	MatchedDonorIDs []string          `json:"matched_donor_ids"`
}

// DonorInput is the payload for creating or updating a donor
type DonorInput struct {
	ID                string `json:"id,omitempty"`
	Name              string `json:"name" binding:"required"`
	StudentID         string `json:"student_id"`
	Department        string `json:"department"`
	BloodGroup        string `json:"blood_group" binding:"required"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	ContactPreference string `json:"contact_preference"`
	Willing           *bool  `json:"willing"`
	LastDonation      string `json:"last_donation"`
	Notes             string `json:"notes"`
}

// RequestInput is the payload for creating or updating a blood request
type RequestInput struct {
	ID              string   `json:"id,omitempty"`
	PatientName     string   `json:"patient_name" binding:"required"`
	BloodGroup      string   `json:"blood_group" binding:"required"`
	Units           int      `json:"units"`
	NeededBy        string   `json:"needed_by"`
	Location        string   `json:"location"`
	ContactPerson   string   `json:"contact_person"`
	ContactPhone    string   `json:"contact_phone"`
	Notes           string   `json:"notes"`
	Status          string   `json:"status"`
	MatchedDonorIDs []string `json:"matched_donor_ids"`
}

// Profile is a member's self-maintained contact card
type Profile struct {
	Username   string            `json:"username"`
	Batch      string            `json:"batch"`
	Department string            `json:"department"`
	Phone1     string            `json:"phone1"`
	Phone2     string            `json:"phone2"`
	BloodGroup compat.BloodGroup `json:"blood_group"`
	UpdatedAt  *time.Time        `json:"updated_at,omitempty"`
}

// ProfileInput is the payload for updating the caller's profile
type ProfileInput struct {
	Batch      string `json:"batch"`
	Department string `json:"department"`
	Phone1     string `json:"phone1"`
	Phone2     string `json:"phone2"`
	BloodGroup string `json:"blood_group"`
}

// Eligibility describes a donor's standing under one donation policy
type Eligibility struct {
	Eligible         bool                `json:"eligible"`
	Status           compat.Status       `json:"status"`
	DaysSince        *int64              `json:"days_since"` // nil when never donated
	NextEligibleDate time.Time           `json:"next_eligible_date"`
	DonationType     compat.DonationType `json:"donation_type"`
	MinDays          int                 `json:"min_days"`
}

// EligibilityInput is the payload for an ad hoc eligibility check
type EligibilityInput struct {
	LastDonation string `json:"last_donation"`
	Willing      *bool  `json:"willing"`
	DonationType string `json:"donation_type"`
}

// Match is a compatible donor for a request, annotated with eligibility
type Match struct {
	Donor Donor `json:"donor"`
	Eligibility
}

// GroupStats counts donors of one blood group
type GroupStats struct {
	Total    int `json:"total"`
	Eligible int `json:"eligible"`
}

// Stats is the dashboard summary
type Stats struct {
	TotalDonors       int                              `json:"total_donors"`
	EligibleDonors    int                              `json:"eligible_donors"`
	OpenRequests      int                              `json:"open_requests"`
	FulfilledRequests int                              `json:"fulfilled_requests"`
	ByGroup           map[compat.BloodGroup]GroupStats `json:"by_group"`
}

// Backup is the full export/import document
type Backup struct {
	ExportedAt *time.Time     `json:"exported_at,omitempty"`
	Donors     []Donor        `json:"donors"`
	Requests   []BloodRequest `json:"requests"`
}
