package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/arnavshah/bloodclub-api-go/pkg/matcher"
	"github.com/arnavshah/bloodclub-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

func validStatus(s string) bool {
	return s == models.StatusOpen || s == models.StatusFulfilled || s == models.StatusCancelled
}

// normalizeNeededBy reduces any accepted date form to YYYY-MM-DD
func normalizeNeededBy(s string) (string, error) {
	t, err := compat.ParseDate(s)
	if err != nil || t == nil {
		return "", err
	}
	return t.UTC().Format("2006-01-02"), nil
}

// applyRequestInput validates in and copies it onto row. Fulfilment time is stamped when the
// status moves to fulfilled and cleared when it moves away.
func (h *Handler) applyRequestInput(row *database.BloodRequest, in models.RequestInput) error {
	group, err := compat.ParseBloodGroup(in.BloodGroup)
	if err != nil {
		return err
	}
	neededBy, err := normalizeNeededBy(in.NeededBy)
	if err != nil {
		return err
	}

	units := in.Units
	if units == 0 {
		units = 1
	}
	if units < 0 {
		return fmt.Errorf("%w: units must be at least 1", compat.ErrInvalidArgument)
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = row.Status
	}
	if status == "" {
		status = models.StatusOpen
	}
	if !validStatus(status) {
		return fmt.Errorf("%w: unknown status %q", compat.ErrInvalidArgument, in.Status)
	}

	switch {
	case status == models.StatusFulfilled && row.FulfilledAt == nil:
		now := h.Clock.Now()
		row.FulfilledAt = &now
	case status != models.StatusFulfilled:
		row.FulfilledAt = nil
	}

	matched := in.MatchedDonorIDs
	if matched == nil {
		matched = []string{}
	}

	row.PatientName = strings.TrimSpace(in.PatientName)
	row.BloodGroup = string(group)
	row.Units = units
	row.NeededBy = neededBy
	row.Location = in.Location
	row.ContactPerson = in.ContactPerson
	row.ContactPhone = in.ContactPhone
	row.Notes = in.Notes
	row.Status = status
	row.MatchedDonorIDs = matched
	return nil
}

// ListRequests returns requests, newest first, optionally filtered by status
func (h *Handler) ListRequests(c *gin.Context) {
	query := h.db(c).Order("created_at desc")
	if s := c.Query("status"); s != "" {
		if !validStatus(s) {
			h.fail(c, fmt.Errorf("%w: unknown status %q", compat.ErrInvalidArgument, s))
			return
		}
		query = query.Where("status = ?", s)
	}

	var rows []database.BloodRequest
	if err := query.Find(&rows).Error; err != nil {
		h.fail(c, err)
		return
	}

	requests := make([]models.BloodRequest, 0, len(rows))
	for i := range rows {
		requests = append(requests, rows[i].ToModel())
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// CreateRequest records a new blood request
func (h *Handler) CreateRequest(c *gin.Context) {
	var in models.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := database.BloodRequest{ID: in.ID, CreatedAt: h.Clock.Now()}
	if err := h.applyRequestInput(&row, in); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.db(c).Create(&row).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, row.ToModel())
}

// UpdateRequest replaces a request's details and status
func (h *Handler) UpdateRequest(c *gin.Context) {
	var in models.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var row database.BloodRequest
	if err := h.db(c).First(&row, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.applyRequestInput(&row, in); err != nil {
		h.fail(c, err)
		return
	}
	now := h.Clock.Now()
	row.UpdatedAt = &now

	if err := h.db(c).Save(&row).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// DeleteRequest removes a request
func (h *Handler) DeleteRequest(c *gin.Context) {
	res := h.db(c).Delete(&database.BloodRequest{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		h.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// matchRequest loads a request and scans willing donors for compatible matches
func (h *Handler) matchRequest(c *gin.Context) (models.BloodRequest, []models.Match, int, error) {
	var row database.BloodRequest
	if err := h.db(c).First(&row, "id = ?", c.Param("id")).Error; err != nil {
		return models.BloodRequest{}, nil, 0, err
	}

	m, err := h.matcherFor(c)
	if err != nil {
		return models.BloodRequest{}, nil, 0, err
	}

	var rows []database.Donor
	if err := h.db(c).Where("willing = ?", true).Find(&rows).Error; err != nil {
		return models.BloodRequest{}, nil, 0, err
	}
	donors := make([]models.Donor, 0, len(rows))
	for i := range rows {
		donors = append(donors, rows[i].ToModel())
	}

	req := row.ToModel()
	matches, err := m.Match(req.BloodGroup, donors)
	if err != nil {
		return models.BloodRequest{}, nil, 0, err
	}
	h.Metrics.RecordMatchScan(len(matches))
	return req, matches, len(donors), nil
}

// RequestMatches lists compatible willing donors for a request, eligible first
func (h *Handler) RequestMatches(c *gin.Context) {
	req, matches, _, err := h.matchRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req, "matches": matches})
}

// PartnerRequestMatches is RequestMatches for partner keys, recorded against the key's usage
func (h *Handler) PartnerRequestMatches(c *gin.Context) {
	req, matches, scanned, err := h.matchRequest(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.RecordUsage(c, scanned, len(matches))
	c.JSON(http.StatusOK, gin.H{"request": req, "matches": matches})
}

// Stats returns the dashboard summary and the next open requests
func (h *Handler) Stats(c *gin.Context) {
	m, err := h.matcherFor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var donorRows []database.Donor
	if err := h.db(c).Find(&donorRows).Error; err != nil {
		h.fail(c, err)
		return
	}
	var requestRows []database.BloodRequest
	if err := h.db(c).Find(&requestRows).Error; err != nil {
		h.fail(c, err)
		return
	}

	donors := make([]models.Donor, 0, len(donorRows))
	for i := range donorRows {
		donors = append(donors, donorRows[i].ToModel())
	}
	requests := make([]models.BloodRequest, 0, len(requestRows))
	for i := range requestRows {
		requests = append(requests, requestRows[i].ToModel())
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":    m.Summarize(donors, requests),
		"upcoming": matcher.Upcoming(requests, 5),
	})
}
