package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/arnavshah/bloodclub-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// applyDonorInput validates in and copies it onto row. A last donation after now is rejected.
func applyDonorInput(row *database.Donor, in models.DonorInput, now time.Time) error {
	group, err := compat.ParseBloodGroup(in.BloodGroup)
	if err != nil {
		return err
	}
	last, err := compat.ParseDate(in.LastDonation)
	if err != nil {
		return err
	}
	if last != nil && last.After(now) {
		return fmt.Errorf("%w: last donation %s is in the future", compat.ErrInvalidArgument, in.LastDonation)
	}

	row.Name = strings.TrimSpace(in.Name)
	row.StudentID = in.StudentID
	row.Department = in.Department
	row.BloodGroup = string(group)
	row.Phone = in.Phone
	row.Email = in.Email
	row.ContactPreference = in.ContactPreference
	row.Willing = in.Willing == nil || *in.Willing
	row.LastDonation = last
	row.Notes = in.Notes
	return nil
}

// likeEscaper makes LIKE wildcards in a search term match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListDonors returns donors, newest first, with optional filters
func (h *Handler) ListDonors(c *gin.Context) {
	query := h.db(c).Order("created_at desc")

	if g := c.Query("blood_group"); g != "" {
		group, err := compat.ParseBloodGroup(g)
		if err != nil {
			h.fail(c, err)
			return
		}
		query = query.Where("blood_group = ?", string(group))
	}
	if w := c.Query("willing"); w != "" {
		willing, err := strconv.ParseBool(w)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "willing must be true or false"})
			return
		}
		query = query.Where("willing = ?", willing)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(department) LIKE ? ESCAPE '\')`, like, like)
	}

	var rows []database.Donor
	if err := query.Find(&rows).Error; err != nil {
		h.fail(c, err)
		return
	}

	var onlyEligible *bool
	if e := c.Query("eligible"); e != "" {
		v, err := strconv.ParseBool(e)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "eligible must be true or false"})
			return
		}
		onlyEligible = &v
	}

	m, err := h.matcherFor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	donors := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		d := row.ToModel()
		e := m.Eligibility(d.LastDonation, d.Willing)
		if onlyEligible != nil && e.Eligible != *onlyEligible {
			continue
		}
		donors = append(donors, gin.H{"donor": d, "eligibility": e})
	}

	c.JSON(http.StatusOK, gin.H{"donors": donors})
}

// GetDonor returns one donor
func (h *Handler) GetDonor(c *gin.Context) {
	var row database.Donor
	if err := h.db(c).First(&row, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// CreateDonor registers a new donor
func (h *Handler) CreateDonor(c *gin.Context) {
	var in models.DonorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := h.Clock.Now()
	row := database.Donor{ID: in.ID, CreatedAt: now}
	if err := applyDonorInput(&row, in, now); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.db(c).Create(&row).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, row.ToModel())
}

// UpdateDonor replaces a donor's details
func (h *Handler) UpdateDonor(c *gin.Context) {
	var in models.DonorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var row database.Donor
	if err := h.db(c).First(&row, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}
	now := h.Clock.Now()
	if err := applyDonorInput(&row, in, now); err != nil {
		h.fail(c, err)
		return
	}
	row.UpdatedAt = &now

	if err := h.db(c).Save(&row).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// DeleteDonor removes a donor
func (h *Handler) DeleteDonor(c *gin.Context) {
	res := h.db(c).Delete(&database.Donor{}, "id = ?", c.Param("id"))
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

// DonorEligibility reports whether a donor can give now and when they next can
func (h *Handler) DonorEligibility(c *gin.Context) {
	var row database.Donor
	if err := h.db(c).First(&row, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}

	m, err := h.matcherFor(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	e := m.Eligibility(row.LastDonation, row.Willing)
	h.Metrics.RecordEligibility(string(e.DonationType), string(e.Status))

	recipients, err := compat.CompatibleRecipients(compat.BloodGroup(row.BloodGroup))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donor":         row.ToModel(),
		"eligibility":   e,
		"can_donate_to": recipients,
	})
}
