package handlers

import (
	"fmt"
	"net/http"

	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/arnavshah/bloodclub-api-go/pkg/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// validateBackup checks an import document without touching the database.
// Errors block an import; warnings do not.
func validateBackup(b *models.Backup) (errs, warnings []string) {
	donorIDs := make(map[string]bool, len(b.Donors))
	for i, d := range b.Donors {
		if d.ID == "" {
			errs = append(errs, fmt.Sprintf("donors[%d]: id is required", i))
		} else if donorIDs[d.ID] {
			errs = append(errs, "Duplicate donor ID: "+d.ID)
		}
		donorIDs[d.ID] = true

		if d.Name == "" {
			errs = append(errs, fmt.Sprintf("donors[%d]: name is required", i))
		}
		if !d.BloodGroup.Valid() {
			errs = append(errs, fmt.Sprintf("donors[%d]: unknown blood group %q", i, d.BloodGroup))
		}
	}

	requestIDs := make(map[string]bool, len(b.Requests))
	for i, r := range b.Requests {
		if r.ID == "" {
			errs = append(errs, fmt.Sprintf("requests[%d]: id is required", i))
		} else if requestIDs[r.ID] {
			errs = append(errs, "Duplicate request ID: "+r.ID)
		}
		requestIDs[r.ID] = true

		if !r.BloodGroup.Valid() {
			errs = append(errs, fmt.Sprintf("requests[%d]: unknown blood group %q", i, r.BloodGroup))
		}
		if r.Status != "" && !validStatus(r.Status) {
			errs = append(errs, fmt.Sprintf("requests[%d]: unknown status %q", i, r.Status))
		}
		if r.Units < 0 {
			errs = append(errs, fmt.Sprintf("requests[%d]: units must be at least 1", i))
		}
		if r.NeededBy != "" {
			if _, err := normalizeNeededBy(r.NeededBy); err != nil {
				errs = append(errs, fmt.Sprintf("requests[%d]: %v", i, err))
			}
		}
		for _, id := range r.MatchedDonorIDs {
			if !donorIDs[id] {
				warnings = append(warnings, fmt.Sprintf("requests[%d]: matched donor %s is not in the backup", i, id))
			}
		}
	}
	return errs, warnings
}

// Export returns every donor and request as a backup document
func (h *Handler) Export(c *gin.Context) {
	var donorRows []database.Donor
	if err := h.db(c).Order("created_at").Find(&donorRows).Error; err != nil {
		h.fail(c, err)
		return
	}
	var requestRows []database.BloodRequest
	if err := h.db(c).Order("created_at").Find(&requestRows).Error; err != nil {
		h.fail(c, err)
		return
	}

	now := h.Clock.Now()
	backup := models.Backup{
		ExportedAt: &now,
		Donors:     make([]models.Donor, 0, len(donorRows)),
		Requests:   make([]models.BloodRequest, 0, len(requestRows)),
	}
	for i := range donorRows {
		backup.Donors = append(backup.Donors, donorRows[i].ToModel())
	}
	for i := range requestRows {
		backup.Requests = append(backup.Requests, requestRows[i].ToModel())
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bloodclub-backup-%s.json", now.Format("2006-01-02")))
	c.JSON(http.StatusOK, backup)
}

// ValidateImport reports whether a backup document could be imported
func (h *Handler) ValidateImport(c *gin.Context) {
	var backup models.Backup
	if err := c.ShouldBindJSON(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}

	errs, warnings := validateBackup(&backup)
	c.JSON(http.StatusOK, gin.H{
		"valid":    len(errs) == 0,
		"errors":   errs,
		"warnings": warnings,
		"stats": gin.H{
			"donor_count":   len(backup.Donors),
			"request_count": len(backup.Requests),
		},
	})
}

// Import replaces all donors and requests with a backup document in one transaction
func (h *Handler) Import(c *gin.Context) {
	var backup models.Backup
	if err := c.ShouldBindJSON(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if backup.Donors == nil || backup.Requests == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if errs, _ := validateBackup(&backup); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup", "errors": errs})
		return
	}

	now := h.Clock.Now()
	donors := make([]database.Donor, 0, len(backup.Donors))
	for _, d := range backup.Donors {
		row := database.DonorFromModel(d)
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		donors = append(donors, row)
	}
	requests := make([]database.BloodRequest, 0, len(backup.Requests))
	for _, r := range backup.Requests {
		row := database.RequestFromModel(r)
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.Status == "" {
			row.Status = models.StatusOpen
		}
		if row.Units == 0 {
			row.Units = 1
		}
		row.NeededBy, _ = normalizeNeededBy(row.NeededBy)
		if row.MatchedDonorIDs == nil {
			row.MatchedDonorIDs = []string{}
		}
		row.UpdatedAt = &now
		requests = append(requests, row)
	}

	err := h.db(c).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&database.BloodRequest{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&database.Donor{}).Error; err != nil {
			return err
		}
		if len(donors) > 0 {
			if err := tx.CreateInBatches(donors, 100).Error; err != nil {
				return err
			}
		}
		if len(requests) > 0 {
			if err := tx.CreateInBatches(requests, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "donors": len(donors), "requests": len(requests)})
}
