package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/arnavshah/bloodclub-api-go/pkg/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProfile returns the caller's profile, or null when none has been saved
func (h *Handler) GetProfile(c *gin.Context) {
	var row database.Profile
	err := h.db(c).Where("username = ?", c.GetString("username")).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": row.ToModel()})
}

// UpdateProfile creates or replaces the caller's profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in models.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group compat.BloodGroup
	if strings.TrimSpace(in.BloodGroup) != "" {
		g, err := compat.ParseBloodGroup(in.BloodGroup)
		if err != nil {
			h.fail(c, err)
			return
		}
		group = g
	}

	now := h.Clock.Now()
	row := database.Profile{
		Username:   c.GetString("username"),
		Batch:      strings.TrimSpace(in.Batch),
		Department: strings.TrimSpace(in.Department),
		Phone1:     strings.TrimSpace(in.Phone1),
		Phone2:     strings.TrimSpace(in.Phone2),
		BloodGroup: string(group),
		UpdatedAt:  &now,
	}

	err := h.db(c).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"batch", "department", "phone1", "phone2", "blood_group", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": row.ToModel()})
}
