package handlers

import (
	"log"
	"net/http"

	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordUsage records partner API usage using a single upsert
func (h *Handler) RecordUsage(c *gin.Context, donorsScanned, matchesFound int) error {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return nil
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := h.Clock.Now().Format("2006-01-02")

	// OnConflict works for both Postgres and SQLite
	err := h.db(c).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"donors_scanned": gorm.Expr("donors_scanned + ?", donorsScanned),
			"matches_found":  gorm.Expr("matches_found + ?", matchesFound),
		}),
	}).Create(&database.APIUsage{
		KeyID:         apiKey.ID,
		Date:          today,
		RequestCount:  1,
		DonorsScanned: donorsScanned,
		MatchesFound:  matchesFound,
	}).Error
	if err != nil {
		log.Printf("failed to record usage for key %d: %v", apiKey.ID, err)
	}
	return err
}

func (h *Handler) usageFor(c *gin.Context, keyID interface{}) ([]database.APIUsage, error) {
	var usage []database.APIUsage
	err := h.db(c).Where("key_id = ?", keyID).Order("date desc").Limit(30).Find(&usage).Error
	return usage, err
}

// GetUsage returns the last 30 days of usage for a key
func (h *Handler) GetUsage(c *gin.Context) {
	usage, err := h.usageFor(c, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// GetMyUsage returns usage stats for the calling partner key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	usage, err := h.usageFor(c, apiKey.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	var totalRequests, totalScanned, totalMatches int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalScanned += int64(u.DonorsScanned)
		totalMatches += int64(u.MatchesFound)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"usage_history": usage,
		"totals": gin.H{
			"requests":       totalRequests,
			"donors_scanned": totalScanned,
			"matches_found":  totalMatches,
		},
	})
}
