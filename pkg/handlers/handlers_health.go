package handlers

import (
	"net/http"

	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/gin-gonic/gin"
)

// Health reports database connectivity and record counts
func (h *Handler) Health(c *gin.Context) {
	var donors, requests int64

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err == nil {
		err = h.db(c).Model(&database.Donor{}).Count(&donors).Error
	}
	if err == nil {
		err = h.db(c).Model(&database.BloodRequest{}).Count(&requests).Error
	}

	status := http.StatusOK
	body := gin.H{"connected": err == nil}
	if err != nil {
		status = http.StatusServiceUnavailable
		body["error"] = err.Error()
	} else {
		body["donors_count"] = donors
		body["requests_count"] = requests
	}

	c.JSON(status, gin.H{
		"ok":       err == nil,
		"time":     h.Clock.Now(),
		"database": body,
	})
}
