package handlers

import (
	"net/http"
	"strings"

	"github.com/arnavshah/bloodclub-api-go/pkg/auth"
	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/gin-gonic/gin"
)

// ListUsers returns every admin console account
func (h *Handler) ListUsers(c *gin.Context) {
	var users []database.MasterUser
	if err := h.db(c).Order("username").Find(&users).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser adds an admin console account
func (h *Handler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role == "" {
		req.Role = auth.RoleUser
	}
	if !auth.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrInvalidRole.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	user := database.MasterUser{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.db(c).Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Could not create user"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateRole changes another account's role
func (h *Handler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrInvalidRole.Error()})
		return
	}

	username := c.Param("username")
	if username == c.GetString("username") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
		return
	}

	res := h.db(c).Model(&database.MasterUser{}).Where("username = ?", username).Update("role", req.Role)
	if res.Error != nil {
		h.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "role": req.Role})
}

// Me returns the caller's identity from the token
func (h *Handler) Me(c *gin.Context) {
	role := c.GetString("role")
	c.JSON(http.StatusOK, gin.H{
		"username": c.GetString("username"),
		"role":     role,
		"is_admin": auth.IsAdminLike(role),
	})
}
