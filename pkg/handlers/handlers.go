package handlers

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/arnavshah/bloodclub-api-go/pkg/auth"
	"github.com/arnavshah/bloodclub-api-go/pkg/clock"
	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/arnavshah/bloodclub-api-go/pkg/config"
	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/arnavshah/bloodclub-api-go/pkg/matcher"
	"github.com/arnavshah/bloodclub-api-go/pkg/metrics"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

//go:embed static/*
var staticEmbed embed.FS

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Auth     *auth.Service
	Clock    clock.Clock
	Policies compat.Policies
	Metrics  *metrics.Metrics
}

// New builds a Handler from loaded configuration
func New(db *gorm.DB, cfg *config.Config, clk clock.Clock) *Handler {
	return &Handler{
		DB:       db,
		Auth:     auth.NewService(cfg.JWTSecret, cfg.APIMasterSecret, cfg.TokenTTL, clk.Now),
		Clock:    clk,
		Policies: cfg.Policies,
		Metrics:  metrics.New(),
	}
}

// db scopes the connection to the request context
func (h *Handler) db(c *gin.Context) *gorm.DB {
	return h.DB.WithContext(c.Request.Context())
}

// fail writes err as a JSON error with a status derived from its kind
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, compat.ErrInvalidArgument):
		h.Metrics.InvalidArguments.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// matcherFor builds a matcher for the donation_type query parameter
func (h *Handler) matcherFor(c *gin.Context) (*matcher.Matcher, error) {
	t, err := compat.ParseDonationType(c.Query("donation_type"))
	if err != nil {
		return nil, err
	}
	policy, err := h.Policies.Lookup(t)
	if err != nil {
		return nil, err
	}
	return matcher.NewMatcher(policy, h.Clock.Now()), nil
}

func bearer(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return header
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := h.Auth.VerifyToken(bearer(token))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole rejects callers whose token role is not accepted by allow
func (h *Handler) RequireRole(allow func(role string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c.GetString("role")) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// APIKeyMiddleware verifies the partner key for API routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}
		key = bearer(key)

		partner, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create the key record to track usage
		var apiKey database.APIKey
		if err := h.db(c).Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:        key,
			Name:       partner,
			KeyPreview: keyPreview(key),
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			c.Abort()
			return
		}
		if apiKey.Revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			c.Abort()
			return
		}

		now := h.Clock.Now()
		apiKey.LastUsed = &now
		h.db(c).Model(&apiKey).Update("last_used", now)

		c.Set("apiKey", &apiKey)
		c.Set("partner", partner)
		c.Next()
	}
}

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.MasterUser
	if err := h.db(c).Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Auth.CreateToken(user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer", "role": user.Role})
}

func keyPreview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}

// GenerateKey creates a partner key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := auth.ValidatePartnerName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := h.Auth.GenerateHMACKey(req.Name)
	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: keyPreview(key),
	}

	if err := h.db(c).Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}
	// Reissuing a revoked partner name reactivates the same signed key.
	if apiKey.Revoked {
		if err := h.db(c).Model(&apiKey).Update("revoked", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reactivate key"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   apiKey.ID,
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all partner keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.db(c).Order("id").Find(&keys).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey marks a partner key as revoked. The record is kept so the signed key stays blocked.
func (h *Handler) RevokeKey(c *gin.Context) {
	res := h.db(c).Model(&database.APIKey{}).Where("id = ?", c.Param("id")).Update("revoked", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not revoke key"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}

// Home returns the service banner
func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Blood Club API (Go Version)",
		"version": "1.0.0",
	})
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
