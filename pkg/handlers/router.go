package handlers

import (
	"github.com/arnavshah/bloodclub-api-go/pkg/auth"
	"github.com/gin-gonic/gin"
)

func isSuperadmin(role string) bool {
	return role == auth.RoleSuperadmin
}

// NewRouter wires every route onto a new gin engine
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Any signed-in account
	account := r.Group("/admin")
	account.Use(h.AuthMiddleware())
	{
		account.GET("/me", h.Me)
		account.GET("/profile", h.GetProfile)
		account.PUT("/profile", h.UpdateProfile)
	}

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware(), h.RequireRole(auth.IsAdminLike))
	{
		admin.GET("/donors", h.ListDonors)
		admin.POST("/donors", h.CreateDonor)
		admin.GET("/donors/:id", h.GetDonor)
		admin.PUT("/donors/:id", h.UpdateDonor)
		admin.DELETE("/donors/:id", h.DeleteDonor)
		admin.GET("/donors/:id/eligibility", h.DonorEligibility)

		admin.GET("/requests", h.ListRequests)
		admin.POST("/requests", h.CreateRequest)
		admin.PUT("/requests/:id", h.UpdateRequest)
		admin.DELETE("/requests/:id", h.DeleteRequest)
		admin.GET("/requests/:id/matches", h.RequestMatches)

		admin.GET("/stats", h.Stats)

		admin.GET("/export", h.Export)
		admin.POST("/import", h.Import)
		admin.POST("/import/validate", h.ValidateImport)

		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	super := r.Group("/admin/users")
	super.Use(h.AuthMiddleware(), h.RequireRole(isSuperadmin))
	{
		super.GET("", h.ListUsers)
		super.POST("", h.CreateUser)
		super.PUT("/:username/role", h.UpdateRole)
	}

	// Partner Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.GET("/compatibility", h.CheckCompatibility)
		api.GET("/compatibility/:recipient", h.AcceptableDonors)
		api.POST("/eligibility", h.CheckEligibility)
		api.GET("/policies", h.ListPolicies)
		api.GET("/requests/:id/matches", h.PartnerRequestMatches)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
