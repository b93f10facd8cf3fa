package main

import (
	"log"
	"os"

	"github.com/arnavshah/bloodclub-api-go/pkg/auth"
	"github.com/arnavshah/bloodclub-api-go/pkg/clock"
	"github.com/arnavshah/bloodclub-api-go/pkg/config"
	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/arnavshah/bloodclub-api-go/pkg/handlers"
	"github.com/gin-gonic/gin"
)

func main() {
	// Try root and parent directories for flexibility
	config.LoadDotEnv()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.JWTSecret == "" || cfg.APIMasterSecret == "" {
		log.Printf("warning: JWT_SECRET or API_MASTER_SECRET is empty")
	}

	db := database.InitDB(cfg)
	created, err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("could not create bootstrap admin: %v", err)
	}
	if created {
		log.Printf("Default superadmin created: %s", cfg.AdminUsername)
	}

	h := handlers.New(db, cfg, clock.NewSystem())
	r := handlers.NewRouter(h)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
