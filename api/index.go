package handler

import (
	"log"
	"net/http"

	"github.com/arnavshah/bloodclub-api-go/pkg/auth"
	"github.com/arnavshah/bloodclub-api-go/pkg/clock"
	"github.com/arnavshah/bloodclub-api-go/pkg/config"
	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/arnavshah/bloodclub-api-go/pkg/handlers"
	"github.com/gin-gonic/gin"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	config.LoadDotEnv(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db := database.InitDB(cfg)
	if _, err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Printf("could not create bootstrap admin: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r = handlers.NewRouter(handlers.New(db, cfg, clock.NewSystem()))
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
