package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/bloodclub-api-go/pkg/auth"
	"github.com/arnavshah/bloodclub-api-go/pkg/config"
)

func main() {
	// Load .env from project root
	config.LoadDotEnv("../.env", ".env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/keygen <partner>")
		os.Exit(1)
	}

	partner := os.Args[1]
	if err := auth.ValidatePartnerName(partner); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in .env")
		os.Exit(1)
	}

	apiKey := auth.GenerateHMACKey([]byte(secret), partner)
	fmt.Printf("Generated Key for %s:\n%s\n", partner, apiKey)
}
