package main

import (
	"log"
	"os"

	"github.com/MaximeWq/challenge-mobilite-app/config"
	"github.com/MaximeWq/challenge-mobilite-app/database"
	"github.com/MaximeWq/challenge-mobilite-app/routes"
	"github.com/MaximeWq/challenge-mobilite-app/services"
)

func main() {
	config.InitDB()

	if os.Getenv("SEED_DB") == "true" {
		if err := database.Seed(config.DB); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	r := routes.SetupRouter(config.DB, services.SystemClock{})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
