package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/vlatan/advocacy-site/internal/app"
	"github.com/vlatan/advocacy-site/internal/config"
)

func main() {

	// A local .env is optional, the environment wins
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	cfg := config.New()

	if err := app.New(cfg).RegisterRoutes().Run(); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}
