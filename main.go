package main

import (
	"log"

	"ccdviz/internal/config"
	"ccdviz/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	server, err := ui.NewServer(appConfig)
	if err != nil {
		log.Fatalf("Failed to create dashboard server: %v", err)
	}

	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
