package main

import (
	"log"

	"evaldash/internal/config"
	"evaldash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(appConfig.Server.GinMode)

	server, err := ui.NewServer(appConfig.Data)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Reading evaluation workbooks from %s", appConfig.Data.Dir)
	log.Fatal(server.Start(appConfig.Server))
}
