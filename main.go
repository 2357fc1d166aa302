package main

import (
	"log"

	"github.com/joho/godotenv"

	"aceintel/internal/config"
	"aceintel/internal/container"
	"aceintel/ui"
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

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to wire dependencies: %v", err)
	}
	defer c.Shutdown()

	app := ui.NewApp(c.Pipeline, c.Runs, c.Logger)
	if err := app.Start(ui.Config{Port: appConfig.Server.Port}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
