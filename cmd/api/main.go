package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/aiu/stimulus/internal/pkg/logger"
	"github.com/aiu/stimulus/internal/server"
)

// @title Stimulus API
// @version 1.0
// @description Backend for researcher publication compensation claims at AIU
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@aiu.edu.kz

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Load .env if present; real environment variables take precedence
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run the server (this blocks until shutdown signal)
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
