package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lifelearn/lifelearn/internal/pkg/logger"
	"github.com/lifelearn/lifelearn/internal/server"
)

// @title LifeLearn API
// @version 1.0
// @description API for the LifeLearn course marketplace
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@lifelearn.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// A missing .env file is fine; the environment may carry everything
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
