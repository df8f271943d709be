package main

import (
	"os"

	"github.com/tuhmaz/edu/internal/pkg/logger"
	"github.com/tuhmaz/edu/internal/server"
)

// @title Edu Content API
// @version 1.0
// @description Multi-country school content service: articles, keywords and attachments per country database
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@edu.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by the identity service

func main() {
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
