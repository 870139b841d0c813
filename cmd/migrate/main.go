package main

import (
	"flag"
	"os"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Usage:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate -steps 2 down
func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}
	logger.Init(os.Getenv("APP_ENV"))

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load database config")
	}

	switch flag.Arg(0) {
	case "up", "":
		err = database.MigrateUp(dbConfig)
	case "down":
		err = database.MigrateDown(dbConfig, *steps)
	default:
		log.Fatal().Str("command", flag.Arg(0)).Msg("Unknown command, expected up or down")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Str("command", flag.Arg(0)).Msg("Migration finished")
}
