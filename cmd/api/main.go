package main

import (
	"context"
	"os"

	"bazaar-backend/internal/config"
	"bazaar-backend/internal/interfaces/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle unavailable")
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Str("env", cfg.Env).Msg("database connected")

	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		log.Info().Str("stream", cfg.EventStream).Msg("redis connected, event fanout enabled")
	}

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
