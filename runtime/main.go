package main

import (
	"github.com/Starefossen/NisseKomm-sub003/middleware"
	"github.com/Starefossen/NisseKomm-sub003/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file found")
	}

	ctx, err := context.NewCtx(
		&services.ClockService{},
		&services.CatalogService{},

		&services.SqliteService{},
		&services.RedisService{},
		&services.MediaService{},

		&services.BadgeNotifierService{},
		&services.ProgressionService{},
		&services.CredentialService{},
		&services.ReminderService{},

		&services.JWTService{},
		&services.RateLimitService{},
		&middleware.AuthMiddleware{},
		&services.MonitoringService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
