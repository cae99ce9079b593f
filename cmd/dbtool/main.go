package main

import (
	"context"
	"time"
	"tour-guide-service/internal/adapters/repositories"
	"tour-guide-service/internal/adapters/tokens"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/config"
	"tour-guide-service/internal/platform/db"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/services"
)

// dbtool initializes the Postgres schema and seeds the administrator account.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.Storage != config.StoragePostgres {
		logging.Fatal().Str("storage", cfg.Storage).Msg("dbtool requires STORAGE=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	logging.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		logging.Fatal().Err(err).Msg("schema initialization failed")
	}
	logging.Info().Msg("schema ready")

	if cfg.AdminUserName == "" || cfg.AdminPassword == "" {
		logging.Info().Msg("ADMIN_USERNAME/ADMIN_PASSWORD not set; skipping administrator seed")
		return
	}

	jwtManager, err := auth.NewJWTManager(auth.JWTConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		Expiration: cfg.JWTExpiration,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("jwt")
	}

	authSvc := services.NewAuthService(repositories.NewPostgresUserRepository(conn), jwtManager, tokens.NewMemoryDenylist())
	created, err := authSvc.EnsureAdmin(ctx, services.AdminAccount{
		UserName: cfg.AdminUserName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		FullName: cfg.AdminFullName,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("seeding administrator failed")
	}
	if created {
		logging.Info().Str("user_name", cfg.AdminUserName).Msg("administrator account created")
	} else {
		logging.Info().Str("user_name", cfg.AdminUserName).Msg("administrator account already present")
	}
}
