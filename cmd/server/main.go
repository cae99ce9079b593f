package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"tour-guide-service/internal/adapters/directions"
	"tour-guide-service/internal/adapters/files"
	"tour-guide-service/internal/adapters/repositories"
	"tour-guide-service/internal/adapters/tokens"
	"tour-guide-service/internal/api"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/config"
	"tour-guide-service/internal/platform/db"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/ports"
	"tour-guide-service/internal/services"
)

type stores struct {
	tours    ports.TourRepository
	comments ports.CommentRepository
	users    ports.UserRepository
	db       *sql.DB
}

// main is the application composition root.
// It wires concrete adapters (Postgres, ORS, Redis, local files) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("storage")
	}
	if st.db != nil {
		defer st.db.Close()
	}

	denylist, closeDenylist, err := openDenylist(ctx, cfg.RedisURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("token denylist")
	}
	defer closeDenylist()

	images, err := files.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		logging.Fatal().Err(err).Msg("upload directory")
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

	if cfg.ORSAPIKey == "" {
		logging.Warn().Msg("ORS_API_KEY not set; tour details will be served without routes")
	}
	provider := directions.NewBreakerProvider(
		directions.NewORSDirectionsProvider(cfg.ORSAPIKey, cfg.ORSBaseURL, cfg.DirectionsTimeout),
		directions.BreakerSettings{},
	)

	authSvc := services.NewAuthService(st.users, jwtManager, denylist)
	if cfg.AdminUserName != "" && cfg.AdminPassword != "" {
		created, err := authSvc.EnsureAdmin(ctx, services.AdminAccount{
			UserName: cfg.AdminUserName,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			FullName: cfg.AdminFullName,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("admin account")
		}
		if created {
			logging.Info().Str("user_name", cfg.AdminUserName).Msg("administrator account created")
		}
	}

	router := api.NewRouter(api.Deps{
		Tours:             services.NewTourService(st.tours, provider),
		Comments:          services.NewCommentService(st.comments, st.users),
		Admin:             services.NewAdminService(st.tours, st.users),
		Auth:              authSvc,
		Images:            images,
		Tokens:            jwtManager,
		Denylist:          denylist,
		DirectionsBreaker: provider,
		UploadDir:         cfg.UploadDir,
		AllowedOrigins:    cfg.AllowedOrigins(),
		LoginRateLimit:    cfg.LoginRateLimit,
	})

	// Write timeout leaves room for a directions call on tour details.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.DirectionsTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server")
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
	logging.Info().Msg("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		logging.Warn().Msg("using in-memory storage; data is lost on restart")
		m := repositories.NewMemoryStore()
		return &stores{tours: m, comments: m, users: m}, nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &stores{
		tours:    repositories.NewPostgresTourRepository(conn),
		comments: repositories.NewPostgresCommentRepository(conn),
		users:    repositories.NewPostgresUserRepository(conn),
		db:       conn,
	}, nil
}

// openDenylist uses Redis when redisURL is set so revocations survive restarts
// and are shared between instances.
func openDenylist(ctx context.Context, redisURL string) (ports.TokenDenylist, func(), error) {
	if redisURL == "" {
		return tokens.NewMemoryDenylist(), func() {}, nil
	}

	client, err := tokens.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	return tokens.NewRedisDenylist(client), func() { _ = client.Close() }, nil
}
