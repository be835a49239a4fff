package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Joyanne05/fixit-my/internal/config"
	"github.com/Joyanne05/fixit-my/internal/domain/action"
	"github.com/Joyanne05/fixit-my/internal/domain/admin"
	"github.com/Joyanne05/fixit-my/internal/domain/badge"
	"github.com/Joyanne05/fixit-my/internal/domain/report"
	"github.com/Joyanne05/fixit-my/internal/domain/user"
	"github.com/Joyanne05/fixit-my/internal/middleware"
	"github.com/Joyanne05/fixit-my/internal/pkg/database"
	"github.com/Joyanne05/fixit-my/internal/pkg/imaging"
	"github.com/Joyanne05/fixit-my/internal/pkg/jwt"
	"github.com/Joyanne05/fixit-my/internal/pkg/logger"
	"github.com/Joyanne05/fixit-my/internal/pkg/response"
	"github.com/Joyanne05/fixit-my/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, leaderboard falls back to sql")
		rdb = nil
	}
	defer database.CloseRedis(rdb)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	var photoStorage storage.Storage
	if cfg.HasS3() {
		photoStorage, err = storage.NewS3Storage(storage.Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init s3 storage")
		}
	} else {
		photoStorage, err = storage.NewLocalStorage(cfg.LocalStorageDir, "/uploads")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init local storage")
		}
		log.Warn().Str("dir", cfg.LocalStorageDir).Msg("s3 not configured, using local photo storage")
	}

	imgProcessor := imaging.NewProcessor(imaging.DefaultConfig())

	// Repositories
	userRepo := user.NewRepository(db)
	reportRepo := report.NewRepository(db)
	actionRepo := action.NewRepository(db)
	badgeRepo := badge.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// Services
	badgeEvaluator := badge.NewEvaluator(badgeRepo)
	leaderboard := action.NewLeaderboard(rdb)
	actionService := action.NewService(actionRepo, badgeEvaluator, leaderboard)
	reportService := report.NewService(reportRepo, actionService, photoStorage, imgProcessor)
	userService := user.NewService(userRepo, leaderboard)
	adminSessions := admin.NewSessionStore()
	adminService := admin.NewService(adminRepo, adminSessions)

	// Handlers
	userHandler := user.NewHandler(userService)
	reportHandler := report.NewHandler(reportService)
	actionHandler := action.NewHandler(actionService)
	badgeHandler := badge.NewHandler(badgeEvaluator)
	adminHandler := admin.NewHandler(adminService, reportService)

	authMW := middleware.Auth(jwtService)
	optionalAuthMW := middleware.OptionalAuth(jwtService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", user.AuthRoutes(userHandler, authMW))
		r.Mount("/users", user.Routes(userHandler, authMW,
			action.Routes(actionHandler, authMW),
			badge.UserRoutes(badgeHandler, authMW)))
		r.Mount("/badges", badge.Routes(badgeHandler))
		r.Mount("/reports", report.Routes(reportHandler, authMW, optionalAuthMW))
	})

	r.Mount("/api/admin", admin.Routes(adminHandler))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
