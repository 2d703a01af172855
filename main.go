package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khabaroff/webtestkit/src/app"
	"github.com/khabaroff/webtestkit/src/config"
	"github.com/khabaroff/webtestkit/src/database"
	"github.com/khabaroff/webtestkit/src/handlers"
	"github.com/khabaroff/webtestkit/src/logging"
	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories"
	"github.com/khabaroff/webtestkit/src/repositories/memory"
	"github.com/khabaroff/webtestkit/src/repositories/postgres"
	"github.com/khabaroff/webtestkit/src/services"
	"github.com/khabaroff/webtestkit/src/validation"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info().
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Strs("roles", cfg.Roles).
		Msg("starting server")

	// Storage: Postgres when configured, memory otherwise
	var (
		noteRepo repositories.NoteRepository
		userRepo repositories.UserRepository
		pinger   handlers.Pinger
	)
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := database.New(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()

		noteRepo = postgres.NewNoteRepository(db.GetPool())
		userRepo = postgres.NewUserRepository(db.GetPool())
		pinger = db
		log.Info().Msg("database connected")
	} else {
		noteRepo = memory.NewNoteRepository()
		userRepo = memory.NewUserRepository()
		log.Warn().Msg("DATABASE_URL not set - using in-memory storage")
	}

	sessions, err := middleware.NewSessions(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize sessions")
	}

	v := validation.New()
	noteService := services.NewNoteService(noteRepo, v)
	userService := services.NewUserService(userRepo, v)

	// Auto-seed admin user on first run (if ADMIN_EMAIL and ADMIN_PASSWORD are set)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		seedAdmin(userService, cfg.AdminEmail, cfg.AdminPassword)
	}

	if cfg.LogFormat != "pretty" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := app.NewRouter(app.Deps{
		Notes:          noteService,
		Users:          userService,
		Sessions:       sessions,
		DB:             pinger,
		Logger:         logging.NewLogger("http"),
		LoginPath:      cfg.LoginPath,
		AllowedOrigins: cfg.AllowedOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
		Roles:          cfg.Roles,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}

func seedAdmin(users *services.UserService, email, password string) {
	ctx := context.Background()

	hasUsers, err := users.HasUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to check for existing users")
		return
	}
	if hasUsers {
		return
	}

	if _, err := users.CreateUser(ctx, email, models.RoleAdmin, password); err != nil {
		log.Error().Err(err).Msg("failed to create initial admin user")
		return
	}
	log.Info().Str("email", email).Msg("initial admin user created")
}
