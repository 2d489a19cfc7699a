package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/camden-git/personsweb/client"
	"github.com/camden-git/personsweb/config"
	"github.com/camden-git/personsweb/database"
	"github.com/camden-git/personsweb/handlers"
	"github.com/camden-git/personsweb/logging"
	"github.com/camden-git/personsweb/repository"
	"github.com/camden-git/personsweb/views"
	"github.com/camden-git/personsweb/workers"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	if envErr != nil {
		sugar.Infof("No .env file found or error loading: %v", envErr)
	}

	if err := run(cfg, logger); err != nil {
		sugar.Errorf("Server stopped with error: %v", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newSessionRepository(cfg config.Config, logger *zap.Logger) (repository.SessionRepository, func(), error) {
	if cfg.SessionStore != config.SessionStoreSQLite {
		return repository.NewMemorySessionRepository(), func() {}, nil
	}

	db, err := database.InitGormDB(cfg.SessionDBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize session database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repository.NewGormSessionRepository(db), closeDB, nil
}

func run(cfg config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()

	sessions, closeSessions, err := newSessionRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	renderer, err := views.New()
	if err != nil {
		return err
	}

	api := client.New(cfg.APIBaseURL, client.WithTimeout(cfg.APITimeout), client.WithLogger(logger))

	sugar.Infof("Using persons API at %s", cfg.APIBaseURL)
	sugar.Infof("Session store: %s (ttl %s)", cfg.SessionStore, cfg.SessionTTL)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StdLog(logger, "http"),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Get("/healthz", handlers.Health)

	pageHandler := handlers.NewPersonPageHandler(api, sessions, renderer, logger)
	pageHandler.Register(r)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     logging.StdLog(logger, "http"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infof("Server listening on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	sweeper := workers.NewSessionSweeper(sessions, cfg.SessionTTL, cfg.SessionSweepInterval, logger)
	g.Go(func() error {
		return sweeper.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
