package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sami-Ke/otlex-docs/internal/auth"
	"github.com/Sami-Ke/otlex-docs/internal/background"
	"github.com/Sami-Ke/otlex-docs/internal/config"
	"github.com/Sami-Ke/otlex-docs/internal/database"
	"github.com/Sami-Ke/otlex-docs/internal/handlers"
	middlewareCustom "github.com/Sami-Ke/otlex-docs/internal/middleware"
	"github.com/Sami-Ke/otlex-docs/internal/routes"
	"github.com/Sami-Ke/otlex-docs/internal/throttle"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if cfg.Admin.PasswordHash == "" || cfg.Admin.SessionSecret == "" {
		logger.Warn("admin credentials not fully configured; admin login will report misconfiguration")
	}

	// Throttle store: in-memory by default, Postgres-backed when the
	// deployment needs shared state across instances.
	retainFor := 2 * cfg.Throttle.Lockout
	var (
		store   throttle.Store
		db      *database.DB
		sweeper *background.CleanupManager
	)
	switch cfg.Throttle.Store {
	case "postgres":
		db, err = database.NewConnection(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pgStore, err := throttle.NewPostgresStore(ctx, db, retainFor)
		cancel()
		if err != nil {
			logger.Error("failed to initialize throttle store", slog.Any("error", err))
			os.Exit(1)
		}
		store = pgStore
		sweeper = background.NewCleanupManager(pgStore, logger, cfg.Throttle.CleanupInterval)
	default:
		store = throttle.NewMemoryStore(retainFor)
	}

	limiter := throttle.NewLimiter(store, throttle.Config{
		Window:      cfg.Throttle.Window,
		MaxAttempts: cfg.Throttle.MaxAttempts,
		Lockout:     cfg.Throttle.Lockout,
	}, logger)

	sessions := auth.NewSessionManager(cfg.Admin.SessionSecret, cfg.Admin.SessionTTL)
	timing := auth.NewTimingDelay(100*time.Millisecond, 150*time.Millisecond)

	authHandler := handlers.NewAuthHandler(&cfg.Admin, limiter, sessions, timing, logger)
	pageHandler := handlers.NewPageHandler()

	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, authHandler, pageHandler, sessions)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	if sweeper != nil {
		go sweeper.Start(sweepCtx)
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	sweepCancel()
	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
