package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/bonselink/inspections/internal/http/handlers"
	imw "github.com/bonselink/inspections/internal/http/middleware"
	"github.com/bonselink/inspections/internal/platform/auth"
	"github.com/bonselink/inspections/internal/repo/postgres"
	"github.com/bonselink/inspections/internal/sweep"
	"github.com/bonselink/inspections/pkg/config"
	"github.com/bonselink/inspections/pkg/database"
	"github.com/bonselink/inspections/pkg/events"
	"github.com/bonselink/inspections/pkg/logger"
	mw "github.com/bonselink/inspections/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus and redis are optional: absent config just disables them.
	var bus events.Publisher
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Warn("failed to connect to NATS, events disabled", "error", err)
		} else {
			bus = natsBus
			defer natsBus.Close()
		}
	}

	var limiter *imw.RateLimiter
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Warn("invalid redis url, rate limiting disabled", "error", err)
		} else {
			rdb := redis.NewClient(opts)
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				logger.Warn("redis ping failed, rate limiting disabled", "error", err)
			} else {
				limiter = imw.NewRateLimiter(rdb, 10, time.Minute)
			}
			pingCancel()
		}
	}

	userRepo := postgres.NewUsersRepo(pool)
	slotRepo := postgres.NewSlotsRepo(pool)

	tokens := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		cfg.Auth.JWTRefreshSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	authHandler := handlers.NewAuthHandler(userRepo, tokens, bus)
	inspectorHandler := handlers.NewInspectorHandler(slotRepo, userRepo, bus)
	userHandler := handlers.NewUserHandler(userRepo)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Frontend.URL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware())
			}
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})
		r.Post("/refresh-token", authHandler.Refresh)

		r.Get("/inspector", inspectorHandler.FindAvailable)
		r.Get("/available-warehouses", inspectorHandler.AvailableWarehouses)

		r.Group(func(r chi.Router) {
			r.Use(imw.RequireAuth(tokens))
			r.Post("/inspector", inspectorHandler.Register)
			r.Get("/my-inspections", inspectorHandler.MyInspections)
			r.Get("/user", userHandler.Me)
		})
	})

	sweeper := sweep.New(slotRepo, bus, cfg.Sweep.Hour)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
