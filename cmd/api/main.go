// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kostapp/kost-api/internal/admin"
	"github.com/kostapp/kost-api/internal/authz"
	"github.com/kostapp/kost-api/internal/config"
	"github.com/kostapp/kost-api/internal/core"
	"github.com/kostapp/kost-api/internal/cron"
	"github.com/kostapp/kost-api/internal/dashboard"
	"github.com/kostapp/kost-api/internal/export"
	"github.com/kostapp/kost-api/internal/health"
	"github.com/kostapp/kost-api/internal/identity"
	"github.com/kostapp/kost-api/internal/kost"
	"github.com/kostapp/kost-api/internal/ledger"
	"github.com/kostapp/kost-api/internal/middleware"
	"github.com/kostapp/kost-api/internal/profile"
	"github.com/kostapp/kost-api/internal/region"
	"github.com/kostapp/kost-api/internal/server"
	"github.com/kostapp/kost-api/internal/tenant"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	verifier, err := identity.NewVerifier(ctx, cfg.Firebase)
	if err != nil {
		return err
	}
	logger.Info("identity verifier initialized",
		"project_id", cfg.Firebase.ProjectID,
	)
	directory := identity.NewDirectory(cfg.Firebase.APIKey)

	authzRepo := authz.NewRepository(db.DB)
	resolver := authz.NewResolver(authzRepo)
	failsafe := authz.NewFailsafe(authzRepo)
	authzHandler := authz.NewHandler(failsafe)

	profileRepo := profile.NewRepository(db.DB)
	profileSvc := profile.NewService(profileRepo, directory)
	profileHandler := profile.NewHandler(profileSvc)

	regionRepo := region.NewRepository(db.DB)
	regionSvc := region.NewService(regionRepo)
	regionHandler := region.NewHandler(regionSvc, resolver)

	kostRepo := kost.NewRepository(db.DB)
	kostSvc := kost.NewService(kostRepo)
	kostHandler := kost.NewHandler(kostSvc, resolver)

	tenantRepo := tenant.NewRepository(db.DB)
	tenantSvc := tenant.NewService(tenantRepo)
	tenantHandler := tenant.NewHandler(tenantSvc, resolver)

	ledgerRepo := ledger.NewRepository(db.DB)
	ledgerHandler := ledger.NewHandler(ledgerRepo, tenantSvc, resolver)

	dashboardRepo := dashboard.NewRepository(db.DB)
	dashboardSvc := dashboard.NewService(dashboardRepo, ledgerRepo)
	dashboardHandler := dashboard.NewHandler(dashboardSvc, resolver)

	exportRepo := export.NewRepository(db.DB)
	exportHandler := export.NewHandler(exportRepo, resolver)

	cronHandler := cron.NewHandler(cfg.Cron.Secret, tenantSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			KeyFunc:  middleware.KeyBySubject,
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	cronHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(verifier)
	ownerOnly := authz.RequireOwner(resolver)

	router.Route("/v1", func(r chi.Router) {
		authzHandler.RegisterRoutes(r, authenticator)
		profileHandler.RegisterRoutes(r, authenticator)
		regionHandler.RegisterRoutes(r, authenticator)
		kostHandler.RegisterRoutes(r, authenticator)
		tenantHandler.RegisterRoutes(r, authenticator)
		ledgerHandler.RegisterRoutes(r, authenticator)
		dashboardHandler.RegisterRoutes(r, authenticator)
		exportHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, ownerOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
