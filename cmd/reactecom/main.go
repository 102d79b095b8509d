// Command reactecom runs the e-commerce backend: the public API on one
// port and the health/metrics endpoints on another.
package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/KeenIsHere/reactecom/pkg/api"
	"github.com/KeenIsHere/reactecom/pkg/audit"
	"github.com/KeenIsHere/reactecom/pkg/auth"
	"github.com/KeenIsHere/reactecom/pkg/catalog"
	"github.com/KeenIsHere/reactecom/pkg/config"
	"github.com/KeenIsHere/reactecom/pkg/database"
	"github.com/KeenIsHere/reactecom/pkg/middleware"
	"github.com/KeenIsHere/reactecom/pkg/observability"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger settings live in the config that failed to load.
		fallback := observability.NewLogger(observability.ErrorLevel, os.Stderr)
		fallback.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.ParseLevel(cfg.Logging.Level), os.Stdout)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *observability.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	dialect := cfg.Database.Dialect()
	migrations := append(auth.Migrations(dialect), catalog.Migrations(dialect)...)
	migrations = append(migrations, audit.Migrations(dialect)...)
	if err := database.Migrate(ctx, db, migrations); err != nil {
		return err
	}
	logger.WithField("driver", cfg.Database.Driver).Info("Database ready")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Cache loss only degrades catalog reads, so start anyway.
			logger.WithError(err).Warn("Redis unreachable, catalog cache disabled")
			redisClient.Close()
			redisClient = nil
		}
	}

	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Logging.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	authStore := auth.NewSQLStore(db, cfg.Auth.StoreTimeout)
	registration := auth.NewRegistrationService(authStore, hasher, logger)
	login := auth.NewLoginService(authStore, hasher, auth.NewTokenGenerator(), logger)
	resolver := auth.NewResolver(authStore, cfg.Auth.ResolverCacheSize)
	recorder := audit.NewRecorder(db, logger)
	authn := middleware.NewAuthenticator(resolver, recorder, logger, metrics)

	var catalogStore catalog.Store = catalog.NewSQLStore(db, cfg.Auth.StoreTimeout)
	if redisClient != nil {
		catalogStore = catalog.NewCachedStore(catalogStore, redisClient, cfg.Redis.ListTTL, logger, metrics)
	}

	authHandlers := api.NewAuthHandlers(registration, login, recorder, logger, metrics)
	catalogHandlers := api.NewCatalogHandlers(catalogStore, authn, recorder, logger, metrics)

	server := api.NewServer(api.ServerConfig{
		Addr:           net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, authHandlers, catalogHandlers, logger, metrics)

	healthServer := newHealthServer(cfg, db, redisClient, registry)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(server.Start)
	group.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("Health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		healthServer.Shutdown(shutdownCtx)
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func newHealthServer(cfg *config.Config, db *sql.DB, redisClient *redis.Client, registry *prometheus.Registry) *http.Server {
	checker := observability.NewHealthChecker(db, redisClient)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", checker.Liveness)
	healthMux.HandleFunc("/readyz", checker.Readiness)
	if cfg.Logging.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}

	return &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
