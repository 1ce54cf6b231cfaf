package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/config"
	"github.com/antscrawling/SupplyChainManagement/internal/domain"
	"github.com/antscrawling/SupplyChainManagement/internal/handler"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/cache"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/filestore"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/memstore"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/observability"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/postgres"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/resilience"
	"github.com/antscrawling/SupplyChainManagement/internal/port"
	"github.com/antscrawling/SupplyChainManagement/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_postgres", cfg.UsePostgres),
		zap.String("upload_dir", cfg.UploadDir),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("worker_count", cfg.WorkerCount),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "supply-chain-onboarding")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	var customerCache port.Cache[*domain.Customer]
	if cfg.RedisAddr != "" {
		logger.Info("using Redis cache", zap.String("addr", cfg.RedisAddr))
		customerCache = cache.NewRedis[*domain.Customer](cfg.RedisAddr, "onboarding", cfg.CacheTTL, logger)
	} else {
		customerCache = cache.New[*domain.Customer](cfg.CacheTTL)
	}

	// --- Stores ---
	type pingableStores interface {
		port.CustomerStore
		port.OrderStore
		port.DocumentStore
		handler.Pinger
	}

	// --- Resilience ---
	resCfg := resilience.Config{
		MaxRetries:     5,
		InitialBackoff: time.Second,
		MaxConcurrency: cfg.WorkerCount,
	}

	var store pingableStores
	if cfg.UsePostgres && cfg.DatabaseURL != "" {
		logger.Info("using Postgres as persistence backend")

		var pg *postgres.Store
		err := resilience.RetryWithBackoff(context.Background(), resCfg, func() error {
			var cerr error
			pg, cerr = postgres.Connect(context.Background(), cfg.DatabaseURL, logger)
			return cerr
		})
		if err != nil {
			logger.Fatal("failed to connect to Postgres", zap.Error(err))
		}
		defer pg.Close()

		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
		store = pg
	} else {
		logger.Info("using in-memory persistence backend")
		store = memstore.New()
	}

	// --- Document file storage ---
	files, err := filestore.New(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	// --- Service ---
	svc := service.NewOnboardingService(store, store, store, files, customerCache, metrics, logger)

	// --- Router ---
	bulkhead := resilience.NewBulkhead(resCfg.MaxConcurrency)
	router := handler.NewRouter(svc, store, bulkhead, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
