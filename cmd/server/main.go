package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/config"
	"github.com/P3chys/studyshare-api/internal/database"
	"github.com/P3chys/studyshare-api/internal/handlers"
	"github.com/P3chys/studyshare-api/internal/logger"
	"github.com/P3chys/studyshare-api/internal/middleware"
	"github.com/P3chys/studyshare-api/internal/repository"
	"github.com/P3chys/studyshare-api/internal/router"
	"github.com/P3chys/studyshare-api/internal/services"
)

func main() {
	cfg := config.Load()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, health, err := openStore(cfg, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.Error(err))
	}

	if err := database.SeedAdmin(ctx, store.Users, cfg, logr); err != nil {
		logr.Fatal("failed to seed admin", zap.Error(err))
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemoData(ctx, store, logr); err != nil {
			logr.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	external, err := services.LoadExternalCatalog(cfg.ExternalCatalogPath)
	if err != nil {
		logr.Fatal("failed to load external catalog", zap.Error(err))
	}

	metrics := services.NewMetricsService()
	opts := services.Options{Metrics: metrics, Logger: logr, Latency: cfg.SimulatedLatency}
	deps := router.Deps{Config: cfg, Logger: logr, Metrics: metrics, Health: health}

	if storage := connectStorage(ctx, cfg, logr); storage != nil {
		opts.Files = storage
		deps.Files = storage
		deps.Health = append(deps.Health, handlers.HealthCheck{Name: "storage", Check: storage.Ping})
	}
	if search := connectSearch(ctx, cfg, logr); search != nil {
		opts.Indexer = search
		deps.Searcher = search
		deps.Health = append(deps.Health, handlers.HealthCheck{Name: "search", Check: search.Ping})
	}
	if cfg.TikaURL != "" {
		deps.Extractor = services.NewTextExtractionService(cfg)
	}
	if cfg.SMTPHost != "" {
		opts.Notifier = services.NewEmailService(cfg)
	}
	if cfg.RedisURL != "" {
		limiter, err := middleware.NewRateLimiter(cfg.RedisURL)
		if err != nil {
			logr.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer limiter.Close()
			deps.RateLimiter = limiter
			deps.Health = append(deps.Health, handlers.HealthCheck{Name: "cache", Check: limiter.Ping})
		}
	}

	deps.Service = services.NewDataService(store, external, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, logr *zap.Logger) (repository.Store, []handlers.HealthCheck, error) {
	if cfg.StoreDriver != config.StorePostgres {
		return repository.NewMemoryStore(), nil, nil
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Env != config.EnvProduction)
	if err != nil {
		return repository.Store{}, nil, err
	}
	if err := database.RunMigrations(db, logr); err != nil {
		return repository.Store{}, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return repository.Store{}, nil, err
	}
	check := handlers.HealthCheck{Name: "database", Check: sqlDB.PingContext}
	return repository.NewGormStore(db), []handlers.HealthCheck{check}, nil
}

func connectStorage(ctx context.Context, cfg *config.Config, logr *zap.Logger) *services.StorageService {
	if cfg.MinIOEndpoint == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	storage, err := services.NewStorageService(ctx, cfg)
	if err != nil {
		logr.Warn("file uploads disabled", zap.Error(err))
		return nil
	}
	return storage
}

func connectSearch(ctx context.Context, cfg *config.Config, logr *zap.Logger) *services.SearchService {
	if cfg.MeiliURL == "" {
		return nil
	}
	search := services.NewSearchService(cfg, logr)
	if err := search.Ping(ctx); err != nil {
		logr.Warn("full-text search disabled", zap.Error(err))
		return nil
	}
	return search
}
