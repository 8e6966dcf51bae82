package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/config"
	"catalog-service/internal/delivery/http/middleware"
	v1 "catalog-service/internal/delivery/http/v1"
	"catalog-service/internal/domain"
	"catalog-service/internal/infrastructure/cache"
	"catalog-service/internal/repository/memory"
	sqlcrepo "catalog-service/internal/repository/sqlc"
	"catalog-service/internal/usecase"
	pkgcache "catalog-service/pkg/cache"
	"catalog-service/pkg/logger"
	"catalog-service/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

const (
	serviceName    = "catalog-service"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "CRITICAL:", err)
		os.Exit(1)
	}

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Repository for the configured storage driver
	productRepo, closeRepo, err := openProductRepository(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.StorageDriver).Msg("Failed to initialize storage")
	}
	defer closeRepo()

	catalogUC := usecase.NewCatalogUsecase(productRepo, cfg.QueryTimeout)
	productHandler := v1.NewProductHandler(catalogUC)

	// Set up Router
	mux := http.NewServeMux()
	productHandler.Register(mux)

	// Health Check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": cfg.StorageDriver})
	})

	rateLimiter := middleware.NewRateLimiter(context.Background(), cfg)

	// CORS, Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, serviceVersion, cfg.Port, cfg.StorageDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}

// openProductRepository returns the repository for cfg.StorageDriver and a
// func that releases its resources.
func openProductRepository(ctx context.Context, cfg *config.Config) (domain.ProductRepository, func(), error) {
	log := logger.Get()

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := sqlcrepo.NewPgxPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		db := sqlcrepo.FromPgx(pool)
		if err := sqlcrepo.EnsureSchema(ctx, db, sqlcrepo.Postgres); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("Successfully connected to PostgreSQL via pgx")
		return sqlcrepo.NewProductRepository(db, sqlcrepo.Postgres), pool.Close, nil

	case config.StorageSQLite:
		sqlDB, err := sqlcrepo.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		db := sqlcrepo.FromSQL(sqlDB)
		if err := sqlcrepo.EnsureSchema(ctx, db, sqlcrepo.SQLite); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite database")
		return sqlcrepo.NewProductRepository(db, sqlcrepo.SQLite), func() { sqlDB.Close() }, nil

	default:
		store := cache.NewMemoryCache(pkgcache.NoExpiration, 0)
		log.Info().Msg("Using in-memory product store")
		return memory.NewProductRepository(store), store.Flush, nil
	}
}
