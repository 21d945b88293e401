package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/eventbook/internal/catalog"
	"github.com/mmynk/eventbook/internal/config"
	"github.com/mmynk/eventbook/internal/metrics"
	"github.com/mmynk/eventbook/internal/middleware"
	"github.com/mmynk/eventbook/internal/service"
	"github.com/mmynk/eventbook/internal/storage"
	"github.com/mmynk/eventbook/internal/storage/memory"
	"github.com/mmynk/eventbook/internal/storage/sqlite"
	"github.com/mmynk/eventbook/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Configure(cfg.LogLevel, cfg.LogFormat)

	store, err := openStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var loaderOpts []catalog.Option
	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		loaderOpts = append(loaderOpts, catalog.WithRedisCache(rdb, cfg.CatalogCacheTTL))
		slog.Info("Catalog cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	}

	m := metrics.New()
	svc := service.NewEventService(store, catalog.NewLoader(store, loaderOpts...),
		service.WithVATRate(cfg.VATRate),
		service.WithConcurrency(cfg.SaveConcurrency),
		service.WithLogger(logger),
		service.WithMetrics(m),
	)

	mux := http.NewServeMux()
	path, handler := service.NewHandler(svc,
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.MetricsInterceptor(m)),
	)
	mux.Handle(path, handler)
	mux.Handle("/metrics", m.Handler())

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           h2c.NewHandler(middleware.Logging(middleware.CORS(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Connect server starting", "address", cfg.AppAddr, "vat_rate", cfg.VATRate)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}

func openStore(dbPath string) (storage.Store, error) {
	if dbPath == config.MemoryDB {
		return memory.New(), nil
	}
	return sqlite.New(dbPath)
}
