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

	"vegist/internal/api"
	"vegist/internal/cache"
	"vegist/internal/config"
	"vegist/internal/database"
	"vegist/internal/storefront"
	"vegist/internal/store"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	slog.Info("Starting Vegist API", "port", cfg.HTTPPort, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open document store", "error", err)
		closeStore()
		os.Exit(1)
	}
	defer closeStore()

	var opts []storefront.Option
	var redisClient *cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewClient(cfg.RedisAddr)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			closeStore()
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
		opts = append(opts, storefront.WithCache(redisClient, cfg.CatalogCacheTTL))
	}

	svc := storefront.NewService(repo, opts...)
	handler := api.NewHandler(svc)
	if redisClient != nil {
		handler.WithRateLimit(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow).
			WithHealthCheck("cache", redisClient)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           api.NewRouter(handler, api.DefaultCORSConfig(cfg.AllowedOrigins)),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			closeStore()
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}
}

// openStore connects the configured repository. The Mongo handle is
// established here, once, and shared by every request.
func openStore(ctx context.Context, cfg *config.Config) (store.Repository, func(), error) {
	if cfg.StoreDriver == "memory" {
		slog.Warn("Using in-memory store; data is lost on exit")
		return store.NewMemoryStore(), func() {}, nil
	}

	provider := database.NewProvider(database.Options{
		URI:        cfg.StoreURI(),
		Name:       cfg.DBName,
		Attempts:   cfg.ConnectAttempts,
		RetryDelay: cfg.ConnectRetryDelay,
	})
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Close(ctx); err != nil {
			slog.Warn("Document store disconnect failed", "error", err)
		}
	}

	db, err := provider.Database(ctx)
	if err != nil {
		return nil, closeFn, err
	}
	if cfg.EnsureIndexes {
		if err := database.EnsureIndexes(ctx, db); err != nil {
			return nil, closeFn, err
		}
		slog.Info("Unique indexes ensured")
	}
	return store.NewMongoStore(db, cfg.StoreOpTimeout), closeFn, nil
}
