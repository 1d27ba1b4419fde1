package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundry_backend/internal/addresses"
	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/geocode"
	apphttp "laundry_backend/internal/http"
	"laundry_backend/internal/http/router"
	"laundry_backend/internal/maps"
	"laundry_backend/internal/requesttoken"
	"laundry_backend/internal/resolver"
	"laundry_backend/platform/config"
	"laundry_backend/platform/db"
	"laundry_backend/platform/logger"
	"laundry_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := cfg.RequireServer(); err != nil {
		panic("invalid server config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	tokens, closeTokens := initTokenStore(ctx, cfg, log)
	defer closeTokens()

	store, err := gazetteer.NewStore(cfg.GetGazetteerPath(), log)
	if err != nil {
		log.Error("failed to load gazetteer", "error", err, "path", cfg.GetGazetteerPath())
		panic("failed to load gazetteer: " + err.Error())
	}
	if err := store.Watch(ctx); err != nil {
		log.Warn("gazetteer hot reload disabled", "error", err)
	}
	log.Info("gazetteer loaded", "locale", store.Current().Locale(), "estates", len(store.Current().Estates()))

	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	resolverSvc := resolver.NewService(geocode.New(cfg, log), store, log)
	mapsModule := maps.NewModule(resolverSvc, tokens, log)
	addressesModule := addresses.NewModule(pool, store, val, cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			mapsModule,
			addressesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initTokenStore shares request tokens through Redis when configured, so
// stale responses are detected across replicas.
func initTokenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (requesttoken.Store, func()) {
	ttl := cfg.GetSearchTokenTTL()
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; request tokens are kept in process")
		return requesttoken.NewMemory(ttl), func() {}
	}

	client, err := requesttoken.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis; request tokens are kept in process", "error", err)
		return requesttoken.NewMemory(ttl), func() {}
	}

	return requesttoken.NewRedis(client, ttl), func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
