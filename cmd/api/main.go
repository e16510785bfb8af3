package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/autostore/storefront-backend/api/controllers"
	"github.com/autostore/storefront-backend/api/routes"
	cartsvc "github.com/autostore/storefront-backend/internal/cart"
	"github.com/autostore/storefront-backend/internal/catalog"
	checkoutsvc "github.com/autostore/storefront-backend/internal/checkout"
	"github.com/autostore/storefront-backend/internal/expiry"
	"github.com/autostore/storefront-backend/pkg/config"
	"github.com/autostore/storefront-backend/pkg/logger"
	"github.com/autostore/storefront-backend/pkg/metrics"
)

const shutdownGrace = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var redisClient *redis.Client
	var productCache *catalog.RedisCache
	var cachePinger controllers.Pinger
	if cfg.Redis.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logg.Error(context.Background(), "invalid redis url", err)
			os.Exit(1)
		}
		redisOpts.DialTimeout = cfg.Redis.DialTimeout
		redisOpts.ReadTimeout = cfg.Redis.ReadTimeout
		redisOpts.WriteTimeout = cfg.Redis.WriteTimeout
		redisClient = redis.NewClient(redisOpts)
		productCache = catalog.NewRedisCache(redisClient, cfg.Catalog.CacheTTL)
		cachePinger = redisPinger{client: redisClient}
	}

	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStorefrontMetrics(registry)

	catalogOpts := catalog.ClientOptions{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
		Breaker: cfg.Breaker,
		Logger:  logg,
		Metrics: storeMetrics,
	}
	if productCache != nil {
		catalogOpts.Cache = productCache
	}
	catalogClient, err := catalog.NewClient(catalogOpts)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog client", err)
		os.Exit(1)
	}

	submitter, err := checkoutsvc.NewHTTPSubmitter(checkoutsvc.SubmitterOptions{
		Endpoint: cfg.Orders.SubmitURL,
		Timeout:  cfg.Orders.Timeout,
		Breaker:  cfg.Breaker,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build order submitter", err)
		os.Exit(1)
	}

	carts := cartsvc.NewSessions()
	checkouts, err := checkoutsvc.NewSessions(carts, submitter)
	if err != nil {
		logg.Error(context.Background(), "failed to build checkout sessions", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Carts:       carts,
		Checkouts:   checkouts,
		Catalog:     catalogClient,
		Expiry:      expiry.NewService(nil, cfg.Expiry.YearWindow),
		Metrics:     storeMetrics,
		Registry:    registry,
		CachePinger: cachePinger,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "storefront api stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}

// redisPinger adapts the redis client to the readiness check.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
