package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/threadline/threadline-backend/api/controllers"
	"github.com/threadline/threadline-backend/api/routes"
	"github.com/threadline/threadline-backend/internal/notifications"
	"github.com/threadline/threadline-backend/internal/orders"
	"github.com/threadline/threadline-backend/internal/payments"
	"github.com/threadline/threadline-backend/pkg/cache"
	"github.com/threadline/threadline-backend/pkg/config"
	"github.com/threadline/threadline-backend/pkg/db"
	"github.com/threadline/threadline-backend/pkg/events"
	"github.com/threadline/threadline-backend/pkg/logger"
	"github.com/threadline/threadline-backend/pkg/metrics"
	"github.com/threadline/threadline-backend/pkg/migrate"
	"github.com/threadline/threadline-backend/pkg/pubsub"
	"github.com/threadline/threadline-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		store            cache.Cache
		readiness        = map[string]controllers.Pinger{}
		idempotencyStore redis.IdempotencyStore
		publishers       events.Multi
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisCache, err := cache.NewRedisCache(redisClient)
		if err != nil {
			logg.Error(ctx, "failed to create redis cache", err)
			os.Exit(1)
		}
		broadcaster, err := events.NewRedisBroadcaster(redisClient)
		if err != nil {
			logg.Error(ctx, "failed to create change event broadcaster", err)
			os.Exit(1)
		}
		store = redisCache
		readiness["redis"] = redisClient
		idempotencyStore = redisClient
		publishers = append(publishers, broadcaster)
	} else {
		memory := cache.NewMemoryCache(cache.MemoryOptions{MaxItems: cfg.Cache.MemoryMaxItems})
		defer func() { _ = memory.Close() }()
		memoryStore := cache.NewMemoryIdempotencyStore(cache.MemoryOptions{MaxItems: cfg.Cache.IdempotencyMaxItems})
		defer func() { _ = memoryStore.Close() }()
		store = memory
		idempotencyStore = memoryStore
		logg.Warn(ctx, "redis not configured, using in-process cache without change broadcasts")
	}

	if cfg.PubSub.Enabled(cfg.GCP) {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		forwarder, err := events.NewPubSubPublisher(psClient.ChangeEventsPublisher())
		if err != nil {
			logg.Error(ctx, "failed to create pubsub publisher", err)
			os.Exit(1)
		}
		readiness["pubsub"] = psClient
		publishers = append(publishers, forwarder)
	}

	notificationsRepo := notifications.NewRepository(dbClient.DB())
	recorder, err := notifications.NewRecorder(notificationsRepo, logg)
	if err != nil {
		logg.Error(ctx, "failed to create activity recorder", err)
		os.Exit(1)
	}
	publishers = append(publishers, recorder)
	emitter := events.NewEmitter(publishers, logg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	invalidator := cache.NewInvalidator(store, logg)

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repository:      orders.NewRepository(dbClient.DB()),
		Tx:              dbClient,
		Cache:           store,
		Invalidator:     invalidator,
		Emitter:         emitter,
		Numbers:         orders.NewNumberGenerator(cfg.Ledger.OrderNumberMaxAttempts),
		Metrics:         ledgerMetrics,
		Logger:          logg,
		OrderTTL:        cfg.Cache.OrderTTL,
		ListTTL:         cfg.Cache.ListTTL,
		DefaultCurrency: cfg.Ledger.DefaultCurrency,
	})
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsSvc, err := payments.NewService(payments.ServiceParams{
		Repository:  payments.NewRepository(dbClient.DB()),
		Tx:          dbClient,
		Invalidator: invalidator,
		Emitter:     emitter,
		Metrics:     ledgerMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create payments service", err)
		os.Exit(1)
	}

	notificationsSvc, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(ctx, "failed to create notifications service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			readiness,
			idempotencyStore,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ordersSvc,
			paymentsSvc,
			notificationsSvc,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}
