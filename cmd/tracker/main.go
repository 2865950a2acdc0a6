package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/alcohol-tracker/docs"
	"github.com/tair/alcohol-tracker/internal/catalog"
	catalogdomain "github.com/tair/alcohol-tracker/internal/catalog/domain"
	"github.com/tair/alcohol-tracker/internal/catalog/store"
	"github.com/tair/alcohol-tracker/internal/config"
	"github.com/tair/alcohol-tracker/internal/drink"
	drinkdomain "github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/internal/drink/repository"
	"github.com/tair/alcohol-tracker/kafka"
	"github.com/tair/alcohol-tracker/pkg/auth"
	"github.com/tair/alcohol-tracker/pkg/cache"
	"github.com/tair/alcohol-tracker/pkg/database"
	"github.com/tair/alcohol-tracker/pkg/health"
	"github.com/tair/alcohol-tracker/pkg/logger"
	"github.com/tair/alcohol-tracker/pkg/middleware"
	"github.com/tair/alcohol-tracker/pkg/ratelimit"
	"github.com/tair/alcohol-tracker/pkg/tracing"
)

// eventPublisher is satisfied by both the Kafka publisher and its no-op stand-in
type eventPublisher interface {
	catalogdomain.RefreshNotifier
	drinkdomain.EntryPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting alcohol tracker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	var tp trace.TracerProvider
	if cfg.TracingEnabled {
		tp, err = tracing.InitTracer(cfg.Tracing())
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		}
	}

	// Database
	db, err := database.NewGormConnection(cfg.Database())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := repository.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	seeded, err := repository.Seed(ctx, db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to seed drinks")
	}
	logger.Logger.Info().Int("seeded_drinks", seeded).Msg("Database initialized successfully")

	// Redis is optional unless the catalog lives there
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			if cfg.CatalogStore == config.StoreRedis {
				logger.Logger.Fatal().Err(err).Msg("Redis is required for the catalog store")
			}
			logger.Logger.Warn().Err(err).Msg("Redis unavailable, falling back to in-process state")
		} else {
			defer redisClient.Close()
		}
	}

	var snapshots catalogdomain.SnapshotStore
	if cfg.CatalogStore == config.StoreRedis {
		snapshots = store.NewRedisStore(redisClient, cfg.CatalogTTL)
	} else {
		snapshots = store.NewFileStore(cfg.CatalogCachePath, cfg.CatalogTTL)
	}
	logger.Logger.Info().
		Str("store", cfg.CatalogStore).
		Str("cache_path", cfg.CatalogCachePath).
		Dur("ttl", cfg.CatalogTTL).
		Msg("Catalog store selected")

	// Events
	instanceID := cfg.InstanceID
	publisher := newPublisher(cfg, instanceID)
	defer publisher.Close()

	// Rate limiting of catalog search
	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	if tokens == nil {
		logger.Logger.Warn().Msg("JWT_SECRET is not set, admin endpoints are open")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize handlers with Wire DI
	cat, err := catalog.InitializeCatalog(catalog.Settings{
		URL:          cfg.CatalogURL,
		TTL:          cfg.CatalogTTL,
		FetchTimeout: cfg.CatalogFetchTimeout,
	}, snapshots, publisher, tokens, ratelimit.Middleware(limiter), registry)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize catalog")
	}

	drinkHandler, err := drink.InitializeHTTPHandler(db, publisher, tokens, registry)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize drink handler")
	}
	drinkHandler.RefreshGauges(ctx)

	if consumer := startConsumer(ctx, cfg, instanceID, cat); consumer != nil {
		defer consumer.Close()
	}

	// Warm the catalog from the store or the feed without blocking startup
	go func() {
		if _, err := cat.Lookup.Refresh(ctx, false); err != nil {
			logger.Logger.Warn().Err(err).Msg("Initial catalog load failed, will retry on first request")
		}
	}()

	checker := health.NewChecker(cfg.ServiceName, 3*time.Second)
	checker.Register("database", func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	})
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	checker.Register("catalog", catalogCheck(cat))

	router := mux.NewRouter()
	mwConfig := middleware.DefaultConfig(cfg.ServiceName, cfg.CORSAllowedOrigins)
	middleware.Register(router, mwConfig)

	drinkHandler.RegisterRoutes(router)
	cat.Handler.RegisterRoutes(router)

	router.HandleFunc("/health", checker.Handler()).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	docs.SwaggerInfo.Host = "localhost:" + strconv.Itoa(cfg.HTTPPort)
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           middleware.CORS(mwConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Int("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if tp != nil {
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
		}
	}
	logger.Logger.Info().Msg("Server stopped")
}

func newPublisher(cfg *config.Config, instanceID string) eventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, events disabled")
		return kafka.NoopPublisher{}
	}
	p, err := kafka.NewPublisher(cfg.KafkaBrokers, instanceID)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable, events disabled")
		return kafka.NoopPublisher{}
	}
	return p
}

// startConsumer reloads the local catalog whenever another instance refreshes it
func startConsumer(ctx context.Context, cfg *config.Config, instanceID string, cat *catalog.Catalog) *kafka.Consumer {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	// one group per instance so every replica sees every refresh; the id is
	// stable across restarts of the same host
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup+"-"+instanceID, instanceID)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, catalog reloads are local only")
		return nil
	}
	consumer.OnCatalogRefreshed(func(ctx context.Context, _ kafka.CatalogRefreshedEvent) error {
		return cat.Lookup.Reload(ctx)
	})
	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to start Kafka consumer")
		consumer.Close()
		return nil
	}
	return consumer
}

func catalogCheck(cat *catalog.Catalog) health.CheckFunc {
	return func(context.Context) error {
		if cat.Lookup.Snapshot() == nil {
			if cat.Fetcher.BreakerState() == gobreaker.StateOpen {
				return errors.New("catalog feed circuit open and no snapshot loaded")
			}
			return errors.New("catalog not loaded")
		}
		if !cat.Lookup.Fresh() {
			return errors.New("catalog snapshot is stale")
		}
		return nil
	}
}
