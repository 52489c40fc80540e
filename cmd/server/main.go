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

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trogers1052/prediction-service/internal/api"
	"github.com/trogers1052/prediction-service/internal/cache"
	"github.com/trogers1052/prediction-service/internal/config"
	"github.com/trogers1052/prediction-service/internal/database"
	"github.com/trogers1052/prediction-service/internal/datasets"
	"github.com/trogers1052/prediction-service/internal/engine"
	"github.com/trogers1052/prediction-service/internal/kafka"
	"github.com/trogers1052/prediction-service/internal/llm"
	"github.com/trogers1052/prediction-service/internal/metrics"
	"github.com/trogers1052/prediction-service/internal/predictions"
	"github.com/trogers1052/prediction-service/internal/redis"
	"github.com/trogers1052/prediction-service/internal/retrieval"
)

const migrationsPath = "file://./db/migrations"

type worker interface {
	Start(ctx context.Context) error
	Close() error
}

func main() {
	// Load configuration
	cfg := config.Load()
	setupLogging(cfg.Log)

	log.Info().Str("cache_backend", cfg.Cache.Backend).Msg("Starting prediction service")

	deps := api.Deps{
		Datasets:          datasets.Default(),
		CacheTTL:          cfg.Cache.TTL,
		GenerationTimeout: cfg.Server.GenerationTimeout,
	}

	// Connect to database
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		if needsPostgres(cfg.Cache.Backend) {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		log.Warn().Err(err).Msg("Failed to connect to database (continuing without prediction store)")
		db = nil
	} else {
		defer db.Close()
		if err := runMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		log.Info().Msg("Connected to PostgreSQL database")
		deps.Store = db
		deps.Postgres = db
	}

	// Connect to Redis
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		if cfg.Cache.Backend == config.CacheBackendRedis {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Warn().Err(err).Msg("Failed to connect to Redis (continuing without it)")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Connected to Redis")
		deps.Redis = redisClient
	}

	store, err := newCacheStore(cfg.Cache.Backend, redisClient, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build cache store")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	eng := engine.New(cfg.Engine)
	generator := llm.New(cfg.LLM)
	if generator.Configured() {
		log.Info().Str("model", generator.Model()).Msg("Generation client configured")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set; datasets are served from cache only")
	}

	deps.Engine = eng
	deps.Generator = generator
	deps.Fetcher = retrieval.New(store, cfg.Cache, retrieval.WithObserver(m))

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workers []worker
	if db != nil {
		opts := []predictions.Option{predictions.WithRecorder(m)}
		if redisClient != nil {
			opts = append(opts, predictions.WithBroadcaster(redisClient))
		}

		if len(cfg.Kafka.Brokers) > 0 {
			producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.PredictionsTopic)
			defer producer.Close()
			opts = append(opts, predictions.WithProducer(producer))
			deps.KafkaEnabled = true
			log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", producer.Topic()).Msg("Kafka producer initialized")
		} else {
			log.Info().Msg("KAFKA_BROKERS not set; prediction events and consumers disabled")
		}

		publisher := predictions.NewPublisher(eng, db, opts...)
		deps.Publisher = publisher

		if deps.KafkaEnabled && !cfg.Kafka.ConsumersDisabled {
			workers = append(workers,
				kafka.NewSignalsConsumer(cfg.Kafka.Brokers, cfg.Kafka.SignalsTopic, cfg.Kafka.ConsumerGroup, publisher),
				kafka.NewOutcomesConsumer(cfg.Kafka.Brokers, cfg.Kafka.OutcomesTopic, cfg.Kafka.ConsumerGroup, db),
			)
		}
	}

	for _, w := range workers {
		go func(w worker) {
			if err := w.Start(ctx); err != nil {
				log.Error().Err(err).Msg("Kafka consumer stopped")
			}
		}(w)
	}

	// Set up HTTP handler and routes
	handler := api.NewHandler(deps)
	router := api.SetupRoutes(handler, promhttp.Handler())

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Cancel context to stop Kafka consumers
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	for _, w := range workers {
		if err := w.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing Kafka consumer")
		}
	}

	log.Info().Msg("Server stopped")
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func needsPostgres(backend string) bool {
	return backend == config.CacheBackendPostgres || backend == config.CacheBackendTiered
}

// newCacheStore picks the dataset cache for the configured backend. The tiered
// store reads Redis before Postgres and skips whichever is unavailable.
func newCacheStore(backend string, redisClient *redis.Client, db *database.DB) (cache.Store, error) {
	switch backend {
	case config.CacheBackendMemory:
		return cache.NewMemoryStore(), nil
	case config.CacheBackendRedis:
		if redisClient == nil {
			return nil, errors.New("redis cache backend requires a Redis connection")
		}
		return redisClient, nil
	case config.CacheBackendPostgres:
		if db == nil {
			return nil, errors.New("postgres cache backend requires a database connection")
		}
		return db, nil
	case config.CacheBackendTiered:
		var tiers []cache.Store
		if redisClient != nil {
			tiers = append(tiers, redisClient)
		}
		if db != nil {
			tiers = append(tiers, db)
		}
		if len(tiers) == 0 {
			return nil, errors.New("tiered cache backend has no reachable tier")
		}
		return cache.NewTieredStore(tiers...), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

func runMigrations(db *database.DB) error {
	driver, err := migratepg.WithInstance(db.Conn(), &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	// Apply all available migrations up to the latest version
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("No migrations to apply; database is up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info().Msg("Database migrations applied")
	return nil
}
