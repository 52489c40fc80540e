package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Engine   EngineConfig
	LLM      LLMConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
	// GenerationTimeout bounds a dataset request that has to regenerate.
	GenerationTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka/Redpanda configuration. An empty broker list
// disables the producer and both consumers.
type KafkaConfig struct {
	Brokers           []string
	PredictionsTopic  string
	SignalsTopic      string
	OutcomesTopic     string
	ConsumerGroup     string
	ConsumersDisabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Cache backends.
const (
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
	CacheBackendMemory   = "memory"
	CacheBackendTiered   = "tiered"
)

// DefaultCacheTTL is how long a generated dataset is served from cache.
const DefaultCacheTTL = 15 * time.Minute

// CacheConfig holds dataset cache configuration
type CacheConfig struct {
	Backend string
	TTL     time.Duration
	// DedupeInFlight collapses concurrent regenerations of the same key.
	DedupeInFlight bool
}

// Engine defaults.
const (
	DefaultConvergenceThreshold = 4
	DefaultPublishThreshold     = 70
	DefaultHighTier             = 80
	DefaultMediumTier           = 70
)

// EngineConfig holds the convergence and confidence thresholds
type EngineConfig struct {
	// ConvergenceThreshold is the minimum number of active signals.
	ConvergenceThreshold int
	// PublishThreshold is the minimum confidence for a prediction to be emitted.
	PublishThreshold int
	HighTier         int
	MediumTier       int
}

// DefaultEngineConfig returns the production thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ConvergenceThreshold: DefaultConvergenceThreshold,
		PublishThreshold:     DefaultPublishThreshold,
		HighTier:             DefaultHighTier,
		MediumTier:           DefaultMediumTier,
	}
}

// LLMConfig holds the generation service configuration
type LLMConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond int
	MaxRetryElapsed   time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables, after applying a .env file if present
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8081"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),

			GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 90*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "predictor"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "prediction_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:           parseBrokers(getEnv("KAFKA_BROKERS", "")),
			PredictionsTopic:  getEnv("KAFKA_PREDICTIONS_TOPIC", "predictions.created"),
			SignalsTopic:      getEnv("KAFKA_SIGNALS_TOPIC", "predictions.signals"),
			OutcomesTopic:     getEnv("KAFKA_OUTCOMES_TOPIC", "predictions.outcomes"),
			ConsumerGroup:     getEnv("KAFKA_CONSUMER_GROUP", "prediction-service"),
			ConsumersDisabled: getEnvBool("KAFKA_CONSUMERS_DISABLED", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Backend:        strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendTiered)),
			TTL:            getEnvDuration("CACHE_TTL", DefaultCacheTTL),
			DedupeInFlight: getEnvBool("CACHE_DEDUPE_INFLIGHT", false),
		},
		Engine: EngineConfig{
			ConvergenceThreshold: getEnvInt("ENGINE_CONVERGENCE_THRESHOLD", DefaultConvergenceThreshold),
			PublishThreshold:     getEnvInt("ENGINE_PUBLISH_THRESHOLD", DefaultPublishThreshold),
			HighTier:             getEnvInt("ENGINE_HIGH_TIER", DefaultHighTier),
			MediumTier:           getEnvInt("ENGINE_MEDIUM_TIER", DefaultMediumTier),
		},
		LLM: LLMConfig{
			APIKey:            getEnv("OPENAI_API_KEY", ""),
			BaseURL:           getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:             getEnv("OPENAI_MODEL", "gpt-4.1"),
			Timeout:           getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
			RequestsPerSecond: getEnvInt("OPENAI_REQUESTS_PER_SECOND", 2),
			MaxRetryElapsed:   getEnvDuration("OPENAI_MAX_RETRY_ELAPSED", 45*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

// Address returns the Redis address in host:port format
func (r *RedisConfig) Address() string {
	return r.Host + ":" + r.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer, using default")
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("90s", "15m") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
	return defaultValue
}

// parseBrokers splits a comma-separated broker list
func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
