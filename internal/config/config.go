// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Event brokers selectable with EVENT_BROKER. The empty value logs events only.
const (
	BrokerNone     = ""
	BrokerRabbitMQ = "rabbitmq"
	BrokerKafka    = "kafka"
)

// devJWTSecret signs tokens for the memory backend when JWT_SECRET is unset.
const devJWTSecret = "voyage-dev-secret"

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreBackend selects postgres, mongo or memory. Defaults to postgres.
	StoreBackend string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// MongoURI is required for mongo.
	MongoURI      string
	MongoDatabase string

	// JWTSecret signs access tokens. Required unless StoreBackend is memory.
	JWTSecret  string
	JWTTTL     time.Duration
	BCryptCost int

	// RedisAddr enables the search response cache when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	EventBroker  string
	RabbitMQURL  string
	KafkaBrokers []string
	KafkaTopic   string

	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
}

// Load reads a .env file from the working directory if one exists, then
// builds a Config from environment variables. Variables already set in the
// environment win over the file. The returned error names every missing
// required variable and every malformed value.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "voyage"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		EventBroker:   strings.ToLower(os.Getenv("EVENT_BROKER")),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		KafkaBrokers:  splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "trip-events"),
	}

	var missing, invalid []string
	p := parser{invalid: &invalid}
	cfg.JWTTTL = p.duration("JWT_TTL", 24*time.Hour)
	cfg.BCryptCost = p.int("BCRYPT_COST", 10)
	cfg.RedisDB = p.int("REDIS_DB", 0)
	cfg.CacheTTL = p.duration("CACHE_TTL", 5*time.Minute)
	cfg.RateLimitRPS = p.float("RATE_LIMIT_RPS", 5)
	cfg.RateLimitBurst = p.int("RATE_LIMIT_BURST", 10)
	cfg.MaxBodyBytes = int64(p.int("MAX_BODY_BYTES", 1<<20))

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	case BackendMemory:
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
	default:
		invalid = append(invalid, "STORE_BACKEND")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	switch cfg.EventBroker {
	case BrokerNone:
	case BrokerRabbitMQ:
		if cfg.RabbitMQURL == "" {
			missing = append(missing, "RABBITMQ_URL")
		}
	case BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			missing = append(missing, "KAFKA_BROKERS")
		}
	default:
		invalid = append(invalid, "EVENT_BROKER")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", ")))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// parser reads typed variables, collecting the names of malformed ones.
type parser struct {
	invalid *[]string
}

func (p parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return n
}

func (p parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return f
}

func (p parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*p.invalid = append(*p.invalid, key)
		return fallback
	}
	return d
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
