package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/agrovet-registry/internal/platform/dispatch"
	"github.com/Apurer/agrovet-registry/internal/platform/kafka"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/dynamoregion"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/redisregion"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

// Command lock modes accepted by COMMAND_LOCK.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// Config carries environment-driven settings for the API, worker and audit processes.
type Config struct {
	Port string

	StorageBackend string
	PostgresDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	DynamoTable    string
	DynamoEndpoint string
	AWSRegion      string

	KafkaBrokers []string
	KafkaTopic   string

	CommandLock string
	LockKey     string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:       envDefault("REDIS_PREFIX", redisregion.DefaultPrefix),
		DynamoTable:       envDefault("DYNAMODB_TABLE", dynamoregion.DefaultTable),
		DynamoEndpoint:    strings.TrimSpace(os.Getenv("DYNAMODB_ENDPOINT")),
		AWSRegion:         strings.TrimSpace(os.Getenv("AWS_REGION")),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_TOPIC", kafka.DefaultTopic),
		CommandLock:       strings.ToLower(envDefault("COMMAND_LOCK", LockLocal)),
		LockKey:           envDefault("COMMAND_LOCK_KEY", dispatch.DefaultLockKey),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_BACKEND")))
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendMemory
		if cfg.PostgresDSN != "" {
			cfg.StorageBackend = BackendPostgres
		}
	}
	switch cfg.StorageBackend {
	case BackendMemory, BackendDynamoDB:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required when STORAGE_BACKEND=%s", BackendPostgres)
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when STORAGE_BACKEND=%s", BackendRedis)
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be one of memory, postgres, redis, dynamodb")
	}

	if strings.Contains(cfg.PostgresDSN, "://") {
		if _, err := pq.ParseURL(cfg.PostgresDSN); err != nil {
			return Config{}, fmt.Errorf("POSTGRES_DSN is not a valid postgres URL: %w", err)
		}
	}

	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return Config{}, fmt.Errorf("REDIS_DB must be a non-negative integer")
		}
		cfg.RedisDB = db
	}

	switch cfg.CommandLock {
	case LockLocal:
	case LockRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required when COMMAND_LOCK=%s", LockRedis)
		}
	default:
		return Config{}, fmt.Errorf("COMMAND_LOCK must be local or redis")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
