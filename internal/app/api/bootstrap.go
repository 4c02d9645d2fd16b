package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/agrovet-registry/internal/app/state"
	"github.com/Apurer/agrovet-registry/internal/platform/dispatch"
	"github.com/Apurer/agrovet-registry/internal/platform/kafka"
	platformpostgres "github.com/Apurer/agrovet-registry/internal/platform/postgres"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/dynamoregion"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/pgregion"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/redisregion"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

// Runtime is the opened state plus every connection that must be released on exit.
type Runtime struct {
	State   *state.State
	Backend string

	cleanups []func()
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
	r.cleanups = nil
}

func (r *Runtime) onClose(fn func()) {
	r.cleanups = append(r.cleanups, fn)
}

// Bootstrap opens the configured stable memory region and builds the state
// over it. A configured durable backend or Redis command lock that cannot be
// reached is a startup error: serving from an empty memory region would
// restart ids at 1 over data that already exists elsewhere.
func Bootstrap(ctx context.Context, cfg Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{}
	redisClient, err := connectRedis(ctx, cfg, logger, rt)
	if err != nil {
		return nil, err
	}

	region, err := openRegion(ctx, cfg, redisClient, logger, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Backend = cfg.StorageBackend
	if rt.Backend == "" {
		rt.Backend = BackendMemory
	}

	serializer, err := buildSerializer(cfg, redisClient, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	opts := []state.Option{
		state.WithSerializer(serializer),
		state.WithPublisher(buildPublisher(cfg, logger, rt)),
	}
	st, err := state.Open(ctx, region, opts...)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open %s state: %w", rt.Backend, err)
	}
	rt.State = st
	rt.onClose(func() { _ = st.Close() })
	logger.Info("stable memory opened", slog.String("backend", rt.Backend))
	return rt, nil
}

// connectRedis returns nil when no address is configured, or when Redis is
// unreachable and nothing depends on it.
func connectRedis(ctx context.Context, cfg Config, logger *slog.Logger, rt *Runtime) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := client.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		_ = client.Close()
		if cfg.StorageBackend == BackendRedis || cfg.CommandLock == LockRedis {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Warn("redis unreachable", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		return nil, nil
	}
	rt.onClose(func() { _ = client.Close() })
	return client, nil
}

func openRegion(ctx context.Context, cfg Config, redisClient *redis.Client, logger *slog.Logger, rt *Runtime) (stablemem.Region, error) {
	switch cfg.StorageBackend {
	case BackendPostgres:
		db, cleanup, err := platformpostgres.ConnectAndMigrate(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres region: %w", err)
		}
		rt.onClose(cleanup)
		return pgregion.NewRegion(db), nil
	case BackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("open redis region: REDIS_ADDR is not set")
		}
		return redisregion.NewRegion(redisClient, cfg.RedisPrefix), nil
	case BackendDynamoDB:
		client, err := dynamoregion.NewClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, fmt.Errorf("open dynamodb region: %w", err)
		}
		region := dynamoregion.NewRegion(client, cfg.DynamoTable)
		if err := region.EnsureTable(ctx); err != nil {
			return nil, fmt.Errorf("open dynamodb region: %w", err)
		}
		return region, nil
	case BackendMemory, "":
		return inmem.NewRegion(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func buildSerializer(cfg Config, redisClient *redis.Client, logger *slog.Logger) (dispatch.Serializer, error) {
	if cfg.CommandLock != LockRedis {
		return dispatch.NewLocal(), nil
	}
	if redisClient == nil {
		return nil, fmt.Errorf("redis command lock requested but REDIS_ADDR is not set")
	}
	logger.Info("redis command lock enabled", slog.String("key", cfg.LockKey))
	return dispatch.NewRedisLock(redisClient, dispatch.WithLockKey(cfg.LockKey), dispatch.WithLogger(logger)), nil
}

func buildPublisher(cfg Config, logger *slog.Logger, rt *Runtime) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Noop{}
	}
	publisher := kafka.NewPublisher(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger), logger)
	rt.onClose(func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to flush kafka publisher", slog.String("error", err.Error()))
		}
	})
	logger.Info("publishing domain events to kafka", slog.String("topic", cfg.KafkaTopic))
	return publisher
}
