package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
)

const (
	DefaultLockKey = "agrovet:command-lock"
	DefaultLockTTL = 10 * time.Second
)

// ErrBusy is returned when the command lease could not be obtained before the
// retry budget ran out.
var ErrBusy = errors.New("command lock is held by another process")

var _ Serializer = (*RedisLock)(nil)

// RedisLock extends Local with a Redis lease so that several processes
// sharing one durable region still apply mutating commands one at a time.
// Reads only take the local lock; every single-partition write is atomic on
// the shared backends.
type RedisLock struct {
	local  Local
	locker *redislock.Client
	key    string
	ttl    time.Duration
	retry  redislock.RetryStrategy
	logger *slog.Logger
}

type RedisLockOption func(*RedisLock)

func WithLockKey(key string) RedisLockOption {
	return func(l *RedisLock) {
		if key != "" {
			l.key = key
		}
	}
}

// WithLockTTL sets the lease length. It must exceed the slowest command.
func WithLockTTL(ttl time.Duration) RedisLockOption {
	return func(l *RedisLock) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithRetryStrategy(retry redislock.RetryStrategy) RedisLockOption {
	return func(l *RedisLock) {
		if retry != nil {
			l.retry = retry
		}
	}
}

func WithLogger(logger *slog.Logger) RedisLockOption {
	return func(l *RedisLock) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewRedisLock(client redislock.RedisClient, opts ...RedisLockOption) *RedisLock {
	l := &RedisLock{
		locker: redislock.New(client),
		key:    DefaultLockKey,
		ttl:    DefaultLockTTL,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(25*time.Millisecond), 200),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *RedisLock) Exclusive(ctx context.Context, fn func(context.Context) error) error {
	return l.local.Exclusive(ctx, func(ctx context.Context) error {
		lock, err := l.locker.Obtain(ctx, l.key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
		if errors.Is(err, redislock.ErrNotObtained) {
			return fmt.Errorf("%w: %s", ErrBusy, l.key)
		}
		if err != nil {
			return fmt.Errorf("obtain command lock: %w", err)
		}
		defer func() {
			// a fresh context so that a cancelled command still frees the lease
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.logger.Warn("release command lock", slog.String("key", l.key), slog.String("error", err.Error()))
			}
		}()
		return fn(ctx)
	})
}

func (l *RedisLock) Shared(ctx context.Context, fn func(context.Context) error) error {
	return l.local.Shared(ctx, fn)
}
