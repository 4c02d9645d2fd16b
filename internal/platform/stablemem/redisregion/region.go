// Package redisregion persists stable memory partitions in Redis. Each
// partition is a hash holding the values plus a zero-score sorted set of the
// hex-encoded keys, which ZRANGEBYLEX walks in byte order.
package redisregion

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var _ stablemem.Region = (*Region)(nil)

const (
	DefaultPrefix    = "agrovet:stable"
	defaultScanBatch = 256
	// maxIncrementAttempts bounds optimistic retries when another client
	// writes the partition between WATCH and EXEC.
	maxIncrementAttempts = 64
)

// Region maps partitions onto Redis keys under a shared prefix. Caller manages client lifecycle.
type Region struct {
	client    redis.UniversalClient
	prefix    string
	scanBatch int64
}

// NewRegion wires a Redis-backed region. An empty prefix uses DefaultPrefix.
func NewRegion(client redis.UniversalClient, prefix string) *Region {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Region{client: client, prefix: prefix, scanBatch: defaultScanBatch}
}

func (r *Region) Partition(id stablemem.MemoryID) (stablemem.Partition, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("redis stable memory region not configured")
	}
	base := fmt.Sprintf("%s:%s", r.prefix, id)
	return &partition{
		client:    r.client,
		values:    base + ":values",
		keys:      base + ":keys",
		scanBatch: r.scanBatch,
	}, nil
}

func (r *Region) Close() error { return nil }

type partition struct {
	client    redis.UniversalClient
	values    string
	keys      string
	scanBatch int64
}

func (p *partition) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, stablemem.ErrEmptyKey
	}
	value, err := p.client.HGet(ctx, p.values, hex.EncodeToString(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Put reads the previous value and writes the new one inside one MULTI block.
// A missing previous value surfaces as redis.Nil from the pipeline, so the
// write commands are checked on their own.
func (p *partition) Put(ctx context.Context, key, value []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, stablemem.ErrEmptyKey
	}
	field := hex.EncodeToString(key)
	var (
		prevCmd *redis.StringCmd
		setCmd  *redis.IntCmd
		addCmd  *redis.IntCmd
	)
	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		prevCmd = pipe.HGet(ctx, p.values, field)
		setCmd = pipe.HSet(ctx, p.values, field, value)
		addCmd = pipe.ZAdd(ctx, p.keys, redis.Z{Score: 0, Member: field})
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, false, err
	}
	if err := setCmd.Err(); err != nil {
		return nil, false, fmt.Errorf("hset %s: %w", p.values, err)
	}
	if err := addCmd.Err(); err != nil {
		return nil, false, fmt.Errorf("zadd %s: %w", p.keys, err)
	}
	prev, err := prevCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return prev, true, nil
}

// Increment runs a WATCH/MULTI transaction on the partition hash and retries
// when a concurrent writer invalidates it.
func (p *partition) Increment(ctx context.Context, key []byte, initial uint64) (uint64, error) {
	if len(key) == 0 {
		return 0, stablemem.ErrEmptyKey
	}
	field := hex.EncodeToString(key)
	var next uint64
	increment := func(tx *redis.Tx) error {
		stored, err := tx.HGet(ctx, p.values, field).Bytes()
		ok := true
		if errors.Is(err, redis.Nil) {
			ok = false
		} else if err != nil {
			return err
		}
		value, encoded, err := stablemem.NextCounter(stored, ok, initial)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, p.values, field, encoded)
			pipe.ZAdd(ctx, p.keys, redis.Z{Score: 0, Member: field})
			return nil
		})
		if err != nil {
			return err
		}
		next = value
		return nil
	}
	for attempt := 0; attempt < maxIncrementAttempts; attempt++ {
		err := p.client.Watch(ctx, increment, p.values)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("increment %s: gave up after %d conflicting attempts", p.values, maxIncrementAttempts)
}

func (p *partition) Has(ctx context.Context, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, stablemem.ErrEmptyKey
	}
	return p.client.HExists(ctx, p.values, hex.EncodeToString(key)).Result()
}

func (p *partition) Scan(ctx context.Context, fn func(key, value []byte) error) error {
	lower := "-"
	for {
		fields, err := p.client.ZRangeByLex(ctx, p.keys, &redis.ZRangeBy{
			Min:   lower,
			Max:   "+",
			Count: p.scanBatch,
		}).Result()
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		values, err := p.client.HMGet(ctx, p.values, fields...).Result()
		if err != nil {
			return err
		}
		for i, field := range fields {
			raw, ok := values[i].(string)
			if !ok {
				continue
			}
			key, err := hex.DecodeString(field)
			if err != nil {
				return fmt.Errorf("decode redis key %q: %w", field, err)
			}
			if err := fn(key, []byte(raw)); err != nil {
				return err
			}
		}
		if int64(len(fields)) < p.scanBatch {
			return nil
		}
		lower = "(" + fields[len(fields)-1]
	}
}
