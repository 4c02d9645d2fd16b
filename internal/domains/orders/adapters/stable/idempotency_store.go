package stable

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// idempotencyRecordLimit leaves room for a maximum-length key with escaping.
const idempotencyRecordLimit = 2048

type idempotencyRecord struct {
	Key         string    `json:"key"`
	RequestHash string    `json:"requestHash"`
	OrderID     uint64    `json:"orderId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IdempotencyStore keeps idempotency keys in their own partition, keyed by
// the SHA-256 of the client key so arbitrary strings order and fit uniformly.
type IdempotencyStore struct {
	partition stablemem.Partition
	codec     stablemem.JSONCodec[idempotencyRecord]
}

func OpenIdempotencyStore(region stablemem.Region) (*IdempotencyStore, error) {
	partition, err := region.Partition(stablemem.IdempotencyMemory)
	if err != nil {
		return nil, fmt.Errorf("open idempotency store: %w", err)
	}
	return &IdempotencyStore{
		partition: partition,
		codec:     stablemem.JSONCodec[idempotencyRecord]{MaxBytes: idempotencyRecordLimit},
	}, nil
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	data, ok, err := s.partition.Get(ctx, idempotencyKey(key))
	if err != nil {
		return nil, fmt.Errorf("load idempotency key: %w", err)
	}
	if !ok {
		return nil, nil
	}
	rec, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return &ports.IdempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) error {
	data, err := s.codec.Encode(idempotencyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	if _, _, err := s.partition.Put(ctx, idempotencyKey(record.Key), data); err != nil {
		return fmt.Errorf("store idempotency key: %w", err)
	}
	return nil
}

func idempotencyKey(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}
