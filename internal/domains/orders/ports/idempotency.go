package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

// ErrIdempotencyConflict indicates the same key was used with a different order payload.
var ErrIdempotencyConflict = fmt.Errorf("%w: idempotency key reused with a different order", outcome.ErrInvalidPayload)

// IdempotencyRecord captures the association between a client-supplied key and the order it placed.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     uint64
	CreatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so retried placements can be replayed safely.
type IdempotencyStore interface {
	// Get returns nil when the key has not been used.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Save(ctx context.Context, record IdempotencyRecord) error
}
