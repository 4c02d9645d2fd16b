// Package stablemem models durable memory as a region split into numbered
// partitions. Each partition is an ordered byte key-value space; typed
// collections (Map) and scalar cells (Cell) are layered on top of it.
//
// Backends live in sub-packages: inmem for tests and local runs, pgregion
// (PostgreSQL via GORM), redisregion (Redis) and dynamoregion (DynamoDB).
package stablemem

import (
	"context"
	"errors"
	"fmt"
)

// MemoryID addresses a partition inside a region.
type MemoryID uint8

// Partition layout shared by every process that opens the same region.
const (
	CounterMemory  MemoryID = 0
	AgrovetsMemory MemoryID = 10
	ProductsMemory MemoryID = 11
	OrdersMemory   MemoryID = 12
	FeedbackMemory MemoryID = 13
	// IdempotencyMemory maps order idempotency keys to the order they placed.
	IdempotencyMemory MemoryID = 14
)

// String renders the id the way backends name partitions.
func (id MemoryID) String() string {
	return fmt.Sprintf("mem-%d", uint8(id))
}

var (
	// ErrClosed is returned by partitions whose region was closed.
	ErrClosed = errors.New("stable memory region closed")
	// ErrEmptyKey rejects zero-length keys, which no backend can order reliably.
	ErrEmptyKey = errors.New("stable memory key is empty")
	// ErrCounterOverflow is returned by Increment once the counter holds the maximum uint64.
	ErrCounterOverflow = errors.New("stable memory counter overflow")
)

// Partition is an ordered key-value space. Scan visits keys in ascending
// byte order; callers encode numeric keys big-endian so byte order matches
// numeric order.
type Partition interface {
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	// Put inserts or overwrites and returns the previous value when one existed.
	Put(ctx context.Context, key, value []byte) ([]byte, bool, error)
	Has(ctx context.Context, key []byte) (bool, error)
	Scan(ctx context.Context, fn func(key, value []byte) error) error
	// Increment adds one to the big-endian uint64 stored at key in a single
	// atomic step, treating an absent key as initial, and returns the new
	// value. Concurrent callers in any process never observe the same result.
	Increment(ctx context.Context, key []byte, initial uint64) (uint64, error)
}

// Region hands out partitions of one durable memory.
type Region interface {
	Partition(id MemoryID) (Partition, error)
	Close() error
}

// ErrStopScan can be returned from a Scan callback to end iteration early
// without reporting an error.
var ErrStopScan = errors.New("stop scan")
