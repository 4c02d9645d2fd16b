// Package regiontest is a conformance suite every stablemem backend must pass.
package regiontest

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

// Opener returns a region over the same backing store on every call, so a
// second call behaves like a process restart.
type Opener func(t *testing.T) stablemem.Region

func key(n uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, n)
}

// Run exercises the Partition contract against regions built by open. The
// subtests touch disjoint keys so one backing store can serve all of them.
// Scan hands callback errors, ErrStopScan included, back to the caller.
func Run(t *testing.T, open Opener) {
	t.Run("get missing", func(t *testing.T) {
		part := partition(t, open(t), stablemem.AgrovetsMemory)
		_, ok, err := part.Get(context.Background(), key(999))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put returns previous", func(t *testing.T) {
		ctx := context.Background()
		part := partition(t, open(t), stablemem.ProductsMemory)

		prev, existed, err := part.Put(ctx, key(1), []byte("first"))
		require.NoError(t, err)
		assert.False(t, existed)
		assert.Nil(t, prev)

		prev, existed, err = part.Put(ctx, key(1), []byte("second"))
		require.NoError(t, err)
		assert.True(t, existed)
		assert.Equal(t, []byte("first"), prev)

		got, ok, err := part.Get(ctx, key(1))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("second"), got)

		has, err := part.Has(ctx, key(1))
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		part := partition(t, open(t), stablemem.OrdersMemory)
		_, _, err := part.Put(context.Background(), nil, []byte("x"))
		require.ErrorIs(t, err, stablemem.ErrEmptyKey)
	})

	t.Run("scan ascending and isolated", func(t *testing.T) {
		ctx := context.Background()
		region := open(t)
		part := partition(t, region, stablemem.FeedbackMemory)
		other := partition(t, region, stablemem.CounterMemory)
		for _, n := range []uint64{300, 2, 70000, 41} {
			_, _, err := part.Put(ctx, key(n), []byte{byte(n)})
			require.NoError(t, err)
		}
		_, _, err := other.Put(ctx, key(5), []byte("counter"))
		require.NoError(t, err)

		var seen []uint64
		require.NoError(t, part.Scan(ctx, func(k, _ []byte) error {
			seen = append(seen, binary.BigEndian.Uint64(k))
			return nil
		}))
		assert.Equal(t, []uint64{2, 41, 300, 70000}, seen)

		seen = nil
		err = part.Scan(ctx, func(k, _ []byte) error {
			seen = append(seen, binary.BigEndian.Uint64(k))
			if len(seen) == 2 {
				return stablemem.ErrStopScan
			}
			return nil
		})
		require.ErrorIs(t, err, stablemem.ErrStopScan)
		assert.Equal(t, []uint64{2, 41}, seen)
	})

	t.Run("increment counts from initial", func(t *testing.T) {
		ctx := context.Background()
		counterKey := []byte{0xc0}
		part := partition(t, open(t), stablemem.IdempotencyMemory)

		next, err := part.Increment(ctx, counterKey, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(11), next)
		next, err = part.Increment(ctx, counterKey, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(12), next)

		stored, ok, err := partition(t, open(t), stablemem.IdempotencyMemory).Get(ctx, counterKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, key(12), stored)

		_, err = part.Increment(ctx, nil, 0)
		require.ErrorIs(t, err, stablemem.ErrEmptyKey)
	})

	t.Run("concurrent increments are distinct", func(t *testing.T) {
		ctx := context.Background()
		counterKey := []byte{0xc1}
		const workers, perWorker = 4, 25

		results := make(chan uint64, workers*perWorker)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			part := partition(t, open(t), stablemem.IdempotencyMemory)
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					next, err := part.Increment(ctx, counterKey, 0)
					if !assert.NoError(t, err) {
						return
					}
					results <- next
				}
			}()
		}
		wg.Wait()
		close(results)

		seen := map[uint64]bool{}
		for id := range results {
			assert.False(t, seen[id], "id %d issued twice", id)
			seen[id] = true
		}
		assert.Len(t, seen, workers*perWorker)
	})

	t.Run("survives reopen", func(t *testing.T) {
		ctx := context.Background()
		part := partition(t, open(t), stablemem.AgrovetsMemory)
		_, _, err := part.Put(ctx, key(7), []byte("kept"))
		require.NoError(t, err)

		reopened := partition(t, open(t), stablemem.AgrovetsMemory)
		got, ok, err := reopened.Get(ctx, key(7))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("kept"), got)
	})
}

func partition(t *testing.T, region stablemem.Region, id stablemem.MemoryID) stablemem.Partition {
	t.Helper()
	part, err := region.Partition(id)
	require.NoError(t, err)
	return part
}
