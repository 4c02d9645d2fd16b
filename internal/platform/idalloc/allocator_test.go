package idalloc_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/platform/idalloc"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"
)

func TestAllocator_StartsAtOneAndIncreases(t *testing.T) {
	ctx := context.Background()
	alloc, err := idalloc.Open(inmem.NewRegion())
	require.NoError(t, err)

	current, err := alloc.Current(ctx)
	require.NoError(t, err)
	require.Zero(t, current)

	var last uint64
	for i := 0; i < 5; i++ {
		id, err := alloc.Next(ctx)
		require.NoError(t, err)
		require.Greater(t, id, last)
		last = id
	}
	require.Equal(t, uint64(5), last)

	current, err = alloc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, last, current)
}

func TestAllocator_ResumesFromPersistedCounter(t *testing.T) {
	ctx := context.Background()
	region := inmem.NewRegion()

	first, err := idalloc.Open(region)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := first.Next(ctx)
		require.NoError(t, err)
	}

	restarted, err := idalloc.Open(region)
	require.NoError(t, err)
	id, err := restarted.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(4), id)
}

func TestAllocator_Exhausted(t *testing.T) {
	ctx := context.Background()
	region := inmem.NewRegion()
	cell, err := stablemem.OpenCell(region, stablemem.CounterMemory, 0)
	require.NoError(t, err)
	_, err = cell.Set(ctx, math.MaxUint64)
	require.NoError(t, err)

	_, err = idalloc.New(cell).Next(ctx)
	require.ErrorIs(t, err, idalloc.ErrExhausted)

	current, err := cell.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), current)
}

// laggyRegion delays every partition call the way a network backend would.
type laggyRegion struct {
	*inmem.Region
	lag time.Duration
}

func (r laggyRegion) Partition(id stablemem.MemoryID) (stablemem.Partition, error) {
	part, err := r.Region.Partition(id)
	if err != nil {
		return nil, err
	}
	return laggyPartition{Partition: part, lag: r.lag}, nil
}

type laggyPartition struct {
	stablemem.Partition
	lag time.Duration
}

func (p laggyPartition) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	time.Sleep(p.lag)
	return p.Partition.Get(ctx, key)
}

func (p laggyPartition) Increment(ctx context.Context, key []byte, initial uint64) (uint64, error) {
	time.Sleep(p.lag)
	return p.Partition.Increment(ctx, key, initial)
}

func TestAllocator_SeparateAllocatorsNeverShareIDs(t *testing.T) {
	ctx := context.Background()
	region := laggyRegion{Region: inmem.NewRegion(), lag: 200 * time.Microsecond}
	const perAllocator = 200

	// one allocator per process sharing the durable region
	var (
		mu     sync.Mutex
		issued []uint64
		wg     sync.WaitGroup
	)
	for p := 0; p < 2; p++ {
		alloc, err := idalloc.Open(region)
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perAllocator; i++ {
				id, err := alloc.Next(ctx)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				issued = append(issued, id)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	distinct := map[uint64]struct{}{}
	for _, id := range issued {
		distinct[id] = struct{}{}
	}
	require.Len(t, issued, 2*perAllocator)
	require.Len(t, distinct, 2*perAllocator)

	alloc, err := idalloc.Open(region)
	require.NoError(t, err)
	current, err := alloc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2*perAllocator), current)
}
