package stablemem_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func openSampleMap(t *testing.T, region stablemem.Region) *stablemem.Map[sample] {
	t.Helper()
	m, err := stablemem.OpenMap[sample](region, stablemem.AgrovetsMemory, nil)
	require.NoError(t, err)
	return m
}

func TestMap_InsertReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	m := openSampleMap(t, inmem.NewRegion())

	_, existed, err := m.Insert(ctx, 7, sample{Name: "first", Count: 1})
	require.NoError(t, err)
	require.False(t, existed)

	prev, existed, err := m.Insert(ctx, 7, sample{Name: "second", Count: 2})
	require.NoError(t, err)
	require.True(t, existed)
	require.Equal(t, sample{Name: "first", Count: 1}, prev)

	got, ok, err := m.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", got.Name)
}

func TestMap_GetAndContainsMissing(t *testing.T) {
	ctx := context.Background()
	m := openSampleMap(t, inmem.NewRegion())

	_, ok, err := m.Get(ctx, 42)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = m.Contains(ctx, 42)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMap_ScanAscendingAcrossByteBoundaries(t *testing.T) {
	ctx := context.Background()
	m := openSampleMap(t, inmem.NewRegion())

	for _, id := range []uint64{300, 2, 256, 1, 255} {
		_, _, err := m.Insert(ctx, id, sample{Count: int(id)})
		require.NoError(t, err)
	}

	entries, err := m.Scan(ctx)
	require.NoError(t, err)
	ids := make([]uint64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		require.Equal(t, int(e.ID), e.Value.Count)
	}
	require.Equal(t, []uint64{1, 2, 255, 256, 300}, ids)

	n, err := m.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestMap_Filter(t *testing.T) {
	ctx := context.Background()
	m := openSampleMap(t, inmem.NewRegion())
	for id := uint64(1); id <= 6; id++ {
		_, _, err := m.Insert(ctx, id, sample{Count: int(id % 2)})
		require.NoError(t, err)
	}

	odd, err := m.Filter(ctx, func(_ uint64, v sample) bool { return v.Count == 1 })
	require.NoError(t, err)
	require.Len(t, odd, 3)
	require.Equal(t, uint64(1), odd[0].ID)
	require.Equal(t, uint64(5), odd[2].ID)
}

func TestMap_RejectsOversizedRecord(t *testing.T) {
	ctx := context.Background()
	m := openSampleMap(t, inmem.NewRegion())

	_, _, err := m.Insert(ctx, 1, sample{Name: strings.Repeat("x", stablemem.MaxRecordSize)})
	require.ErrorIs(t, err, stablemem.ErrRecordTooLarge)

	n, err := m.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMap_PartitionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	region := inmem.NewRegion()
	agrovets, err := stablemem.OpenMap[sample](region, stablemem.AgrovetsMemory, nil)
	require.NoError(t, err)
	products, err := stablemem.OpenMap[sample](region, stablemem.ProductsMemory, nil)
	require.NoError(t, err)

	_, _, err = agrovets.Insert(ctx, 1, sample{Name: "agrovet"})
	require.NoError(t, err)

	ok, err := products.Contains(ctx, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMap_ReopenSeesPersistedRecords(t *testing.T) {
	ctx := context.Background()
	region := inmem.NewRegion()
	first := openSampleMap(t, region)
	_, _, err := first.Insert(ctx, 3, sample{Name: "kept"})
	require.NoError(t, err)

	second := openSampleMap(t, region)
	got, ok, err := second.Get(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "kept", got.Name)
}

func TestCell_StartsAtInitialAndPersists(t *testing.T) {
	ctx := context.Background()
	region := inmem.NewRegion()
	cell, err := stablemem.OpenCell(region, stablemem.CounterMemory, 0)
	require.NoError(t, err)

	v, err := cell.Get(ctx)
	require.NoError(t, err)
	require.Zero(t, v)

	prev, err := cell.Set(ctx, 9)
	require.NoError(t, err)
	require.Zero(t, prev)

	reopened, err := stablemem.OpenCell(region, stablemem.CounterMemory, 0)
	require.NoError(t, err)
	v, err = reopened.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(9), v)
}

func TestRegion_ClosedRejectsAccess(t *testing.T) {
	region := inmem.NewRegion()
	m := openSampleMap(t, region)
	require.NoError(t, region.Close())

	_, _, err := m.Get(context.Background(), 1)
	require.ErrorIs(t, err, stablemem.ErrClosed)

	_, err = region.Partition(stablemem.OrdersMemory)
	require.ErrorIs(t, err, stablemem.ErrClosed)
}
