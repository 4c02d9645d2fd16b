package stable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"
)

func TestRepository_RoundTripsOrders(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(inmem.NewRegion())
	require.NoError(t, err)

	placed, err := domain.NewOrder(3, 2, "Jane", 3, 100, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, placed)
	require.NoError(t, err)

	got, err := repo.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, placed, got)
}

func TestRepository_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(inmem.NewRegion())
	require.NoError(t, err)

	_, _, err = repo.records.Insert(ctx, 4, orderRecord{ProductID: 2, CustomerName: "Jane", Quantity: 1, TotalPrice: 100, Status: "shipped"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, 4)
	require.ErrorContains(t, err, `unknown status "shipped"`)
	_, err = repo.List(ctx)
	require.Error(t, err)
}
