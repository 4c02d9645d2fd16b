package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	agrovettypes "github.com/Apurer/agrovet-registry/internal/domains/agrovets/application/types"
	feedbacktypes "github.com/Apurer/agrovet-registry/internal/domains/feedback/application/types"
	ordertypes "github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	producttypes "github.com/Apurer/agrovet-registry/internal/domains/products/application/types"
	productdomain "github.com/Apurer/agrovet-registry/internal/domains/products/domain"
	"github.com/Apurer/agrovet-registry/internal/platform/referential"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

func TestMarketplaceScenario(t *testing.T) {
	ctx := context.Background()
	rec := &events.Recorder{}
	st, err := Open(ctx, inmem.NewRegion(), WithPublisher(rec))
	require.NoError(t, err)

	agrovet, err := st.AgrovetService.CreateAgrovet(ctx, agrovettypes.CreateAgrovetInput{Name: "GreenFarm", Contact: "0712345", Email: "a@b.com"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), agrovet.ID)

	product, err := st.ProductService.CreateProduct(ctx, producttypes.CreateProductInput{AgrovetID: 1, Name: "Seed", Category: "Inputs", Price: 100, Stock: 50})
	require.NoError(t, err)
	require.Equal(t, uint64(2), product.ID)
	require.True(t, product.IsAvailable)

	order, err := st.OrderService.CreateOrder(ctx, ordertypes.CreateOrderInput{ProductID: 2, CustomerName: "Jane", Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, uint64(3), order.ID)
	require.Equal(t, uint64(300), order.TotalPrice)
	require.Equal(t, orderdomain.StatusPending, order.Status)

	orders, err := st.OrderService.OrdersByAgrovet(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, uint64(3), orders[0].ID)

	require.Equal(t, []string{events.AgrovetCreated, events.ProductCreated, events.OrderPlaced}, rec.Types())
}

func TestFeedbackForUnknownAgrovet(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, inmem.NewRegion())
	require.NoError(t, err)

	_, err = st.FeedbackService.CreateFeedback(ctx, feedbacktypes.CreateFeedbackInput{AgrovetID: 99, CustomerName: "X", Rating: 4.0})
	require.Equal(t, outcome.NotFound, outcome.Of(err))
}

func TestListAgrovets_EmptyThenOne(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, inmem.NewRegion())
	require.NoError(t, err)

	_, err = st.AgrovetService.ListAgrovets(ctx)
	require.Equal(t, outcome.NotFound, outcome.Of(err))

	_, err = st.AgrovetService.CreateAgrovet(ctx, agrovettypes.CreateAgrovetInput{Name: "GreenFarm", Contact: "0712345", Email: "a@b.com"})
	require.NoError(t, err)
	list, err := st.AgrovetService.ListAgrovets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestReopenResumesCounterAndStores(t *testing.T) {
	ctx := context.Background()
	region := inmem.NewRegion()

	first, err := Open(ctx, region)
	require.NoError(t, err)
	agrovet, err := first.AgrovetService.CreateAgrovet(ctx, agrovettypes.CreateAgrovetInput{Name: "GreenFarm", Contact: "0712345", Email: "a@b.com"})
	require.NoError(t, err)

	restarted, err := Open(ctx, region)
	require.NoError(t, err)
	loaded, err := restarted.AgrovetService.GetAgrovetByID(ctx, agrovet.ID)
	require.NoError(t, err)
	require.Equal(t, "GreenFarm", loaded.Name)

	product, err := restarted.ProductService.CreateProduct(ctx, producttypes.CreateProductInput{AgrovetID: agrovet.ID, Name: "Seed", Category: "Inputs", Price: 100})
	require.NoError(t, err)
	require.Equal(t, agrovet.ID+1, product.ID)
}

func TestAuditFindsOutOfBandDanglingReference(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, inmem.NewRegion())
	require.NoError(t, err)

	dangling, err := st.Audit(ctx)
	require.NoError(t, err)
	require.Empty(t, dangling)

	_, err = st.Products.Insert(ctx, &productdomain.Product{ID: 40, AgrovetID: 41, Name: "Seed", Category: "Inputs", Price: 1, IsAvailable: true})
	require.NoError(t, err)

	dangling, err = st.Audit(ctx)
	require.NoError(t, err)
	require.Equal(t, []referential.Link{{Kind: "product", ID: 40, Target: referential.TargetAgrovet, TargetID: 41}}, dangling)
}
