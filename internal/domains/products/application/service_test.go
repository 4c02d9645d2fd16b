package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/domains/products/adapters/stable"
	"github.com/Apurer/agrovet-registry/internal/domains/products/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/products/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/idalloc"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

type fakeAgrovets map[uint64]bool

func (f fakeAgrovets) AgrovetExists(_ context.Context, id uint64) (bool, error) {
	return f[id], nil
}

type failingAgrovets struct{}

func (failingAgrovets) AgrovetExists(context.Context, uint64) (bool, error) {
	return false, errors.New("agrovet partition unavailable")
}

type fixture struct {
	svc       *Service
	repo      *stable.Repository
	ids       *idalloc.Allocator
	published *events.Recorder
}

func newFixture(t *testing.T, agrovets ports.AgrovetDirectory) fixture {
	t.Helper()
	region := inmem.NewRegion()
	repo, err := stable.Open(region)
	require.NoError(t, err)
	ids, err := idalloc.Open(region)
	require.NoError(t, err)
	rec := &events.Recorder{}
	return fixture{svc: NewService(repo, ids, agrovets, WithPublisher(rec)), repo: repo, ids: ids, published: rec}
}

func seed() types.CreateProductInput {
	return types.CreateProductInput{AgrovetID: 1, Name: "Seed", Category: "Inputs", Price: 100, Stock: 50}
}

func TestCreateProduct_IsAvailableAndPersisted(t *testing.T) {
	f := newFixture(t, fakeAgrovets{1: true})
	ctx := context.Background()

	product, err := f.svc.CreateProduct(ctx, seed())
	require.NoError(t, err)
	require.Equal(t, uint64(1), product.ID)
	require.True(t, product.IsAvailable)

	stored, err := f.repo.Get(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, product, stored)
	require.Equal(t, []string{events.ProductCreated}, f.published.Types())
}

func TestCreateProduct_UnknownAgrovetLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t, fakeAgrovets{1: true})
	ctx := context.Background()
	_, err := f.svc.CreateProduct(ctx, seed())
	require.NoError(t, err)

	before, err := f.repo.List(ctx)
	require.NoError(t, err)

	input := seed()
	input.AgrovetID = 99
	_, err = f.svc.CreateProduct(ctx, input)
	require.ErrorIs(t, err, ports.ErrAgrovetNotFound)
	require.Equal(t, outcome.NotFound, outcome.Of(err))

	after, err := f.repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, len(before), len(after))

	current, err := f.ids.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), current)
}

func TestCreateProduct_FieldChecksPrecedeReferenceCheck(t *testing.T) {
	f := newFixture(t, fakeAgrovets{})
	input := seed()
	input.AgrovetID = 99
	input.Price = 0

	_, err := f.svc.CreateProduct(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.ErrorIs(t, err, domain.ErrZeroPrice)
}

func TestCreateProduct_LookupFailureIsError(t *testing.T) {
	f := newFixture(t, failingAgrovets{})
	_, err := f.svc.CreateProduct(context.Background(), seed())
	require.Error(t, err)
	require.Equal(t, outcome.Error, outcome.Of(err))
}

func TestProductsByAgrovet(t *testing.T) {
	f := newFixture(t, fakeAgrovets{1: true, 3: true})
	ctx := context.Background()

	_, err := f.svc.ProductsByAgrovet(ctx, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)

	first, err := f.svc.CreateProduct(ctx, seed())
	require.NoError(t, err)
	other := seed()
	other.AgrovetID = 3
	_, err = f.svc.CreateProduct(ctx, other)
	require.NoError(t, err)

	list, err := f.svc.ProductsByAgrovet(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, first.ID, list[0].ID)
}

func TestStockSummary(t *testing.T) {
	f := newFixture(t, fakeAgrovets{1: true})
	ctx := context.Background()

	_, err := f.svc.StockSummary(ctx)
	require.ErrorIs(t, err, ports.ErrNoProducts)

	_, err = f.svc.CreateProduct(ctx, seed())
	require.NoError(t, err)
	hoe := seed()
	hoe.Name, hoe.Stock = "Hoe", 0
	_, err = f.svc.CreateProduct(ctx, hoe)
	require.NoError(t, err)

	summary, err := f.svc.StockSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.StockLevel{
		{ProductID: 1, Name: "Seed", Stock: 50, IsAvailable: true},
		{ProductID: 2, Name: "Hoe", Stock: 0, IsAvailable: true},
	}, summary)
}
