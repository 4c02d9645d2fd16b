package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/domains/feedback/adapters/stable"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/idalloc"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

type fakeAgrovets map[uint64]bool

func (f fakeAgrovets) AgrovetExists(_ context.Context, id uint64) (bool, error) {
	return f[id], nil
}

func newService(t *testing.T, agrovets fakeAgrovets) (*Service, *idalloc.Allocator) {
	t.Helper()
	region := inmem.NewRegion()
	repo, err := stable.Open(region)
	require.NoError(t, err)
	ids, err := idalloc.Open(region)
	require.NoError(t, err)
	return NewService(repo, ids, agrovets), ids
}

func TestCreateFeedback_UnknownAgrovetIsNotFound(t *testing.T) {
	svc, ids := newService(t, fakeAgrovets{1: true})
	_, err := svc.CreateFeedback(context.Background(), types.CreateFeedbackInput{AgrovetID: 99, CustomerName: "X", Rating: 4.0})
	require.ErrorIs(t, err, ports.ErrAgrovetNotFound)
	require.Equal(t, outcome.NotFound, outcome.Of(err))

	current, err := ids.Current(context.Background())
	require.NoError(t, err)
	require.Zero(t, current)
}

func TestCreateFeedback_RatingOutOfRange(t *testing.T) {
	svc, _ := newService(t, fakeAgrovets{1: true})
	_, err := svc.CreateFeedback(context.Background(), types.CreateFeedbackInput{AgrovetID: 1, CustomerName: "X", Rating: 5.5})
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.ErrorIs(t, err, domain.ErrInvalidRating)
}

func TestFeedbackByAgrovet(t *testing.T) {
	svc, _ := newService(t, fakeAgrovets{1: true, 2: true})
	ctx := context.Background()

	_, err := svc.FeedbackByAgrovet(ctx, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)

	first, err := svc.CreateFeedback(ctx, types.CreateFeedbackInput{AgrovetID: 1, CustomerName: "Jane", Rating: 4.5, Comment: "fresh seed"})
	require.NoError(t, err)
	_, err = svc.CreateFeedback(ctx, types.CreateFeedbackInput{AgrovetID: 2, CustomerName: "Ali", Rating: 3})
	require.NoError(t, err)
	second, err := svc.CreateFeedback(ctx, types.CreateFeedbackInput{AgrovetID: 1, CustomerName: "Wanjiru", Rating: 0})
	require.NoError(t, err)

	list, err := svc.FeedbackByAgrovet(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)
	require.Equal(t, "fresh seed", list[0].Comment)
}
