package ports

import (
	"context"

	"github.com/Apurer/agrovet-registry/internal/domains/feedback/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/domain"
)

// Service exposes the feedback use cases to adapters.
type Service interface {
	CreateFeedback(ctx context.Context, input types.CreateFeedbackInput) (*domain.Feedback, error)
	FeedbackByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Feedback, error)
}
