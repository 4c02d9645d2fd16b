package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/feedback/domain"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

var (
	ErrNotFound        = fmt.Errorf("feedback %w", outcome.ErrNotFound)
	ErrAgrovetNotFound = fmt.Errorf("agrovet %w", outcome.ErrNotFound)
)

type Repository interface {
	Insert(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error)
	Get(ctx context.Context, id uint64) (*domain.Feedback, error)
	Contains(ctx context.Context, id uint64) (bool, error)
	ListByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Feedback, error)
}

type IDAllocator interface {
	Next(ctx context.Context) (uint64, error)
}

type AgrovetDirectory interface {
	AgrovetExists(ctx context.Context, id uint64) (bool, error)
}
