package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/domain"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

var (
	ErrNotFound   = fmt.Errorf("agrovet %w", outcome.ErrNotFound)
	ErrNoAgrovets = fmt.Errorf("%w: no agrovets registered", outcome.ErrNotFound)
)

// Repository persists agrovets keyed by id.
type Repository interface {
	// Insert stores the agrovet under its id and returns the record it
	// replaced, nil when the id was new.
	Insert(ctx context.Context, agrovet *domain.Agrovet) (*domain.Agrovet, error)
	Get(ctx context.Context, id uint64) (*domain.Agrovet, error)
	Contains(ctx context.Context, id uint64) (bool, error)
	// List returns every agrovet in ascending id order.
	List(ctx context.Context) ([]*domain.Agrovet, error)
}

// IDAllocator issues the marketplace-wide identifiers.
type IDAllocator interface {
	Next(ctx context.Context) (uint64, error)
}
