package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

var (
	ErrNotFound        = fmt.Errorf("product %w", outcome.ErrNotFound)
	ErrNoProducts      = fmt.Errorf("%w: no products registered", outcome.ErrNotFound)
	ErrAgrovetNotFound = fmt.Errorf("agrovet %w", outcome.ErrNotFound)
)

// Repository persists products keyed by id.
type Repository interface {
	Insert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id uint64) (*domain.Product, error)
	Contains(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]*domain.Product, error)
	// ListByAgrovet returns the agrovet's products in ascending id order.
	ListByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Product, error)
}

type IDAllocator interface {
	Next(ctx context.Context) (uint64, error)
}

// AgrovetDirectory resolves the agrovet a product is listed under.
type AgrovetDirectory interface {
	AgrovetExists(ctx context.Context, id uint64) (bool, error)
}
