package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

var (
	ErrNotFound        = fmt.Errorf("order %w", outcome.ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", outcome.ErrNotFound)
)

// Repository persists orders keyed by id.
type Repository interface {
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id uint64) (*domain.Order, error)
	Contains(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]*domain.Order, error)
	// ListByProducts returns orders for any of the given products in
	// ascending id order.
	ListByProducts(ctx context.Context, productIDs map[uint64]struct{}) ([]*domain.Order, error)
}

type IDAllocator interface {
	Next(ctx context.Context) (uint64, error)
}

// ProductDirectory checks that an ordered product exists.
type ProductDirectory interface {
	ProductExists(ctx context.Context, id uint64) (bool, error)
}

// ProductCatalog reads the product data orders depend on.
type ProductCatalog interface {
	// UnitPrice returns ErrProductNotFound for an unknown product.
	UnitPrice(ctx context.Context, productID uint64) (uint64, error)
	ProductIDsForAgrovet(ctx context.Context, agrovetID uint64) ([]uint64, error)
}
