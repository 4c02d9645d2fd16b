package ports

import (
	"context"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
)

// Service exposes the order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
	OrdersByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Order, error)
}
