package ports

import (
	"context"

	"github.com/Apurer/agrovet-registry/internal/domains/products/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
)

// Service exposes the product catalog use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error)
	ProductsByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Product, error)
	StockSummary(ctx context.Context) ([]domain.StockLevel, error)
}
