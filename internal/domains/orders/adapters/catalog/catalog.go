// Package catalog lets the orders context read the product catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"

	orderports "github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	productports "github.com/Apurer/agrovet-registry/internal/domains/products/ports"
)

var _ orderports.ProductCatalog = (*Catalog)(nil)

type Catalog struct {
	products productports.Repository
}

func New(products productports.Repository) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) UnitPrice(ctx context.Context, productID uint64) (uint64, error) {
	product, err := c.products.Get(ctx, productID)
	if errors.Is(err, productports.ErrNotFound) {
		return 0, fmt.Errorf("%w: %d", orderports.ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, err
	}
	return product.Price, nil
}

func (c *Catalog) ProductIDsForAgrovet(ctx context.Context, agrovetID uint64) ([]uint64, error) {
	products, err := c.products.ListByAgrovet(ctx, agrovetID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
