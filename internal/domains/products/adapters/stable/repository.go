// Package stable persists products in the product stable memory partition.
package stable

import (
	"context"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/products/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/referential"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var (
	_ ports.Repository       = (*Repository)(nil)
	_ referential.LinkSource = (*Repository)(nil)
)

type productRecord struct {
	AgrovetID   uint64 `json:"agrovetId"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       uint64 `json:"price"`
	Stock       uint64 `json:"stock"`
	IsAvailable bool   `json:"isAvailable"`
}

type Repository struct {
	records *stablemem.Map[productRecord]
}

func Open(region stablemem.Region) (*Repository, error) {
	records, err := stablemem.OpenMap[productRecord](region, stablemem.ProductsMemory, nil)
	if err != nil {
		return nil, fmt.Errorf("open product store: %w", err)
	}
	return &Repository{records: records}, nil
}

func (r *Repository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	prev, existed, err := r.records.Insert(ctx, product.ID, toRecord(product))
	if err != nil {
		return nil, fmt.Errorf("store product %d: %w", product.ID, err)
	}
	if !existed {
		return nil, nil
	}
	return toDomain(product.ID, prev), nil
}

func (r *Repository) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	record, ok, err := r.records.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	if !ok {
		return nil, ports.ErrNotFound
	}
	return toDomain(id, record), nil
}

func (r *Repository) Contains(ctx context.Context, id uint64) (bool, error) {
	return r.records.Contains(ctx, id)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.filter(ctx, nil)
}

func (r *Repository) ListByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Product, error) {
	return r.filter(ctx, func(_ uint64, rec productRecord) bool { return rec.AgrovetID == agrovetID })
}

// Links reports the agrovet each product is listed under.
func (r *Repository) Links(ctx context.Context) ([]referential.Link, error) {
	entries, err := r.records.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	links := make([]referential.Link, 0, len(entries))
	for _, e := range entries {
		links = append(links, referential.Link{Kind: "product", ID: e.ID, Target: referential.TargetAgrovet, TargetID: e.Value.AgrovetID})
	}
	return links, nil
}

func (r *Repository) filter(ctx context.Context, keep func(uint64, productRecord) bool) ([]*domain.Product, error) {
	entries, err := r.records.Filter(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	list := make([]*domain.Product, 0, len(entries))
	for _, e := range entries {
		list = append(list, toDomain(e.ID, e.Value))
	}
	return list, nil
}

func toRecord(p *domain.Product) productRecord {
	return productRecord{
		AgrovetID:   p.AgrovetID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable,
	}
}

func toDomain(id uint64, rec productRecord) *domain.Product {
	return &domain.Product{
		ID:          id,
		AgrovetID:   rec.AgrovetID,
		Name:        rec.Name,
		Category:    rec.Category,
		Price:       rec.Price,
		Stock:       rec.Stock,
		IsAvailable: rec.IsAvailable,
	}
}
