package mapper

import (
	"github.com/Apurer/agrovet-registry/internal/domains/products/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
)

type Product struct {
	ID          uint64 `json:"id"`
	AgrovetID   uint64 `json:"agrovetId"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       uint64 `json:"price"`
	Stock       uint64 `json:"stock"`
	IsAvailable bool   `json:"isAvailable"`
}

// CreateProductRequest is the body of POST /v1/products.
type CreateProductRequest struct {
	AgrovetID uint64 `json:"agrovetId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     uint64 `json:"price"`
	Stock     uint64 `json:"stock"`
}

// StockLevel is one row of GET /v1/products/stock-summary.
type StockLevel struct {
	ProductID   uint64 `json:"productId"`
	Name        string `json:"name"`
	Stock       uint64 `json:"stock"`
	IsAvailable bool   `json:"isAvailable"`
}

func ToCreateInput(req CreateProductRequest) types.CreateProductInput {
	return types.CreateProductInput{
		AgrovetID: req.AgrovetID,
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Stock:     req.Stock,
	}
}

func FromDomainProduct(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:          p.ID,
		AgrovetID:   p.AgrovetID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable,
	}
}

func FromDomainProducts(list []*domain.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, FromDomainProduct(p))
	}
	return out
}

func FromStockLevels(levels []domain.StockLevel) []StockLevel {
	out := make([]StockLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, StockLevel(l))
	}
	return out
}
