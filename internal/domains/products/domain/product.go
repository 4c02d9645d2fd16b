package domain

import "errors"

// Product is an item an agrovet offers for sale. Price is in the smallest
// currency unit.
type Product struct {
	ID          uint64
	AgrovetID   uint64
	Name        string
	Category    string
	Price       uint64
	Stock       uint64
	IsAvailable bool
}

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrEmptyCategory = errors.New("product category is required")
	ErrZeroPrice     = errors.New("product price must be greater than zero")
)

// NewProduct validates the listing and builds an available Product.
func NewProduct(id, agrovetID uint64, name, category string, price, stock uint64) (*Product, error) {
	p := &Product{
		ID:          id,
		AgrovetID:   agrovetID,
		Name:        name,
		Category:    category,
		Price:       price,
		Stock:       stock,
		IsAvailable: true,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if p.Category == "" {
		return ErrEmptyCategory
	}
	if p.Price == 0 {
		return ErrZeroPrice
	}
	return nil
}

// StockLevel is the inventory view of one product.
type StockLevel struct {
	ProductID   uint64
	Name        string
	Stock       uint64
	IsAvailable bool
}

func (p *Product) StockLevel() StockLevel {
	return StockLevel{ProductID: p.ID, Name: p.Name, Stock: p.Stock, IsAvailable: p.IsAvailable}
}
