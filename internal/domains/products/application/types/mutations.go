package types

// CreateProductInput carries a new product listing.
type CreateProductInput struct {
	AgrovetID uint64
	Name      string
	Category  string
	Price     uint64
	Stock     uint64
}
