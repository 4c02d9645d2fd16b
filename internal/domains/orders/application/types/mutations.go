package types

// CreateOrderInput carries a customer's order for one product. A non-empty
// IdempotencyKey makes retries of the same payload return the first order.
type CreateOrderInput struct {
	ProductID      uint64
	CustomerName   string
	Quantity       uint64
	IdempotencyKey string
}
