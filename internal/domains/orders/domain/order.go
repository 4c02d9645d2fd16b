package domain

import (
	"errors"
	"math/bits"
	"time"
)

// Status enumerates order progression. Orders are created pending and no
// command advances them yet.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrEmptyCustomer   = errors.New("customer name is required")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrTotalOverflow   = errors.New("order total exceeds the supported price range")
)

// Order is a customer purchase of one product. TotalPrice is fixed when the
// order is placed and never recomputed.
type Order struct {
	ID           uint64
	ProductID    uint64
	CustomerName string
	Quantity     uint64
	TotalPrice   uint64
	OrderDate    time.Time
	Status       Status
}

// ValidateRequest checks the caller-supplied fields of a new order.
func ValidateRequest(customerName string, quantity uint64) error {
	if customerName == "" {
		return ErrEmptyCustomer
	}
	if quantity == 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// NewOrder prices a pending order at unitPrice × quantity.
func NewOrder(id, productID uint64, customerName string, quantity, unitPrice uint64, orderDate time.Time) (*Order, error) {
	if err := ValidateRequest(customerName, quantity); err != nil {
		return nil, err
	}
	total, err := TotalPrice(unitPrice, quantity)
	if err != nil {
		return nil, err
	}
	return &Order{
		ID:           id,
		ProductID:    productID,
		CustomerName: customerName,
		Quantity:     quantity,
		TotalPrice:   total,
		OrderDate:    orderDate,
		Status:       StatusPending,
	}, nil
}

// TotalPrice multiplies without wrapping around.
func TotalPrice(unitPrice, quantity uint64) (uint64, error) {
	hi, lo := bits.Mul64(unitPrice, quantity)
	if hi != 0 {
		return 0, ErrTotalOverflow
	}
	return lo, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
