package mapper

import (
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
)

type Order struct {
	ID           uint64    `json:"id"`
	ProductID    uint64    `json:"productId"`
	CustomerName string    `json:"customerName"`
	Quantity     uint64    `json:"quantity"`
	TotalPrice   uint64    `json:"totalPrice"`
	OrderDate    time.Time `json:"orderDate"`
	Status       string    `json:"status"`
}

// CreateOrderRequest is the body of POST /v1/orders.
type CreateOrderRequest struct {
	ProductID    uint64 `json:"productId"`
	CustomerName string `json:"customerName"`
	Quantity     uint64 `json:"quantity"`
}

func ToCreateInput(req CreateOrderRequest) types.CreateOrderInput {
	return types.CreateOrderInput{
		ProductID:    req.ProductID,
		CustomerName: req.CustomerName,
		Quantity:     req.Quantity,
	}
}

func FromDomainOrder(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	return Order{
		ID:           o.ID,
		ProductID:    o.ProductID,
		CustomerName: o.CustomerName,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice,
		OrderDate:    o.OrderDate,
		Status:       string(o.Status),
	}
}

func FromDomainOrders(list []*domain.Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, FromDomainOrder(o))
	}
	return out
}
