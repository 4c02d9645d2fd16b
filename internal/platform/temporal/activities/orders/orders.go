package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordertypes "github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	orderports "github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

const (
	// PlaceOrderActivityName validates, prices and stores one order.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the order command. Rejections the caller must fix are
// returned as non-retryable application errors typed by their outcome kind.
func (a *Activities) PlaceOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*orderdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order activity not initialized", "productId", input.ProductID)
		return nil, errors.New("order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "productId", input.ProductID, "quantity", input.Quantity)
	order, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		kind := outcome.Of(err)
		logger.Warn("PlaceOrder activity rejected", "productId", input.ProductID, "outcome", string(kind), "error", err)
		if kind == outcome.InvalidPayload || kind == outcome.NotFound {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
		}
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID, "totalPrice", order.TotalPrice)
	return order, nil
}
