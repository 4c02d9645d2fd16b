package ports

import (
	"context"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
)

// WorkflowOrchestrator places orders through a durable workflow engine.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
}
