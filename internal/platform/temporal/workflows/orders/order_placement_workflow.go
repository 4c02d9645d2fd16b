package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/agrovet-registry/internal/platform/temporal/activities/orders"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

type OrderPlacementWorkflowInput struct {
	Command ordertypes.CreateOrderInput
	TraceID string
}

// OrderPlacementWorkflow places one order. The activity allocates an id and
// writes the order, so it runs at most once.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*orderdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "productId", input.Command.ProductID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	var order orderdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.PlaceOrderActivityName, input.Command).Get(ctx, &order)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "productId", input.Command.ProductID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return &order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
