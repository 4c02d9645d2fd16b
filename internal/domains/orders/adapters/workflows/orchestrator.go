package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/application"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/agrovet-registry/internal/platform/temporal/workflows/orders"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder runs the placement workflow and waits for its result. Requests
// sharing an idempotency key share a workflow id, so a retry that races the
// first attempt waits on the run already in flight.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceID := workflowTraceID(ctx)
	workflowID := placementWorkflowID(input.IdempotencyKey)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, orderworkflows.OrderPlacementWorkflowName,
		orderworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceID})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("start order workflow: %w", err)
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, fromWorkflowError(err)
	}
	return &order, nil
}

func placementWorkflowID(idempotencyKey string) string {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return "order-placement-" + uuid.NewString()
	}
	sum := sha256.Sum256([]byte(key))
	return "order-placement-idem-" + hex.EncodeToString(sum[:16])
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, input)
}

// rejection restores the order sentinels lost when an activity error is
// serialized across the Temporal boundary.
type rejection struct {
	msg  string
	kind error
}

func (r rejection) Error() string { return r.msg }
func (r rejection) Unwrap() error { return r.kind }

func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch outcome.Kind(appErr.Type()) {
	case outcome.InvalidPayload:
		return rejection{msg: appErr.Message(), kind: application.ErrInvalidPayload}
	case outcome.NotFound:
		return rejection{msg: appErr.Message(), kind: ports.ErrProductNotFound}
	default:
		return err
	}
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
