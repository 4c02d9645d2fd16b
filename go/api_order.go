package marketplaceserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	orderports "github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
)

// idempotencyKeyHeader lets clients retry an order placement safely.
const idempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders service and its placement workflow.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /v1/orders
// Place an order against an existing product
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload ordermapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := ordermapper.ToCreateInput(payload)
	input.IdempotencyKey = c.GetHeader(idempotencyKeyHeader)
	placed, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomainOrder(placed))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// Get /v1/agrovets/:agrovetId/orders
func (api *OrderAPI) GetOrdersByAgrovet(c *gin.Context) {
	agrovetID, ok := parseIDParam(c, "agrovetId")
	if !ok {
		return
	}
	list, err := api.service.OrdersByAgrovet(c.Request.Context(), agrovetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrders(list))
}
