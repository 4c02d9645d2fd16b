package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	AgrovetAPI  AgrovetAPI
	ProductAPI  ProductAPI
	OrderAPI    OrderAPI
	FeedbackAPI FeedbackAPI
}

// NewRouter returns a new router with gin's default logger and recovery.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine registers every route on router. Middleware must be
// attached to router before calling it.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"CreateAgrovet",
			http.MethodPost,
			"/v1/agrovets",
			handleFunctions.AgrovetAPI.CreateAgrovet,
		},
		{
			"ListAgrovets",
			http.MethodGet,
			"/v1/agrovets",
			handleFunctions.AgrovetAPI.ListAgrovets,
		},
		{
			"GetAgrovetByID",
			http.MethodGet,
			"/v1/agrovets/:agrovetId",
			handleFunctions.AgrovetAPI.GetAgrovetByID,
		},
		{
			"UpdateAgrovet",
			http.MethodPatch,
			"/v1/agrovets/:agrovetId",
			handleFunctions.AgrovetAPI.UpdateAgrovet,
		},
		{
			"GetProductsByAgrovet",
			http.MethodGet,
			"/v1/agrovets/:agrovetId/products",
			handleFunctions.ProductAPI.GetProductsByAgrovet,
		},
		{
			"GetOrdersByAgrovet",
			http.MethodGet,
			"/v1/agrovets/:agrovetId/orders",
			handleFunctions.OrderAPI.GetOrdersByAgrovet,
		},
		{
			"GetFeedbackByAgrovet",
			http.MethodGet,
			"/v1/agrovets/:agrovetId/feedback",
			handleFunctions.FeedbackAPI.GetFeedbackByAgrovet,
		},
		{
			"CreateProduct",
			http.MethodPost,
			"/v1/products",
			handleFunctions.ProductAPI.CreateProduct,
		},
		{
			"GetStockSummary",
			http.MethodGet,
			"/v1/products/stock-summary",
			handleFunctions.ProductAPI.GetStockSummary,
		},
		{
			"CreateOrder",
			http.MethodPost,
			"/v1/orders",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"CreateFeedback",
			http.MethodPost,
			"/v1/feedback",
			handleFunctions.FeedbackAPI.CreateFeedback,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			Healthz,
		},
	}
}
