package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productmapper "github.com/Apurer/agrovet-registry/internal/domains/products/adapters/http/mapper"
	productports "github.com/Apurer/agrovet-registry/internal/domains/products/ports"
)

// ProductAPI wires HTTP transport with the product catalog service.
type ProductAPI struct {
	service productports.Service
}

func NewProductAPI(service productports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Post /v1/products
// List a product under an existing agrovet
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload productmapper.CreateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateProduct(c.Request.Context(), productmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productmapper.FromDomainProduct(created))
}

// Get /v1/agrovets/:agrovetId/products
func (api *ProductAPI) GetProductsByAgrovet(c *gin.Context) {
	agrovetID, ok := parseIDParam(c, "agrovetId")
	if !ok {
		return
	}
	list, err := api.service.ProductsByAgrovet(c.Request.Context(), agrovetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainProducts(list))
}

// Get /v1/products/stock-summary
func (api *ProductAPI) GetStockSummary(c *gin.Context) {
	levels, err := api.service.StockSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromStockLevels(levels))
}
