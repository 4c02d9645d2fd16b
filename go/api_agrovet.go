package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	agrovetmapper "github.com/Apurer/agrovet-registry/internal/domains/agrovets/adapters/http/mapper"
	agrovetports "github.com/Apurer/agrovet-registry/internal/domains/agrovets/ports"
)

// AgrovetAPI wires HTTP transport with the agrovets bounded context service.
type AgrovetAPI struct {
	service agrovetports.Service
}

func NewAgrovetAPI(service agrovetports.Service) AgrovetAPI {
	return AgrovetAPI{service: service}
}

// Post /v1/agrovets
// Register a new agrovet
func (api *AgrovetAPI) CreateAgrovet(c *gin.Context) {
	var payload agrovetmapper.CreateAgrovetRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateAgrovet(c.Request.Context(), agrovetmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agrovetmapper.FromDomainAgrovet(created))
}

// Get /v1/agrovets
func (api *AgrovetAPI) ListAgrovets(c *gin.Context) {
	list, err := api.service.ListAgrovets(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agrovetmapper.FromDomainAgrovets(list))
}

// Get /v1/agrovets/:agrovetId
func (api *AgrovetAPI) GetAgrovetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "agrovetId")
	if !ok {
		return
	}
	agrovet, err := api.service.GetAgrovetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agrovetmapper.FromDomainAgrovet(agrovet))
}

// Patch /v1/agrovets/:agrovetId
// Update the attributes present in the body; absent attributes are kept
func (api *AgrovetAPI) UpdateAgrovet(c *gin.Context) {
	id, ok := parseIDParam(c, "agrovetId")
	if !ok {
		return
	}
	var payload agrovetmapper.UpdateAgrovetRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.UpdateAgrovet(c.Request.Context(), agrovetmapper.ToUpdateInput(id, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agrovetmapper.FromDomainAgrovet(updated))
}
