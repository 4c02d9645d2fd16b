package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	feedbackmapper "github.com/Apurer/agrovet-registry/internal/domains/feedback/adapters/http/mapper"
	feedbackports "github.com/Apurer/agrovet-registry/internal/domains/feedback/ports"
)

type FeedbackAPI struct {
	service feedbackports.Service
}

func NewFeedbackAPI(service feedbackports.Service) FeedbackAPI {
	return FeedbackAPI{service: service}
}

// Post /v1/feedback
// Rate an agrovet
func (api *FeedbackAPI) CreateFeedback(c *gin.Context) {
	var payload feedbackmapper.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateFeedback(c.Request.Context(), feedbackmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedbackmapper.FromDomainFeedback(created))
}

// Get /v1/agrovets/:agrovetId/feedback
func (api *FeedbackAPI) GetFeedbackByAgrovet(c *gin.Context) {
	agrovetID, ok := parseIDParam(c, "agrovetId")
	if !ok {
		return
	}
	list, err := api.service.FeedbackByAgrovet(c.Request.Context(), agrovetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackmapper.FromDomainFeedbackList(list))
}
