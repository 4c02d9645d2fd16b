package marketplaceserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/agrovet-registry/internal/shared/errors"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

// respondBadRequest reports a body or path parameter that could not be decoded.
// Clients see the same outcome kind as a payload rejected by the services.
func respondBadRequest(c *gin.Context, err error) {
	apierrors.Respond(c, apierrors.ErrBadRequest.
		WithDetail(err.Error()).
		WithExtension("outcome", string(outcome.InvalidPayload)))
}

// respondServiceError maps a command failure to its outcome problem.
func respondServiceError(c *gin.Context, err error) {
	apierrors.RespondError(c, err)
}
