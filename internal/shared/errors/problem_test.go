package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

func TestFromOutcome(t *testing.T) {
	notFound := fmt.Errorf("agrovet %w", outcome.ErrNotFound)
	problem := FromOutcome(outcome.FromError(notFound))
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, "NotFound", problem.Extensions["outcome"])
	assert.Equal(t, notFound.Error(), problem.Detail)

	invalid := fmt.Errorf("%w: name is empty", outcome.ErrInvalidPayload)
	assert.Equal(t, http.StatusBadRequest, FromOutcome(outcome.FromError(invalid)).Status)

	other := FromOutcome(outcome.FromError(fmt.Errorf("disk full")))
	assert.Equal(t, http.StatusInternalServerError, other.Status)
	assert.Equal(t, "Error", other.Extensions["outcome"])
}

func TestWithExtensionDoesNotShareMaps(t *testing.T) {
	base := ErrNotFound.WithExtension("a", 1)
	derived := base.WithExtension("b", 2)
	assert.Len(t, base.Extensions, 1)
	assert.Len(t, derived.Extensions, 2)
	assert.Nil(t, ErrNotFound.Extensions)
}

func TestRespondErrorSetsProblemContentType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/agrovets/9", nil)

	RespondError(c, fmt.Errorf("agrovet %w", outcome.ErrNotFound))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"instance":"/v1/agrovets/9"`)
}
