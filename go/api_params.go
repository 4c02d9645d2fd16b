package marketplaceserver

import (
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// parseIDParam binds a simple-style path parameter into an unsigned record id.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	var id uint64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return id, true
}
