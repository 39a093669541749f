package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/middleware"
	"github.com/noah-isme/campus-paws-api/internal/models"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

// sessionOrAbort returns the caller's session or writes a 401 when the route was not behind JWT.
func sessionOrAbort(c *gin.Context) (models.Session, bool) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Session{}, false
	}
	return *session, true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if value, err := strconv.Atoi(c.Query(key)); err == nil {
		return value
	}
	return fallback
}

// respondOutcome writes the primary result. Side effects that failed are surfaced in meta.
func respondOutcome[T any](c *gin.Context, status int, outcome *models.Outcome[T]) {
	var meta map[string]interface{}
	if failed := outcome.Failed(); len(failed) > 0 {
		meta = map[string]interface{}{"side_effects": failed}
	}
	response.JSON(c, status, outcome.Result, nil, meta)
}
