package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/service"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

// guard runs check against the session stored by JWT.
func guard(check func(models.Session) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if err := check(*session); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}

// RequireParticipant blocks shared-content writes until the caller has a verified username.
func RequireParticipant() gin.HandlerFunc {
	return guard(service.RequireParticipant)
}

// RequireModerator allows presidents and admins.
func RequireModerator() gin.HandlerFunc {
	return guard(service.RequireModerator)
}

// RequireSuperAdmin allows super admins only.
func RequireSuperAdmin() gin.HandlerFunc {
	return guard(service.RequireSuperAdmin)
}
