package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

const contextRequestMetaKey = "request_meta"

// AuditMeta captures the client details that moderation and admin audit entries record.
func AuditMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextRequestMetaKey, models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")})
		c.Next()
	}
}

// RequestMetaFromContext returns the details stored by AuditMeta, falling back to the raw request.
func RequestMetaFromContext(c *gin.Context) models.RequestMeta {
	if value, ok := c.Get(contextRequestMetaKey); ok {
		if meta, ok := value.(models.RequestMeta); ok {
			return meta
		}
	}
	if c.Request == nil {
		return models.RequestMeta{}
	}
	return models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}
