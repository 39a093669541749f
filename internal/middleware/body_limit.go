package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

// MultipartOverhead is the slack allowed on top of the file limit for form fields
// and part headers.
const MultipartOverhead int64 = 64 << 10

// UploadLimit caps multipart upload bodies at maxFile plus MultipartOverhead so an
// oversized file is refused before it is spooled to disk. A declared length over the
// cap is rejected outright; chunked bodies are cut off by http.MaxBytesReader.
func UploadLimit(maxFile int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxFile <= 0 {
			c.Next()
			return
		}
		limit := maxFile + MultipartOverhead
		if c.Request.ContentLength > limit {
			response.Abort(c, appErrors.ErrFileTooLarge.WithMeta("max_bytes", maxFile))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
