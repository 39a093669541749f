package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func do(allowed []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(allowed))
	r.Any("/dogs", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/dogs", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowedOrigin(t *testing.T) {
	w := do([]string{"https://paws.campus.edu/"}, http.MethodGet, "https://paws.campus.edu")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://paws.campus.edu", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	w := do([]string{"https://paws.campus.edu"}, http.MethodOptions, "https://paws.campus.edu")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	w = do([]string{"https://paws.campus.edu"}, http.MethodOptions, "https://evil.test")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSUnknownOriginPassesWithoutHeaders(t *testing.T) {
	w := do([]string{"https://paws.campus.edu"}, http.MethodGet, "https://evil.test")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowAllInDevelopment(t *testing.T) {
	w := do(nil, http.MethodGet, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
