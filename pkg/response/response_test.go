package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestErrorLiftsMetaAndRetryAfter(t *testing.T) {
	c, w := newContext()

	Error(c, appErrors.ErrCooldownActive.WithMeta("days_remaining", 3))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "259200", w.Header().Get("Retry-After"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "COOLDOWN_ACTIVE", body["error"].(map[string]interface{})["code"])
	assert.Equal(t, float64(3), body["meta"].(map[string]interface{})["days_remaining"])
}

func TestErrorHidesUnknownCauses(t *testing.T) {
	c, w := newContext()

	Error(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestJSONOmitsEmptyMeta(t *testing.T) {
	c, w := newContext()

	JSON(c, http.StatusOK, []string{"a"}, nil, map[string]interface{}{})

	assert.JSONEq(t, `{"data":["a"]}`, w.Body.String())
}

func TestAttachment(t *testing.T) {
	c, w := newContext()

	Attachment(c, "leaderboard.csv", "text/csv", []byte("rank\n1\n"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="leaderboard.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "rank\n1\n", w.Body.String())
}
