package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-paws-api/internal/middleware"
)

func newLimitedUploadRouter(svc *fakeGalleryService, maxFile int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	withStudent := func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, student("s1"))
		c.Next()
	}
	r.POST("/gallery", withStudent, middleware.UploadLimit(maxFile), NewGalleryHandler(svc).Upload)
	return r
}

func TestUploadLimitRejectsDeclaredOversizeBody(t *testing.T) {
	svc := &fakeGalleryService{}
	r := newLimitedUploadRouter(svc, 1024)
	body, contentType := multipartBody(t, "file", "big.png", make([]byte, 1024+middleware.MultipartOverhead+1), nil)

	req := httptest.NewRequest(http.MethodPost, "/gallery", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decode(t, rec).Error["code"])
	assert.Nil(t, svc.stored)
}

func TestUploadLimitCutsOffUndeclaredBody(t *testing.T) {
	svc := &fakeGalleryService{}
	r := newLimitedUploadRouter(svc, 1024)
	body, contentType := multipartBody(t, "file", "big.png", make([]byte, 2*(1024+middleware.MultipartOverhead)), nil)

	req := httptest.NewRequest(http.MethodPost, "/gallery", body)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Nil(t, svc.stored)
}

func TestUploadLimitPassesSmallFiles(t *testing.T) {
	svc := &fakeGalleryService{}
	r := newLimitedUploadRouter(svc, 1024)
	body, contentType := multipartBody(t, "file", "small.png", pngBytes, nil)

	req := httptest.NewRequest(http.MethodPost, "/gallery", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, pngBytes, svc.stored)
}
