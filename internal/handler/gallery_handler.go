package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/middleware"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type galleryService interface {
	Upload(ctx context.Context, session models.Session, in models.UploadInput, body io.Reader) (*models.Outcome[models.GalleryImage], error)
	Approve(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.GalleryImage], error)
	Reject(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.GalleryImage], error)
	ListApproved(ctx context.Context) ([]models.GalleryImageWithUploader, error)
	ListPending(ctx context.Context, session models.Session) ([]dto.PendingImage, error)
	OpenPreview(ctx context.Context, token string) (io.ReadCloser, string, error)
}

// GalleryHandler exposes the photo gallery and its moderation.
type GalleryHandler struct {
	service galleryService
}

// NewGalleryHandler constructs the handler.
func NewGalleryHandler(service galleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// List godoc
// @Summary Approved gallery photos
// @Tags Gallery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, images, nil)
}

// Upload godoc
// @Summary Upload a photo
// @Description Moderator uploads publish immediately; others wait for review.
// @Tags Gallery
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Param dog_id formData string false "Dog pictured"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /gallery [post]
func (h *GalleryHandler) Upload(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	in, body, closer, err := readUpload(c, "file")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closer.Close()
	if dogID := strings.TrimSpace(c.PostForm("dog_id")); dogID != "" {
		in.DogID = &dogID
	}

	outcome, err := h.service.Upload(c.Request.Context(), session, in, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusCreated, outcome)
}

// ListPending godoc
// @Summary Photos awaiting review
// @Tags Moderation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/images/pending [get]
func (h *GalleryHandler) ListPending(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	images, err := h.service.ListPending(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, images, nil)
}

// Approve godoc
// @Summary Publish a pending photo
// @Tags Moderation
// @Produce json
// @Param id path string true "Image ID"
// @Success 200 {object} response.Envelope
// @Router /admin/images/{id}/approve [post]
func (h *GalleryHandler) Approve(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := h.service.Approve(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Reject godoc
// @Summary Reject a pending photo
// @Tags Moderation
// @Produce json
// @Param id path string true "Image ID"
// @Success 200 {object} response.Envelope
// @Router /admin/images/{id}/reject [post]
func (h *GalleryHandler) Reject(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := h.service.Reject(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Media godoc
// @Summary Stream a moderation preview
// @Tags Moderation
// @Produce octet-stream
// @Param token path string true "Signed preview token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /media/{token} [get]
func (h *GalleryHandler) Media(c *gin.Context) {
	rc, key, err := h.service.OpenPreview(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()
	c.Header("Cache-Control", "private, no-store")
	c.DataFromReader(http.StatusOK, -1, contentTypeFor(key), rc, nil)
}
