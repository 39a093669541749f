package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/middleware"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type dogService interface {
	List(ctx context.Context, filter models.DogFilter) ([]dto.DogView, error)
	Get(ctx context.Context, id string) (*dto.DogDetail, error)
	GetByQRCode(ctx context.Context, code string) (*dto.DogDetail, error)
	ReportStray(ctx context.Context, session models.Session, req models.ReportDogRequest) (*models.Outcome[models.Dog], error)
	Register(ctx context.Context, session models.Session, meta models.RequestMeta, req models.RegisterDogRequest) (*models.Outcome[models.Dog], error)
	Approve(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.ApproveDogRequest) (*models.Outcome[models.Dog], error)
	Reject(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.Dog], error)
	Name(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.NameDogRequest) (*models.Outcome[models.Dog], error)
	ListPending(ctx context.Context, session models.Session) ([]models.Dog, error)
	ListNeedsNaming(ctx context.Context, session models.Session) ([]models.Dog, error)
}

// DogHandler exposes dog listings, stray reports and dog moderation.
type DogHandler struct {
	service dogService
}

// NewDogHandler constructs the handler.
func NewDogHandler(service dogService) *DogHandler {
	return &DogHandler{service: service}
}

// List godoc
// @Summary List verified dogs
// @Tags Dogs
// @Produce json
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /dogs [get]
func (h *DogHandler) List(c *gin.Context) {
	dogs, err := h.service.List(c.Request.Context(), models.DogFilter{Search: strings.TrimSpace(c.Query("search"))})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dogs, nil)
}

// Get godoc
// @Summary Dog profile
// @Tags Dogs
// @Produce json
// @Param id path string true "Dog ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dogs/{id} [get]
func (h *DogHandler) Get(c *gin.Context) {
	dog, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dog, nil)
}

// GetByQRCode godoc
// @Summary Resolve a scanned QR tag
// @Tags Dogs
// @Produce json
// @Param code path string true "QR code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dogs/qr/{code} [get]
func (h *DogHandler) GetByQRCode(c *gin.Context) {
	dog, err := h.service.GetByQRCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dog, nil)
}

// ReportStray godoc
// @Summary Report an unregistered stray
// @Tags Dogs
// @Accept json
// @Produce json
// @Param payload body models.ReportDogRequest true "Stray report"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dogs/report [post]
func (h *DogHandler) ReportStray(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.ReportDogRequest
	if !bindJSON(c, &req, "invalid dog report payload") {
		return
	}
	outcome, err := h.service.ReportStray(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusCreated, outcome)
}

// Register godoc
// @Summary Register a dog with its QR tag
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body models.RegisterDogRequest true "Dog"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/dogs [post]
func (h *DogHandler) Register(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.RegisterDogRequest
	if !bindJSON(c, &req, "invalid dog payload") {
		return
	}
	outcome, err := h.service.Register(c.Request.Context(), session, middleware.RequestMetaFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusCreated, outcome)
}

// Approve godoc
// @Summary Verify a pending dog
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Dog ID"
// @Param payload body models.ApproveDogRequest true "QR code and optional name"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/dogs/{id}/approve [post]
func (h *DogHandler) Approve(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.ApproveDogRequest
	if !bindJSON(c, &req, "invalid approval payload") {
		return
	}
	outcome, err := h.service.Approve(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Reject godoc
// @Summary Reject a pending dog
// @Tags Moderation
// @Produce json
// @Param id path string true "Dog ID"
// @Success 200 {object} response.Envelope
// @Router /admin/dogs/{id}/reject [post]
func (h *DogHandler) Reject(c *gin.Context) {
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

// Name godoc
// @Summary Assign the official name of a verified dog
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Dog ID"
// @Param payload body models.NameDogRequest true "Official name"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/dogs/{id}/name [post]
func (h *DogHandler) Name(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.NameDogRequest
	if !bindJSON(c, &req, "invalid name payload") {
		return
	}
	outcome, err := h.service.Name(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// ListPending godoc
// @Summary Dogs awaiting verification
// @Tags Moderation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dogs/pending [get]
func (h *DogHandler) ListPending(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	dogs, err := h.service.ListPending(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dogs, nil)
}

// ListNeedsNaming godoc
// @Summary Verified dogs without an official name
// @Tags Moderation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dogs/needs-naming [get]
func (h *DogHandler) ListNeedsNaming(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	dogs, err := h.service.ListNeedsNaming(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dogs, nil)
}
