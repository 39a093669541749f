package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/middleware"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type moderationService interface {
	Queue(ctx context.Context, session models.Session) (*dto.ModerationQueue, error)
	ListUsernameRequests(ctx context.Context, session models.Session) ([]models.UsernameRequest, error)
	ApproveUsername(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error)
	RejectUsername(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error)
	ApproveAvatar(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error)
	RejectAvatar(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error)
}

type userDecision func(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error)

// ModerationHandler exposes the combined queue and username and avatar review.
type ModerationHandler struct {
	service moderationService
}

// NewModerationHandler constructs the handler.
func NewModerationHandler(service moderationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// Queue godoc
// @Summary Everything awaiting review
// @Tags Moderation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/queue [get]
func (h *ModerationHandler) Queue(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	queue, err := h.service.Queue(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, queue, nil)
}

// ListUsernames godoc
// @Summary Pending username requests
// @Tags Moderation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/usernames [get]
func (h *ModerationHandler) ListUsernames(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	requests, err := h.service.ListUsernameRequests(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// ApproveUsername godoc
// @Summary Approve a requested username
// @Tags Moderation
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/usernames/{id}/approve [post]
func (h *ModerationHandler) ApproveUsername(c *gin.Context) {
	h.decide(c, h.service.ApproveUsername)
}

// RejectUsername godoc
// @Summary Reject a requested username
// @Tags Moderation
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/usernames/{id}/reject [post]
func (h *ModerationHandler) RejectUsername(c *gin.Context) {
	h.decide(c, h.service.RejectUsername)
}

// ApproveAvatar godoc
// @Summary Approve a pending avatar
// @Tags Moderation
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/avatars/{id}/approve [post]
func (h *ModerationHandler) ApproveAvatar(c *gin.Context) {
	h.decide(c, h.service.ApproveAvatar)
}

// RejectAvatar godoc
// @Summary Reject a pending avatar
// @Tags Moderation
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/avatars/{id}/reject [post]
func (h *ModerationHandler) RejectAvatar(c *gin.Context) {
	h.decide(c, h.service.RejectAvatar)
}

func (h *ModerationHandler) decide(c *gin.Context, decision userDecision) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := decision(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}
