package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/middleware"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type adminService interface {
	ListUsers(ctx context.Context, session models.Session, filter models.UserFilter) ([]models.User, *models.Pagination, error)
	UpdateRole(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.UpdateRoleRequest) (*models.Outcome[models.User], error)
	Suspend(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.SuspendUserRequest) (*models.Outcome[models.User], error)
	Unsuspend(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.User], error)
	SetHidden(ctx context.Context, session models.Session, meta models.RequestMeta, id string, hidden bool) (*models.Outcome[models.User], error)
	Delete(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.User], error)
	AuditTrail(ctx context.Context, session models.Session, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AdminHandler exposes super admin user management.
type AdminHandler struct {
	service adminService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service adminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers godoc
// @Summary List users
// @Tags Admin
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param role query string false "Role filter"
// @Param search query string false "Email or username search"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	filter := models.UserFilter{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}

	users, pagination, err := h.service.ListUsers(c.Request.Context(), session, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// UpdateRole godoc
// @Summary Change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body models.UpdateRoleRequest true "Role"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.UpdateRoleRequest
	if !bindJSON(c, &req, "invalid role payload") {
		return
	}
	outcome, err := h.service.UpdateRole(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Suspend godoc
// @Summary Suspend a user
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body models.SuspendUserRequest true "Reason and optional end"
// @Success 200 {object} response.Envelope
// @Router /admin/users/{id}/suspend [post]
func (h *AdminHandler) Suspend(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.SuspendUserRequest
	if !bindJSON(c, &req, "invalid suspension payload") {
		return
	}
	outcome, err := h.service.Suspend(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Unsuspend godoc
// @Summary Lift a suspension
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/users/{id}/unsuspend [post]
func (h *AdminHandler) Unsuspend(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := h.service.Unsuspend(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Hide godoc
// @Summary Hide a user
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/users/{id}/hide [post]
func (h *AdminHandler) Hide(c *gin.Context) {
	h.setHidden(c, true)
}

// Unhide godoc
// @Summary Unhide a user
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/users/{id}/unhide [post]
func (h *AdminHandler) Unhide(c *gin.Context) {
	h.setHidden(c, false)
}

func (h *AdminHandler) setHidden(c *gin.Context, hidden bool) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := h.service.SetHidden(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"), hidden)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Delete godoc
// @Summary Delete a user
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := h.service.Delete(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// AuditTrail godoc
// @Summary Moderation and administration audit log
// @Tags Admin
// @Produce json
// @Param resource query string false "Resource filter"
// @Param actor_id query string false "Actor filter"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /admin/audit [get]
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	filter := models.AuditFilter{
		Resource: c.Query("resource"),
		ActorID:  c.Query("actor_id"),
		Limit:    queryInt(c, "limit", 0),
	}
	logs, err := h.service.AuditTrail(c.Request.Context(), session, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
