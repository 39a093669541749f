package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/middleware"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type reportService interface {
	Create(ctx context.Context, session models.Session, req models.CreateReportRequest) (*models.Outcome[models.UserReport], error)
	List(ctx context.Context, session models.Session, filter models.ReportFilter) ([]models.ReportWithNames, error)
	Dismiss(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.UserReport], error)
	TakeAction(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.ResolveReportRequest) (*models.Outcome[models.UserReport], error)
	Restore(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.UserReport], error)
}

// ReportHandler exposes content reports and their resolution.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create godoc
// @Summary Report a user, photo or dog
// @Description Image and dog targets are hidden until a moderator resolves the report. One report per target per day.
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body models.CreateReportRequest true "Report"
// @Success 201 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.CreateReportRequest
	if !bindJSON(c, &req, "invalid report payload") {
		return
	}
	outcome, err := h.service.Create(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusCreated, outcome)
}

// List godoc
// @Summary Report queue
// @Tags Moderation
// @Produce json
// @Param status query string false "pending, dismissed or action_taken"
// @Param target_type query string false "user, image or dog"
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /admin/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	filter := models.ReportFilter{Limit: queryInt(c, "limit", 0)}
	if status := c.Query("status"); status != "" {
		s := models.ReportStatus(status)
		filter.Status = &s
	}
	if target := c.Query("target_type"); target != "" {
		t := models.ReportTargetType(target)
		filter.TargetType = &t
	}
	reports, err := h.service.List(c.Request.Context(), session, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// Dismiss godoc
// @Summary Dismiss a report
// @Tags Moderation
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/reports/{id}/dismiss [post]
func (h *ReportHandler) Dismiss(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := h.service.Dismiss(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// TakeAction godoc
// @Summary Resolve a report with action
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body models.ResolveReportRequest false "Action"
// @Success 200 {object} response.Envelope
// @Router /admin/reports/{id}/action [post]
func (h *ReportHandler) TakeAction(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.ResolveReportRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "invalid action payload") {
		return
	}
	outcome, err := h.service.TakeAction(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}

// Restore godoc
// @Summary Restore reported content and dismiss the report
// @Tags Moderation
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /admin/reports/{id}/restore [post]
func (h *ReportHandler) Restore(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	outcome, err := h.service.Restore(c.Request.Context(), session, middleware.RequestMetaFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}
