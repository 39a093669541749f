package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/service"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type leaderboardService interface {
	ClampLimit(limit int) int
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Export(ctx context.Context, session models.Session, format string, limit int) (*service.ExportFile, error)
	CampusStats(ctx context.Context) (*models.CampusStats, error)
}

// LeaderboardHandler serves rankings, campus counters and leaderboard exports.
type LeaderboardHandler struct {
	service leaderboardService
}

// NewLeaderboardHandler constructs the handler.
func NewLeaderboardHandler(service leaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Leaderboard godoc
// @Summary Student ranking by points
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Maximum rows"
// @Success 200 {object} response.Envelope
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	limit := h.service.ClampLimit(queryInt(c, "limit", 0))
	entries, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"limit": limit})
}

// Stats godoc
// @Summary Campus counters
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *LeaderboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.CampusStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Export godoc
// @Summary Download the leaderboard
// @Tags Moderation
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param limit query int false "Maximum rows"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /admin/leaderboard/export [get]
func (h *LeaderboardHandler) Export(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), session, c.DefaultQuery("format", "csv"), queryInt(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
