package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type profileService interface {
	Me(ctx context.Context, session models.Session) (*dto.ProfileResponse, error)
	RequestUsername(ctx context.Context, session models.Session, req models.RequestUsernameRequest) (*models.Outcome[models.User], error)
	UpdateBirthdate(ctx context.Context, session models.Session, req models.UpdateBirthdateRequest) (*models.User, error)
	UploadAvatar(ctx context.Context, session models.Session, in models.UploadInput, body io.Reader) (*models.Outcome[models.User], error)
}

// ProfileHandler serves the signed-in user's own profile.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me godoc
// @Summary Current profile
// @Description Profile with rank, recent interactions and cooldown state.
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	profile, err := h.service.Me(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// RequestUsername godoc
// @Summary Request a username
// @Description Students queue the request for review. Moderators change it directly.
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body models.RequestUsernameRequest true "Username"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /me/username [put]
func (h *ProfileHandler) RequestUsername(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.RequestUsernameRequest
	if !bindJSON(c, &req, "invalid username payload") {
		return
	}
	outcome, err := h.service.RequestUsername(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusAccepted
	if outcome.Result.RequestedUsername == nil {
		status = http.StatusOK
	}
	respondOutcome(c, status, outcome)
}

// UpdateBirthdate godoc
// @Summary Set birthdate
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body models.UpdateBirthdateRequest true "Birthdate"
// @Success 200 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /me/birthdate [put]
func (h *ProfileHandler) UpdateBirthdate(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.UpdateBirthdateRequest
	if !bindJSON(c, &req, "invalid birthdate payload") {
		return
	}
	user, err := h.service.UpdateBirthdate(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// UploadAvatar godoc
// @Summary Replace profile picture
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /me/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
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

	outcome, err := h.service.UploadAvatar(c.Request.Context(), session, in, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusOK, outcome)
}
