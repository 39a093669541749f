package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/response"
)

type interactionService interface {
	Log(ctx context.Context, session models.Session, dogID string, req models.LogInteractionRequest) (*models.Outcome[models.DogInteraction], error)
}

// InteractionHandler records care actions.
type InteractionHandler struct {
	service interactionService
}

// NewInteractionHandler constructs the handler.
func NewInteractionHandler(service interactionService) *InteractionHandler {
	return &InteractionHandler{service: service}
}

// Log godoc
// @Summary Log a care interaction
// @Description Records feeding, health checks, location updates and other care actions. Awards points to the caller.
// @Tags Interactions
// @Accept json
// @Produce json
// @Param id path string true "Dog ID"
// @Param payload body models.LogInteractionRequest true "Interaction"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dogs/{id}/interactions [post]
func (h *InteractionHandler) Log(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	var req models.LogInteractionRequest
	if !bindJSON(c, &req, "invalid interaction payload") {
		return
	}
	outcome, err := h.service.Log(c.Request.Context(), session, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOutcome(c, http.StatusCreated, outcome)
}
