package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

type interactionRepository interface {
	Create(ctx context.Context, in *models.DogInteraction) error
}

type dogFinder interface {
	FindByID(ctx context.Context, id string) (*models.Dog, error)
}

// InteractionService logs feeding, petting and sightings and awards their points.
type InteractionService struct {
	interactions interactionRepository
	dogs         dogFinder
	points       pointsAwarder
	effects      *SideEffects
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewInteractionService constructs an InteractionService.
func NewInteractionService(interactions interactionRepository, dogs dogFinder, points pointsAwarder, effects *SideEffects, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *InteractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InteractionService{
		interactions: interactions,
		dogs:         dogs,
		points:       points,
		effects:      effects,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// Log records a caring action on dogID. The interaction is the primary write;
// the point award that follows is best-effort.
func (s *InteractionService) Log(ctx context.Context, session models.Session, dogID string, req models.LogInteractionRequest) (*models.Outcome[models.DogInteraction], error) {
	if err := RequireParticipant(session); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid interaction payload")
	}
	kind, ok := models.ParseInteractionType(req.Type)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "type must be one of feeding, petting or location_update")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "latitude and longitude must be sent together")
	}

	dog, err := s.dogs.FindByID(ctx, dogID)
	if err != nil {
		return nil, lookupError(err, "dog")
	}
	if !dog.Verified || !dog.IsActive || dog.IsHidden {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "dog not found")
	}

	points := rules.PointsFor(kind)
	interaction := &models.DogInteraction{
		DogID:           dog.ID,
		UserID:          session.UserID,
		InteractionType: kind,
		MoodRating:      req.MoodRating,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		PointsAwarded:   points,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, internalError(err, "failed to log interaction")
	}
	s.metrics.RecordInteraction(string(kind))

	outcome := &models.Outcome[models.DogInteraction]{Result: *interaction}
	_, err = s.points.AddPoints(ctx, session.UserID, points)
	s.effects.Track(outcome, models.EffectAwardPoints, err)
	s.effects.Publish(ctx, outcome, models.ChangeInteractionLogged, dog.ID, session.UserID)
	if err == nil {
		s.effects.Publish(ctx, outcome, models.ChangeUserPointsAwarded, session.UserID, session.UserID)
	}
	return outcome, nil
}
