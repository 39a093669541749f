package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

const recentInteractionLimit = 10

type dogRepository interface {
	Create(ctx context.Context, dog *models.Dog) error
	FindByID(ctx context.Context, id string) (*models.Dog, error)
	FindByQRCode(ctx context.Context, code string) (*models.Dog, error)
	ListPublic(ctx context.Context, filter models.DogFilter) ([]models.Dog, error)
	ListPending(ctx context.Context) ([]models.Dog, error)
	ListNeedsNaming(ctx context.Context) ([]models.Dog, error)
	Verify(ctx context.Context, id, qrCode string, officialName *string, now time.Time) error
	SetOfficialName(ctx context.Context, id, name string, now time.Time) (bool, error)
	Deactivate(ctx context.Context, id string, now time.Time) error
	FindSummary(ctx context.Context, dogID string) (*models.DogSummary, error)
	FindSummaries(ctx context.Context, dogIDs []string) (map[string]models.DogSummary, error)
}

type dogInteractionReader interface {
	ListByDog(ctx context.Context, dogID string, limit int) ([]models.InteractionWithNames, error)
}

type pointsAwarder interface {
	AddPoints(ctx context.Context, id string, points int) (int, error)
}

// DogService implements dog listings, self-service stray reports and dog moderation.
type DogService struct {
	dogs         dogRepository
	interactions dogInteractionReader
	points       pointsAwarder
	cache        *CacheService
	cacheTTL     time.Duration
	effects      *SideEffects
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewDogService constructs a DogService.
func NewDogService(dogs dogRepository, interactions dogInteractionReader, points pointsAwarder, cache *CacheService, cacheTTL time.Duration, effects *SideEffects, validate *validator.Validate, logger *zap.Logger) *DogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DogService{
		dogs:         dogs,
		interactions: interactions,
		points:       points,
		cache:        cache,
		cacheTTL:     cacheTTL,
		effects:      effects,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns the public directory. Search matches names and soft locations.
func (s *DogService) List(ctx context.Context, filter models.DogFilter) ([]dto.DogView, error) {
	filter.Search = strings.ToLower(strings.TrimSpace(filter.Search))
	key := CacheKeyDogListPrefix + filter.Search
	views, err := remember(ctx, s.cache, key, s.cacheTTL, func() ([]dto.DogView, error) {
		dogs, err := s.dogs.ListPublic(ctx, filter)
		if err != nil {
			return nil, internalError(err, "failed to list dogs")
		}
		ids := make([]string, 0, len(dogs))
		for _, d := range dogs {
			ids = append(ids, d.ID)
		}
		summaries, err := s.dogs.FindSummaries(ctx, ids)
		if err != nil {
			return nil, internalError(err, "failed to load dog summaries")
		}
		now := s.now()
		views := make([]dto.DogView, 0, len(dogs))
		for _, d := range dogs {
			summary, ok := summaries[d.ID]
			if !ok {
				summary = models.DogSummary{DogID: d.ID}
			}
			views = append(views, dto.NewDogView(d, &summary, now))
		}
		return views, nil
	})
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range views {
		views[i].Refresh(now)
	}
	return views, nil
}

// Get returns the public profile of a verified, visible dog.
func (s *DogService) Get(ctx context.Context, id string) (*dto.DogDetail, error) {
	detail, err := remember(ctx, s.cache, CacheKeyDogProfilePrefix+id, s.cacheTTL, func() (*dto.DogDetail, error) {
		dog, err := s.dogs.FindByID(ctx, id)
		if err != nil {
			return nil, lookupError(err, "dog")
		}
		return s.detail(ctx, dog)
	})
	if err != nil {
		return nil, err
	}
	detail.Refresh(s.now())
	return detail, nil
}

// GetByQRCode resolves a scanned tag to the dog's profile.
func (s *DogService) GetByQRCode(ctx context.Context, code string) (*dto.DogDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "qr code is required")
	}
	dog, err := s.dogs.FindByQRCode(ctx, code)
	if err != nil {
		return nil, lookupError(err, "dog")
	}
	return s.Get(ctx, dog.ID)
}

func (s *DogService) detail(ctx context.Context, dog *models.Dog) (*dto.DogDetail, error) {
	if !dog.Verified || !dog.IsActive || dog.IsHidden {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "dog not found")
	}
	summary, err := s.dogs.FindSummary(ctx, dog.ID)
	if err != nil {
		return nil, internalError(err, "failed to load dog summary")
	}
	recent, err := s.interactions.ListByDog(ctx, dog.ID, recentInteractionLimit)
	if err != nil {
		return nil, internalError(err, "failed to load recent interactions")
	}
	if recent == nil {
		recent = []models.InteractionWithNames{}
	}
	return &dto.DogDetail{DogView: dto.NewDogView(*dog, summary, s.now()), RecentInteractions: recent}, nil
}

// ReportStray lets a participant add an unregistered dog. It starts unverified
// and the reporter earns the stray report award.
func (s *DogService) ReportStray(ctx context.Context, session models.Session, req models.ReportDogRequest) (*models.Outcome[models.Dog], error) {
	if err := RequireParticipant(session); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid dog report payload")
	}
	name := strings.TrimSpace(req.TemporaryName)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "temporary name is required")
	}

	reporter := session.UserID
	dog := &models.Dog{
		TemporaryName:     &name,
		SoftLocations:     cleanLocations(req.SoftLocations),
		VaccinationStatus: req.VaccinationStatus,
		IsActive:          true,
		CreatedBy:         &reporter,
		ReportedBy:        &reporter,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		dog.Description = &desc
	}
	if err := s.dogs.Create(ctx, dog); err != nil {
		return nil, internalError(err, "failed to report dog")
	}

	outcome := &models.Outcome[models.Dog]{Result: *dog}
	_, err := s.points.AddPoints(ctx, session.UserID, rules.PointsReportStray)
	s.effects.Track(outcome, models.EffectAwardPoints, err)
	s.effects.Publish(ctx, outcome, models.ChangeDogCreated, dog.ID, session.UserID)
	if err == nil {
		s.effects.Publish(ctx, outcome, models.ChangeUserPointsAwarded, session.UserID, session.UserID)
	}
	return outcome, nil
}

// Register lets a moderator add a dog that already wears a QR tag. It is verified immediately.
func (s *DogService) Register(ctx context.Context, session models.Session, meta models.RequestMeta, req models.RegisterDogRequest) (*models.Outcome[models.Dog], error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid dog registration payload")
	}
	qr := strings.TrimSpace(req.QRCode)
	if qr == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "qr code is required")
	}
	official := strings.TrimSpace(req.OfficialName)
	temporary := strings.TrimSpace(req.TemporaryName)
	if official == "" && temporary == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "an official or temporary name is required")
	}

	actor := session.UserID
	dog := &models.Dog{
		QRCode:            &qr,
		SoftLocations:     cleanLocations(req.SoftLocations),
		VaccinationStatus: req.VaccinationStatus,
		Verified:          true,
		IsActive:          true,
		CreatedBy:         &actor,
		RegisteredBy:      &actor,
	}
	if official != "" {
		dog.OfficialName = &official
		dog.NameLocked = true
	}
	if temporary != "" {
		dog.TemporaryName = &temporary
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		dog.Description = &desc
	}
	if err := s.dogs.Create(ctx, dog); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.ErrQRConflict
		}
		return nil, internalError(err, "failed to register dog")
	}

	outcome := &models.Outcome[models.Dog]{Result: *dog}
	s.effects.Transition("dog", "register")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionDogRegister, "dog", dog.ID, nil, dog)
	s.effects.Publish(ctx, outcome, models.ChangeDogVerified, dog.ID, session.UserID)
	return outcome, nil
}

// Approve verifies a pending dog with its QR code and, optionally, its official name.
func (s *DogService) Approve(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.ApproveDogRequest) (*models.Outcome[models.Dog], error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid dog approval payload")
	}
	qr := strings.TrimSpace(req.QRCode)
	if qr == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "qr code is required")
	}

	dog, err := s.dogs.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "dog")
	}
	if err := rules.CanApproveDog(*dog); err != nil {
		return nil, transitionError("dog")
	}

	var official *string
	if name := strings.TrimSpace(req.OfficialName); name != "" && !dog.NameLocked {
		official = &name
	}
	now := s.now().UTC()
	if err := s.dogs.Verify(ctx, dog.ID, qr, official, now); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.ErrQRConflict
		}
		return nil, internalError(err, "failed to approve dog")
	}

	before := *dog
	dog.Verified = true
	dog.QRCode = &qr
	if official != nil {
		dog.OfficialName = official
		dog.NameLocked = true
	}
	dog.UpdatedAt = now

	outcome := &models.Outcome[models.Dog]{Result: *dog}
	s.effects.Transition("dog", "approve")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionDogApprove, "dog", dog.ID, before, dog)
	s.effects.Publish(ctx, outcome, models.ChangeDogVerified, dog.ID, session.UserID)
	return outcome, nil
}

// Reject retires a pending dog. Rejection is terminal.
func (s *DogService) Reject(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.Dog], error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	dog, err := s.dogs.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "dog")
	}
	if err := rules.CanRejectDog(*dog); err != nil {
		return nil, transitionError("dog")
	}
	now := s.now().UTC()
	if err := s.dogs.Deactivate(ctx, dog.ID, now); err != nil {
		return nil, internalError(err, "failed to reject dog")
	}
	dog.IsActive = false
	dog.UpdatedAt = now

	outcome := &models.Outcome[models.Dog]{Result: *dog}
	s.effects.Transition("dog", "reject")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionDogReject, "dog", dog.ID, nil, nil)
	s.effects.Publish(ctx, outcome, models.ChangeDogRejected, dog.ID, session.UserID)
	return outcome, nil
}

// Name sets the official name of a verified dog. Names lock once set.
func (s *DogService) Name(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.NameDogRequest) (*models.Outcome[models.Dog], error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid dog name payload")
	}
	name := strings.TrimSpace(req.OfficialName)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "official name is required")
	}

	dog, err := s.dogs.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "dog")
	}
	if !dog.Verified || rules.CanNameDog(*dog) != nil {
		return nil, transitionError("dog")
	}
	now := s.now().UTC()
	changed, err := s.dogs.SetOfficialName(ctx, dog.ID, name, now)
	if err != nil {
		return nil, internalError(err, "failed to name dog")
	}
	if !changed {
		return nil, transitionError("dog")
	}
	dog.OfficialName = &name
	dog.NameLocked = true
	dog.UpdatedAt = now

	outcome := &models.Outcome[models.Dog]{Result: *dog}
	s.effects.Transition("dog", "name")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionDogName, "dog", dog.ID, nil, map[string]string{"official_name": name})
	s.effects.Publish(ctx, outcome, models.ChangeDogNamed, dog.ID, session.UserID)
	return outcome, nil
}

// ListPending returns the dog moderation queue.
func (s *DogService) ListPending(ctx context.Context, session models.Session) ([]models.Dog, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	dogs, err := s.dogs.ListPending(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list pending dogs")
	}
	return dogs, nil
}

// ListNeedsNaming returns verified dogs still waiting for an official name.
func (s *DogService) ListNeedsNaming(ctx context.Context, session models.Session) ([]models.Dog, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	dogs, err := s.dogs.ListNeedsNaming(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list dogs needing names")
	}
	return dogs, nil
}

func cleanLocations(in []string) []string {
	out := make([]string, 0, len(in))
	for _, loc := range in {
		if loc = strings.TrimSpace(loc); loc != "" {
			out = append(out, loc)
		}
	}
	return out
}
