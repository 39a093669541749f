package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
	"github.com/noah-isme/campus-paws-api/pkg/storage"
)

const birthdateLayout = "2006-01-02"

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	SetRequestedUsername(ctx context.Context, id, username string, now time.Time) error
	CommitUsername(ctx context.Context, id, username string, nextChange *time.Time, now time.Time) error
	UpdateBirthdate(ctx context.Context, id string, birthdate time.Time, now time.Time) error
	UpdateAvatar(ctx context.Context, id, path string, status models.AvatarStatus, now time.Time) error
	CountHigherRanked(ctx context.Context, points int) (int, error)
}

type userInteractionReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.InteractionWithNames, error)
}

// ProfilePolicy holds the profile cooldown windows.
type ProfilePolicy struct {
	UsernameCooldown  time.Duration
	BirthdateCooldown time.Duration
}

// ProfileService serves the signed-in user's profile and self-service edits.
type ProfileService struct {
	users        profileRepository
	interactions userInteractionReader
	store        storage.ObjectStore
	upload       UploadPolicy
	policy       ProfilePolicy
	effects      *SideEffects
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewProfileService constructs a ProfileService and registers the username validator.
func NewProfileService(users profileRepository, interactions userInteractionReader, store storage.ObjectStore, upload UploadPolicy, policy ProfilePolicy, effects *SideEffects, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if policy.UsernameCooldown <= 0 {
		policy.UsernameCooldown = 30 * 24 * time.Hour
	}
	if policy.BirthdateCooldown <= 0 {
		policy.BirthdateCooldown = 7 * 24 * time.Hour
	}
	svc := &ProfileService{
		users:        users,
		interactions: interactions,
		store:        store,
		upload:       upload,
		policy:       policy,
		effects:      effects,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
	_ = svc.validator.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return rules.ValidateUsername(rules.NormalizeUsername(fl.Field().String())) == nil
	})
	return svc
}

// Me returns the profile, rank, recent activity and cooldowns of the session user.
func (s *ProfileService) Me(ctx context.Context, session models.Session) (*dto.ProfileResponse, error) {
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, lookupError(err, "profile")
	}
	now := s.now().UTC()

	var rank *int
	if !rules.Unranked(*user) {
		higher, err := s.users.CountHigherRanked(ctx, user.Points)
		if err != nil {
			return nil, internalError(err, "failed to compute rank")
		}
		r := rules.RankFromHigher(higher)
		rank = &r
	}

	recent, err := s.interactions.ListByUser(ctx, user.ID, recentInteractionLimit)
	if err != nil {
		return nil, internalError(err, "failed to load recent interactions")
	}
	if recent == nil {
		recent = []models.InteractionWithNames{}
	}

	if user.AvatarURL != nil {
		url := s.store.URL(*user.AvatarURL)
		user.AvatarURL = &url
	}

	return &dto.ProfileResponse{
		User:               *user,
		Rank:               rank,
		CanParticipate:     rules.CanParticipate(models.NewSession(*user)),
		RecentInteractions: recent,
		UsernameCooldown:   s.usernameCooldown(*user, now),
		BirthdateCooldown:  s.birthdateCooldown(*user, now),
	}, nil
}

func (s *ProfileService) usernameCooldown(u models.User, now time.Time) models.CooldownStatus {
	if u.Role.Privileged() {
		return models.CooldownStatus{}
	}
	days, active := rules.CooldownUntil(u.NextUsernameChange, now)
	if !active {
		return models.CooldownStatus{}
	}
	return models.CooldownStatus{Active: true, DaysRemaining: days, Until: u.NextUsernameChange}
}

func (s *ProfileService) birthdateCooldown(u models.User, now time.Time) models.CooldownStatus {
	days, active := rules.CooldownRemaining(u.BirthdateUpdatedAt, s.policy.BirthdateCooldown, now)
	if !active {
		return models.CooldownStatus{}
	}
	until := u.BirthdateUpdatedAt.Add(s.policy.BirthdateCooldown)
	return models.CooldownStatus{Active: true, DaysRemaining: days, Until: &until}
}

func cooldownError(status models.CooldownStatus, field string) error {
	return appErrors.Clone(appErrors.ErrCooldownActive, fmt.Sprintf("%s can be changed again in %d day(s)", field, status.DaysRemaining)).
		WithMeta("days_remaining", status.DaysRemaining)
}

// RequestUsername asks for a new username. Students queue it for moderation and
// are bound by the change cooldown; presidents and admins commit it directly.
func (s *ProfileService) RequestUsername(ctx context.Context, session models.Session, req models.RequestUsernameRequest) (*models.Outcome[models.User], error) {
	username := rules.NormalizeUsername(req.Username)
	if err := rules.ValidateUsername(username); err != nil {
		return nil, validationError(err, err.Error())
	}
	req.Username = username
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid username payload")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, lookupError(err, "profile")
	}
	if user.HasUsername() && *user.Username == username && user.UsernameVerified {
		return nil, appErrors.Clone(appErrors.ErrValidation, "this is already your username")
	}

	now := s.now().UTC()
	privileged := user.Role.Privileged()
	if !privileged {
		if status := s.usernameCooldown(*user, now); status.Active {
			return nil, cooldownError(status, "username")
		}
	}

	taken, err := s.users.UsernameTaken(ctx, username, user.ID)
	if err != nil {
		return nil, internalError(err, "failed to check username")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
	}

	outcome := &models.Outcome[models.User]{}
	if privileged {
		if err := s.users.CommitUsername(ctx, user.ID, username, nil, now); err != nil {
			if isUniqueViolation(err) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
			}
			return nil, internalError(err, "failed to update username")
		}
		user.Username = &username
		user.RequestedUsername = nil
		user.UsernameVerified = true
		outcome.Result = *user
		s.effects.Publish(ctx, outcome, models.ChangeUsernameApproved, user.ID, user.ID)
		return outcome, nil
	}

	if err := s.users.SetRequestedUsername(ctx, user.ID, username, now); err != nil {
		return nil, internalError(err, "failed to request username")
	}
	user.RequestedUsername = &username
	outcome.Result = *user
	s.effects.Publish(ctx, outcome, models.ChangeUsernameRequested, user.ID, user.ID)
	return outcome, nil
}

// UpdateBirthdate sets the birthdate. Changes are limited by a fixed window with no role bypass.
func (s *ProfileService) UpdateBirthdate(ctx context.Context, session models.Session, req models.UpdateBirthdateRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid birthdate payload")
	}
	birthdate, err := time.Parse(birthdateLayout, req.Birthdate)
	if err != nil {
		return nil, validationError(err, "birthdate must be formatted YYYY-MM-DD")
	}
	now := s.now().UTC()
	if birthdate.After(now) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "birthdate cannot be in the future")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, lookupError(err, "profile")
	}
	if status := s.birthdateCooldown(*user, now); status.Active {
		return nil, cooldownError(status, "birthdate")
	}
	if err := s.users.UpdateBirthdate(ctx, user.ID, birthdate, now); err != nil {
		return nil, internalError(err, "failed to update birthdate")
	}
	user.Birthdate = &birthdate
	user.BirthdateUpdatedAt = &now
	return user, nil
}

// UploadAvatar replaces the profile picture. Student avatars await moderation.
func (s *ProfileService) UploadAvatar(ctx context.Context, session models.Session, in models.UploadInput, body io.Reader) (*models.Outcome[models.User], error) {
	if err := RequireParticipant(session); err != nil {
		return nil, err
	}
	mime, ext, err := s.upload.check(in)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, lookupError(err, "profile")
	}

	key := fmt.Sprintf("avatars/%s/avatar.%s", user.ID, ext)
	if err := s.store.Put(ctx, key, body, in.Size, mime); err != nil {
		return nil, internalError(err, "failed to store avatar")
	}
	status := models.AvatarPending
	if rules.CanModerate(session) {
		status = models.AvatarApproved
	}
	now := s.now().UTC()
	if err := s.users.UpdateAvatar(ctx, user.ID, key, status, now); err != nil {
		return nil, internalError(err, "failed to update avatar")
	}

	outcome := &models.Outcome[models.User]{}
	if user.AvatarURL != nil && *user.AvatarURL != key {
		s.effects.Track(outcome, models.EffectRemoveObject, s.store.Remove(ctx, *user.AvatarURL))
	}
	user.AvatarURL = &key
	user.AvatarStatus = &status
	user.AvatarUpdatedAt = &now
	outcome.Result = *user
	s.effects.Publish(ctx, outcome, models.ChangeAvatarUpdated, user.ID, user.ID)
	return outcome, nil
}
