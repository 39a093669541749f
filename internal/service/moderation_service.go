package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
	"github.com/noah-isme/campus-paws-api/pkg/storage"
)

type moderationUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	CommitUsername(ctx context.Context, id, username string, nextChange *time.Time, now time.Time) error
	ClearRequestedUsername(ctx context.Context, id string, now time.Time) error
	ListUsernameRequests(ctx context.Context) ([]models.UsernameRequest, error)
	ResolveAvatar(ctx context.Context, id string, status models.AvatarStatus, now time.Time) error
	ListPendingAvatars(ctx context.Context) ([]models.User, error)
}

type queueCounter interface {
	QueueCounts(ctx context.Context) (*models.ModerationQueueCounts, error)
}

type pendingDogLister interface {
	ListPending(ctx context.Context, session models.Session) ([]models.Dog, error)
}

type pendingImageLister interface {
	ListPending(ctx context.Context, session models.Session) ([]dto.PendingImage, error)
	Preview(session models.Session, key string) (dto.PreviewURL, error)
}

// ModerationService resolves username and avatar requests and assembles the moderation queue.
type ModerationService struct {
	users            moderationUserRepository
	counts           queueCounter
	dogs             pendingDogLister
	images           pendingImageLister
	store            storage.ObjectStore
	usernameCooldown time.Duration
	effects          *SideEffects
	logger           *zap.Logger
	now              func() time.Time
}

// NewModerationService constructs a ModerationService.
func NewModerationService(users moderationUserRepository, counts queueCounter, dogs pendingDogLister, images pendingImageLister, store storage.ObjectStore, usernameCooldown time.Duration, effects *SideEffects, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if usernameCooldown <= 0 {
		usernameCooldown = 30 * 24 * time.Hour
	}
	return &ModerationService{
		users:            users,
		counts:           counts,
		dogs:             dogs,
		images:           images,
		store:            store,
		usernameCooldown: usernameCooldown,
		effects:          effects,
		logger:           logger,
		now:              time.Now,
	}
}

// Queue returns every pending item with per-queue counts.
func (s *ModerationService) Queue(ctx context.Context, session models.Session) (*dto.ModerationQueue, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	counts, err := s.counts.QueueCounts(ctx)
	if err != nil {
		return nil, internalError(err, "failed to count moderation queue")
	}
	dogs, err := s.dogs.ListPending(ctx, session)
	if err != nil {
		return nil, err
	}
	images, err := s.images.ListPending(ctx, session)
	if err != nil {
		return nil, err
	}
	usernames, err := s.users.ListUsernameRequests(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list username requests")
	}
	avatars, err := s.users.ListPendingAvatars(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list pending avatars")
	}
	for i := range avatars {
		if avatars[i].AvatarURL == nil {
			continue
		}
		preview, err := s.images.Preview(session, *avatars[i].AvatarURL)
		if err != nil {
			return nil, err
		}
		avatars[i].AvatarURL = &preview.URL
	}

	queue := &dto.ModerationQueue{Counts: *counts, Dogs: dogs, Images: images, Usernames: usernames, Avatars: avatars}
	if queue.Dogs == nil {
		queue.Dogs = []models.Dog{}
	}
	if queue.Usernames == nil {
		queue.Usernames = []models.UsernameRequest{}
	}
	if queue.Avatars == nil {
		queue.Avatars = []models.User{}
	}
	return queue, nil
}

// ListUsernameRequests returns the username queue, oldest first.
func (s *ModerationService) ListUsernameRequests(ctx context.Context, session models.Session) ([]models.UsernameRequest, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	requests, err := s.users.ListUsernameRequests(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list username requests")
	}
	if requests == nil {
		requests = []models.UsernameRequest{}
	}
	return requests, nil
}

// ApproveUsername commits the requested username. Replacing an existing username starts the change cooldown.
func (s *ModerationService) ApproveUsername(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error) {
	user, err := s.loadUser(ctx, session, userID)
	if err != nil {
		return nil, err
	}
	if err := rules.CanResolveUsername(*user); err != nil {
		return nil, transitionError("username request")
	}
	username := *user.RequestedUsername
	taken, err := s.users.UsernameTaken(ctx, username, user.ID)
	if err != nil {
		return nil, internalError(err, "failed to check username")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
	}

	now := s.now().UTC()
	var nextChange *time.Time
	if user.HasUsername() {
		next := now.Add(s.usernameCooldown)
		nextChange = &next
	}
	if err := s.users.CommitUsername(ctx, user.ID, username, nextChange, now); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already taken")
		}
		return nil, internalError(err, "failed to approve username")
	}
	previous := user.Username
	user.Username = &username
	user.RequestedUsername = nil
	user.UsernameVerified = true
	if nextChange != nil {
		user.NextUsernameChange = nextChange
	}

	outcome := &models.Outcome[models.User]{Result: *user}
	s.effects.Transition("username", "approve")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionUsernameApprove, "user", user.ID, map[string]*string{"username": previous}, map[string]string{"username": username})
	s.effects.Publish(ctx, outcome, models.ChangeUsernameApproved, user.ID, session.UserID)
	return outcome, nil
}

// RejectUsername clears the request. Verification of any existing username is untouched.
func (s *ModerationService) RejectUsername(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error) {
	user, err := s.loadUser(ctx, session, userID)
	if err != nil {
		return nil, err
	}
	if err := rules.CanResolveUsername(*user); err != nil {
		return nil, transitionError("username request")
	}
	if err := s.users.ClearRequestedUsername(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, internalError(err, "failed to reject username")
	}
	requested := *user.RequestedUsername
	user.RequestedUsername = nil

	outcome := &models.Outcome[models.User]{Result: *user}
	s.effects.Transition("username", "reject")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionUsernameReject, "user", user.ID, map[string]string{"requested_username": requested}, nil)
	s.effects.Publish(ctx, outcome, models.ChangeUsernameRejected, user.ID, session.UserID)
	return outcome, nil
}

// ApproveAvatar publishes a pending avatar.
func (s *ModerationService) ApproveAvatar(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error) {
	return s.resolveAvatar(ctx, session, meta, userID, models.AvatarApproved)
}

// RejectAvatar clears a pending avatar. Removing the stored object is best-effort.
func (s *ModerationService) RejectAvatar(ctx context.Context, session models.Session, meta models.RequestMeta, userID string) (*models.Outcome[models.User], error) {
	return s.resolveAvatar(ctx, session, meta, userID, models.AvatarRejected)
}

func (s *ModerationService) resolveAvatar(ctx context.Context, session models.Session, meta models.RequestMeta, userID string, status models.AvatarStatus) (*models.Outcome[models.User], error) {
	user, err := s.loadUser(ctx, session, userID)
	if err != nil {
		return nil, err
	}
	if err := rules.CanResolveAvatar(*user); err != nil {
		return nil, transitionError("avatar")
	}
	if err := s.users.ResolveAvatar(ctx, user.ID, status, s.now().UTC()); err != nil {
		return nil, internalError(err, "failed to resolve avatar")
	}

	outcome := &models.Outcome[models.User]{}
	path := *user.AvatarURL
	action := models.AuditActionAvatarApprove
	transition := "approve"
	if status == models.AvatarRejected {
		action = models.AuditActionAvatarReject
		transition = "reject"
		s.effects.Track(outcome, models.EffectRemoveObject, s.store.Remove(ctx, path))
		user.AvatarURL = nil
	}
	user.AvatarStatus = &status
	outcome.Result = *user

	s.effects.Transition("avatar", transition)
	s.effects.Audit(ctx, outcome, session, meta, action, "user", user.ID, map[string]string{"avatar_url": path}, map[string]string{"avatar_status": string(status)})
	s.effects.Publish(ctx, outcome, models.ChangeAvatarModerated, user.ID, session.UserID)
	return outcome, nil
}

func (s *ModerationService) loadUser(ctx context.Context, session models.Session, id string) (*models.User, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}
