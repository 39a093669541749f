package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

const tempUsernameAttempts = 5

type sessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	LiftSuspension(ctx context.Context, id string, now time.Time) error
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	SetRequestedUsername(ctx context.Context, id, username string, now time.Time) error
}

// SessionService turns a validated token subject into the request's session.
type SessionService struct {
	users  sessionRepository
	logger *zap.Logger
	now    func() time.Time
	intn   func(int) int
}

// NewSessionService constructs a SessionService.
func NewSessionService(users sessionRepository, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{users: users, logger: logger, now: time.Now, intn: rand.Intn}
}

// Resolve loads the profile behind userID and applies the sign-in rules: expired
// suspensions are lifted, active ones reject the request, and students without a
// username get a placeholder queued for moderation.
func (s *SessionService) Resolve(ctx context.Context, userID string) (*models.Session, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "profile not found")
		}
		return nil, internalError(err, "failed to load profile")
	}
	if !user.IsActive {
		return nil, appErrors.ErrInactiveAccount
	}

	now := s.now().UTC()
	switch rules.CheckSuspension(*user, now) {
	case rules.SuspensionExpired:
		if err := s.users.LiftSuspension(ctx, user.ID, now); err != nil {
			s.logger.Warn("failed to lift expired suspension", zap.String("user_id", user.ID), zap.Error(err))
		}
		user.IsSuspended = false
		user.SuspendedUntil = nil
		user.SuspendedReason = nil
	case rules.Suspended:
		suspended := appErrors.ErrAccountSuspended.WithMeta("reason", rules.SuspensionReason(*user))
		if user.SuspendedUntil != nil {
			suspended = suspended.WithMeta("suspended_until", user.SuspendedUntil.UTC())
		}
		return nil, suspended
	}

	if user.Role == models.RoleStudent && !user.HasUsername() && !rules.HasPendingUsername(*user) {
		s.seedTempUsername(ctx, user, now)
	}

	session := models.NewSession(*user)
	return &session, nil
}

func (s *SessionService) seedTempUsername(ctx context.Context, user *models.User, now time.Time) {
	for i := 0; i < tempUsernameAttempts; i++ {
		candidate := rules.TempUsername(user.Email, s.intn)
		taken, err := s.users.UsernameTaken(ctx, candidate, user.ID)
		if err != nil {
			s.logger.Warn("failed to check temp username", zap.String("user_id", user.ID), zap.Error(err))
			return
		}
		if taken {
			continue
		}
		if err := s.users.SetRequestedUsername(ctx, user.ID, candidate, now); err != nil {
			s.logger.Warn("failed to queue temp username", zap.String("user_id", user.ID), zap.Error(err))
			return
		}
		user.RequestedUsername = &candidate
		return
	}
	s.logger.Warn("no free temp username", zap.String("user_id", user.ID))
}
