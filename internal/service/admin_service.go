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

type adminUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole, now time.Time) error
	Suspend(ctx context.Context, id, reason string, until *time.Time, now time.Time) error
	LiftSuspension(ctx context.Context, id string, now time.Time) error
	SetHidden(ctx context.Context, id string, hidden bool, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type auditLister interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AdminService implements super admin account management.
type AdminService struct {
	users     adminUserRepository
	audits    auditLister
	effects   *SideEffects
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAdminService constructs an AdminService.
func NewAdminService(users adminUserRepository, audits auditLister, effects *SideEffects, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AdminService{users: users, audits: audits, effects: effects, validator: validate, logger: logger, now: time.Now}
}

// ListUsers returns paginated users and pagination metadata.
func (s *AdminService) ListUsers(ctx context.Context, session models.Session, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if err := RequireSuperAdmin(session); err != nil {
		return nil, nil, err
	}
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return users, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// UpdateRole changes another user's role.
func (s *AdminService) UpdateRole(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.UpdateRoleRequest) (*models.Outcome[models.User], error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid role payload")
	}
	target, err := s.loadTarget(ctx, session, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.users.UpdateRole(ctx, target.ID, req.Role, now); err != nil {
		return nil, internalError(err, "failed to update role")
	}
	previous := target.Role
	target.Role = req.Role
	target.UpdatedAt = now
	return s.finish(ctx, session, meta, target, models.AuditActionUserRole, models.ChangeUserRoleChanged,
		map[string]string{"role": string(previous)}, map[string]string{"role": string(req.Role)}), nil
}

// Suspend locks another user out until the optional end time.
func (s *AdminService) Suspend(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.SuspendUserRequest) (*models.Outcome[models.User], error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid suspension payload")
	}
	now := s.now().UTC()
	if req.Until != nil && !req.Until.After(now) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "suspension end must be in the future")
	}
	target, err := s.loadTarget(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.Suspend(ctx, target.ID, req.Reason, req.Until, now); err != nil {
		return nil, internalError(err, "failed to suspend user")
	}
	target.IsSuspended = true
	target.SuspendedUntil = req.Until
	target.SuspendedReason = &req.Reason
	return s.finish(ctx, session, meta, target, models.AuditActionUserSuspend, models.ChangeUserSuspension, nil, req), nil
}

// Unsuspend lifts a suspension.
func (s *AdminService) Unsuspend(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.User], error) {
	target, err := s.loadTarget(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if !target.IsSuspended {
		return nil, transitionError("user")
	}
	if err := s.users.LiftSuspension(ctx, target.ID, s.now().UTC()); err != nil {
		return nil, internalError(err, "failed to lift suspension")
	}
	target.IsSuspended = false
	target.SuspendedUntil = nil
	target.SuspendedReason = nil
	return s.finish(ctx, session, meta, target, models.AuditActionUserUnsuspend, models.ChangeUserSuspension, nil, nil), nil
}

// SetHidden hides or shows a user on public surfaces.
func (s *AdminService) SetHidden(ctx context.Context, session models.Session, meta models.RequestMeta, id string, hidden bool) (*models.Outcome[models.User], error) {
	target, err := s.loadTarget(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetHidden(ctx, target.ID, hidden, s.now().UTC()); err != nil {
		return nil, internalError(err, "failed to update user visibility")
	}
	target.IsHidden = hidden
	return s.finish(ctx, session, meta, target, models.AuditActionUserHide, models.ChangeUserHidden, nil, map[string]bool{"is_hidden": hidden}), nil
}

// Delete removes another user.
func (s *AdminService) Delete(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.User], error) {
	target, err := s.loadTarget(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return nil, internalError(err, "failed to delete user")
	}
	return s.finish(ctx, session, meta, target, models.AuditActionUserDelete, models.ChangeUserDeleted, map[string]string{"email": target.Email}, nil), nil
}

// AuditTrail lists recent moderation and administration entries.
func (s *AdminService) AuditTrail(ctx context.Context, session models.Session, filter models.AuditFilter) ([]models.AuditLog, error) {
	if err := RequireSuperAdmin(session); err != nil {
		return nil, err
	}
	logs, err := s.audits.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list audit logs")
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, nil
}

func (s *AdminService) loadTarget(ctx context.Context, session models.Session, id string) (*models.User, error) {
	if err := RequireSuperAdmin(session); err != nil {
		return nil, err
	}
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	if !rules.CanAdministerTarget(session, *target) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "super admins cannot manage themselves or other super admins")
	}
	return target, nil
}

func (s *AdminService) finish(ctx context.Context, session models.Session, meta models.RequestMeta, target *models.User, action string, kind models.ChangeKind, oldValues, newValues interface{}) *models.Outcome[models.User] {
	outcome := &models.Outcome[models.User]{Result: *target}
	s.effects.Audit(ctx, outcome, session, meta, action, "user", target.ID, oldValues, newValues)
	s.effects.Publish(ctx, outcome, kind, target.ID, session.UserID)
	return outcome
}
