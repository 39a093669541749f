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

type reportRepository interface {
	Create(ctx context.Context, report *models.UserReport) error
	FindByID(ctx context.Context, id string) (*models.UserReport, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithNames, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus, now time.Time) error
}

type dogVisibility interface {
	SetHidden(ctx context.Context, id string, hidden bool, now time.Time) error
	Restore(ctx context.Context, id string, now time.Time) error
}

type imageVisibility interface {
	SetHidden(ctx context.Context, id string, hidden bool) error
	Restore(ctx context.Context, id string) error
}

type userVisibility interface {
	SetHidden(ctx context.Context, id string, hidden bool, now time.Time) error
}

// ReportService handles content reports and their moderation.
type ReportService struct {
	reports   reportRepository
	dogs      dogVisibility
	images    imageVisibility
	users     userVisibility
	effects   *SideEffects
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(reports reportRepository, dogs dogVisibility, images imageVisibility, users userVisibility, effects *SideEffects, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReportService{reports: reports, dogs: dogs, images: images, users: users, effects: effects, validator: validate, logger: logger, now: time.Now}
}

// Create files a report. Image and dog targets are hidden right away; a
// moderator can restore them. Each reporter may file one report per day.
func (s *ReportService) Create(ctx context.Context, session models.Session, req models.CreateReportRequest) (*models.Outcome[models.UserReport], error) {
	if err := RequireParticipant(session); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid report payload")
	}
	report, ok := rules.NormalizeReportTarget(req)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "target_id or reported_user_id is required")
	}
	if report.ReportedUser != nil && *report.ReportedUser == session.UserID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "you cannot report yourself")
	}

	now := s.now().UTC()
	report.ReportedBy = session.UserID
	report.CreatedAt = now
	if err := s.reports.Create(ctx, &report); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.ErrRateLimited
		}
		return nil, internalError(err, "failed to create report")
	}

	outcome := &models.Outcome[models.UserReport]{Result: report}
	s.effects.Publish(ctx, outcome, models.ChangeReportCreated, report.ID, session.UserID)
	switch report.TargetType {
	case models.ReportTargetImage:
		err := s.images.SetHidden(ctx, report.TargetID, true)
		s.effects.Track(outcome, models.EffectHideTarget, err)
		if err == nil {
			s.effects.Publish(ctx, outcome, models.ChangeImageHidden, report.TargetID, session.UserID)
		}
	case models.ReportTargetDog:
		err := s.dogs.SetHidden(ctx, report.TargetID, true, now)
		s.effects.Track(outcome, models.EffectHideTarget, err)
		if err == nil {
			s.effects.Publish(ctx, outcome, models.ChangeDogHidden, report.TargetID, session.UserID)
		}
	}
	return outcome, nil
}

// List returns the report queue for moderators.
func (s *ReportService) List(ctx context.Context, session models.Session, filter models.ReportFilter) ([]models.ReportWithNames, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list reports")
	}
	if reports == nil {
		reports = []models.ReportWithNames{}
	}
	return reports, nil
}

// Dismiss closes a pending report without action.
func (s *ReportService) Dismiss(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.UserReport], error) {
	report, err := s.loadForModeration(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := rules.CanResolveReport(*report); err != nil {
		return nil, transitionError("report")
	}
	return s.setStatus(ctx, session, meta, report, models.ReportDismissed, models.AuditActionReportDismiss, "dismiss", nil)
}

// TakeAction marks a pending report as actioned, optionally hiding the reported user.
func (s *ReportService) TakeAction(ctx context.Context, session models.Session, meta models.RequestMeta, id string, req models.ResolveReportRequest) (*models.Outcome[models.UserReport], error) {
	report, err := s.loadForModeration(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := rules.CanResolveReport(*report); err != nil {
		return nil, transitionError("report")
	}
	var hide func(rec effectRecorder)
	if req.HideUser && report.ReportedUser != nil {
		target := *report.ReportedUser
		hide = func(rec effectRecorder) {
			err := s.users.SetHidden(ctx, target, true, s.now().UTC())
			s.effects.Track(rec, models.EffectHideTarget, err)
			if err == nil {
				s.effects.Publish(ctx, rec, models.ChangeUserHidden, target, session.UserID)
			}
		}
	}
	return s.setStatus(ctx, session, meta, report, models.ReportActionTaken, models.AuditActionReportAction, "action_taken", hide)
}

// Restore unhides the reported image or dog and dismisses the report. It never
// publishes content: a target that was still pending stays pending.
func (s *ReportService) Restore(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.UserReport], error) {
	report, err := s.loadForModeration(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := rules.CanRestoreReport(*report); err != nil {
		return nil, transitionError("report")
	}

	var restored models.ChangeKind
	switch report.TargetType {
	case models.ReportTargetImage:
		if err := s.images.Restore(ctx, report.TargetID); err != nil {
			return nil, internalError(err, "failed to restore image")
		}
		restored = models.ChangeImageRestored
	case models.ReportTargetDog:
		if err := s.dogs.Restore(ctx, report.TargetID, s.now().UTC()); err != nil {
			return nil, internalError(err, "failed to restore dog")
		}
		restored = models.ChangeDogRestored
	}
	publishRestore := func(rec effectRecorder) {
		s.effects.Publish(ctx, rec, restored, report.TargetID, session.UserID)
	}
	return s.setStatus(ctx, session, meta, report, models.ReportDismissed, models.AuditActionReportRestore, "restore", publishRestore)
}

func (s *ReportService) loadForModeration(ctx context.Context, session models.Session, id string) (*models.UserReport, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "report")
	}
	return report, nil
}

func (s *ReportService) setStatus(ctx context.Context, session models.Session, meta models.RequestMeta, report *models.UserReport, status models.ReportStatus, action, transition string, after func(effectRecorder)) (*models.Outcome[models.UserReport], error) {
	now := s.now().UTC()
	if err := s.reports.UpdateStatus(ctx, report.ID, status, now); err != nil {
		return nil, internalError(err, "failed to update report")
	}
	previous := report.Status
	report.Status = status
	report.UpdatedAt = now

	outcome := &models.Outcome[models.UserReport]{Result: *report}
	if after != nil {
		after(outcome)
	}
	s.effects.Transition("report", transition)
	s.effects.Audit(ctx, outcome, session, meta, action, "user_report", report.ID, map[string]string{"status": string(previous)}, map[string]string{"status": string(status)})
	s.effects.Publish(ctx, outcome, models.ChangeReportResolved, report.ID, session.UserID)
	return outcome, nil
}
