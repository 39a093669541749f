package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type changePublisher interface {
	Publish(ctx context.Context, evt models.ChangeEvent) error
}

type effectRecorder interface {
	Record(name string, err error)
}

// SideEffects runs the best-effort steps that follow a committed write: audit
// entries, change events and failure accounting. Failures are logged, counted
// and recorded on the outcome but never returned.
type SideEffects struct {
	audit   auditRepository
	events  changePublisher
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewSideEffects wires the collaborators. Any of them may be nil.
func NewSideEffects(audit auditRepository, events changePublisher, metrics *MetricsService, logger *zap.Logger) *SideEffects {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SideEffects{audit: audit, events: events, metrics: metrics, logger: logger, now: time.Now}
}

// Track records the result of a named step on rec.
func (s *SideEffects) Track(rec effectRecorder, name string, err error) {
	if rec != nil {
		rec.Record(name, err)
	}
	if err == nil || s == nil {
		return
	}
	s.logger.Warn("side effect failed", zap.String("effect", name), zap.Error(err))
	s.metrics.RecordSideEffectFailure(name)
}

// Audit writes an audit entry for a moderation or administration transition.
func (s *SideEffects) Audit(ctx context.Context, rec effectRecorder, actor models.Session, meta models.RequestMeta, action, resource, resourceID string, oldValues, newValues interface{}) {
	if s == nil || s.audit == nil {
		return
	}
	actorID := actor.UserID
	id := resourceID
	entry := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: &id,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if oldValues != nil {
		entry.OldValues, _ = json.Marshal(oldValues)
	}
	if newValues != nil {
		entry.NewValues, _ = json.Marshal(newValues)
	}
	s.Track(rec, models.EffectAuditLog, s.audit.Create(ctx, entry))
}

// Publish announces a committed change so read models can refresh.
func (s *SideEffects) Publish(ctx context.Context, rec effectRecorder, kind models.ChangeKind, entityID, actorID string) {
	if s == nil || s.events == nil {
		return
	}
	evt := models.ChangeEvent{Kind: kind, EntityID: entityID, ActorID: actorID, OccurredAt: s.now().UTC()}
	s.Track(rec, models.EffectPublishChange, s.events.Publish(ctx, evt))
}

// Transition counts a moderation transition.
func (s *SideEffects) Transition(entity, transition string) {
	if s == nil {
		return
	}
	s.metrics.RecordTransition(entity, transition)
}
