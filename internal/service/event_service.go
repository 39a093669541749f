package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/jobs"
)

// entityPlaceholder is replaced by the event's entity id.
const entityPlaceholder = "{id}"

// invalidations maps every change kind to the read model patterns it makes stale.
var invalidations = map[models.ChangeKind][]string{
	models.ChangeDogCreated:        {CacheKeyCampusStats},
	models.ChangeDogVerified:       {CacheKeyDogListPrefix + "*", CacheKeyDogProfilePrefix + entityPlaceholder, CacheKeyCampusStats},
	models.ChangeDogRejected:       {CacheKeyDogProfilePrefix + entityPlaceholder, CacheKeyCampusStats},
	models.ChangeDogNamed:          {CacheKeyDogListPrefix + "*", CacheKeyDogProfilePrefix + entityPlaceholder, CacheKeyCampusStats},
	models.ChangeDogHidden:         {CacheKeyDogListPrefix + "*", CacheKeyDogProfilePrefix + entityPlaceholder, CacheKeyCampusStats},
	models.ChangeDogRestored:       {CacheKeyDogListPrefix + "*", CacheKeyDogProfilePrefix + entityPlaceholder, CacheKeyCampusStats},
	models.ChangeInteractionLogged: {CacheKeyDogListPrefix + "*", CacheKeyDogProfilePrefix + entityPlaceholder, CacheKeyCampusStats},
	models.ChangeImageUploaded:     {CacheKeyGalleryApproved, CacheKeyCampusStats},
	models.ChangeImageApproved:     {CacheKeyGalleryApproved, CacheKeyCampusStats},
	models.ChangeImageRejected:     {CacheKeyGalleryApproved, CacheKeyCampusStats},
	models.ChangeImageHidden:       {CacheKeyGalleryApproved, CacheKeyCampusStats},
	models.ChangeImageRestored:     {CacheKeyGalleryApproved, CacheKeyCampusStats},
	models.ChangeReportCreated:     nil,
	models.ChangeReportResolved:    nil,
	models.ChangeUserUpdated:       {CacheKeyLeaderboardPrefix + "*"},
	models.ChangeUserPointsAwarded: {CacheKeyLeaderboardPrefix + "*"},
	models.ChangeUserHidden:        {CacheKeyLeaderboardPrefix + "*", CacheKeyGalleryApproved, CacheKeyCampusStats},
	models.ChangeUserDeleted:       {CacheKeyLeaderboardPrefix + "*", CacheKeyGalleryApproved, CacheKeyCampusStats, CacheKeyDogProfilePrefix + "*"},
	models.ChangeUsernameRequested: nil,
	models.ChangeUsernameApproved:  {CacheKeyLeaderboardPrefix + "*", CacheKeyGalleryApproved, CacheKeyDogProfilePrefix + "*"},
	models.ChangeUsernameRejected:  nil,
	models.ChangeAvatarUpdated:     {CacheKeyLeaderboardPrefix + "*", CacheKeyGalleryApproved},
	models.ChangeAvatarModerated:   {CacheKeyLeaderboardPrefix + "*", CacheKeyGalleryApproved},
	models.ChangeUserRoleChanged:   {CacheKeyLeaderboardPrefix + "*"},
	models.ChangeUserSuspension:    nil,
}

// InvalidationPatterns returns the cache patterns evt makes stale.
func InvalidationPatterns(evt models.ChangeEvent) []string {
	patterns := invalidations[evt.Kind]
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, strings.ReplaceAll(p, entityPlaceholder, evt.EntityID))
	}
	return out
}

// EventService publishes change events onto the background queue.
type EventService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewEventService constructs an EventService around queue.
func NewEventService(queue *jobs.Queue, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{queue: queue, logger: logger}
}

// Publish enqueues evt without blocking. A full queue is reported to the caller.
func (s *EventService) Publish(_ context.Context, evt models.ChangeEvent) error {
	if s == nil || s.queue == nil {
		return nil
	}
	if err := s.queue.TryEnqueue(jobs.Job{Type: string(evt.Kind), Payload: evt}); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Kind, err)
	}
	return nil
}

// CacheInvalidator consumes change events and drops the read models they affect.
type CacheInvalidator struct {
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCacheInvalidator constructs a CacheInvalidator.
func NewCacheInvalidator(cache *CacheService, metrics *MetricsService, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidator{cache: cache, metrics: metrics, logger: logger}
}

// Handle is the jobs.Handler for the change event queue. A failed pattern is
// logged and the job returned to the queue for retry.
func (i *CacheInvalidator) Handle(ctx context.Context, job jobs.Job) error {
	evt, ok := job.Payload.(models.ChangeEvent)
	if !ok {
		i.logger.Warn("unexpected change event payload", zap.String("type", job.Type))
		return nil
	}
	var lastErr error
	for _, pattern := range InvalidationPatterns(evt) {
		if err := i.cache.Invalidate(ctx, pattern); err != nil {
			i.logger.Warn("read model invalidation failed", zap.String("kind", string(evt.Kind)), zap.String("pattern", pattern), zap.Error(err))
			lastErr = err
		}
	}
	i.metrics.RecordInvalidation(string(evt.Kind))
	return lastErr
}
