package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/jobs"
)

func changeJob(kind models.ChangeKind, entityID string) jobs.Job {
	return jobs.Job{Type: string(kind), Payload: models.ChangeEvent{Kind: kind, EntityID: entityID}}
}

type recordingCacheRepo struct {
	mu       sync.Mutex
	patterns []string
	err      error
}

func (r *recordingCacheRepo) Get(context.Context, string, interface{}) error { return nil }

func (r *recordingCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}

func (r *recordingCacheRepo) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, pattern)
	return 1, r.err
}

func (r *recordingCacheRepo) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.patterns...)
}

func TestInvalidationTableCoversEveryKind(t *testing.T) {
	kinds := []models.ChangeKind{
		models.ChangeDogCreated, models.ChangeDogVerified, models.ChangeDogRejected, models.ChangeDogNamed,
		models.ChangeDogHidden, models.ChangeDogRestored, models.ChangeInteractionLogged,
		models.ChangeImageUploaded, models.ChangeImageApproved, models.ChangeImageRejected,
		models.ChangeImageHidden, models.ChangeImageRestored, models.ChangeReportCreated,
		models.ChangeReportResolved, models.ChangeUserUpdated, models.ChangeUserPointsAwarded,
		models.ChangeUserHidden, models.ChangeUserDeleted, models.ChangeUsernameRequested,
		models.ChangeUsernameApproved, models.ChangeUsernameRejected, models.ChangeAvatarUpdated,
		models.ChangeAvatarModerated, models.ChangeUserRoleChanged, models.ChangeUserSuspension,
	}
	for _, kind := range kinds {
		_, ok := invalidations[kind]
		assert.True(t, ok, "missing invalidation entry for %s", kind)
	}
	assert.Len(t, invalidations, len(kinds))
}

func TestInvalidationPatternsSubstituteEntity(t *testing.T) {
	patterns := InvalidationPatterns(models.ChangeEvent{Kind: models.ChangeDogNamed, EntityID: "d1"})
	assert.ElementsMatch(t, []string{CacheKeyDogListPrefix + "*", CacheKeyDogProfilePrefix + "d1", CacheKeyCampusStats}, patterns)

	patterns = InvalidationPatterns(models.ChangeEvent{Kind: models.ChangeUserPointsAwarded, EntityID: "u1"})
	assert.Equal(t, []string{CacheKeyLeaderboardPrefix + "*"}, patterns)

	assert.Empty(t, InvalidationPatterns(models.ChangeEvent{Kind: models.ChangeReportCreated}))
}

func TestCacheInvalidatorReturnsErrorForRetry(t *testing.T) {
	repo := &recordingCacheRepo{err: errBoom}
	invalidator := NewCacheInvalidator(NewCacheService(repo, nil, time.Minute, zap.NewNop(), true), nil, zap.NewNop())

	err := invalidator.Handle(context.Background(), changeJob(models.ChangeImageApproved, "img1"))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{CacheKeyGalleryApproved, CacheKeyCampusStats}, repo.seen())

	assert.NoError(t, invalidator.Handle(context.Background(), jobs.Job{Type: "unknown", Payload: "junk"}))
}

func TestEventServicePublishesThroughQueue(t *testing.T) {
	repo := &recordingCacheRepo{}
	invalidator := NewCacheInvalidator(NewCacheService(repo, nil, time.Minute, zap.NewNop(), true), nil, zap.NewNop())
	queue := jobs.NewQueue("change-events", invalidator.Handle, jobs.QueueConfig{Workers: 1, BufferSize: 4})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	events := NewEventService(queue, zap.NewNop())
	require.NoError(t, events.Publish(ctx, models.ChangeEvent{Kind: models.ChangeDogVerified, EntityID: "d9"}))

	require.Eventually(t, func() bool {
		return len(repo.seen()) == 3
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, repo.seen(), CacheKeyDogProfilePrefix+"d9")
}

func TestEventServiceWithoutQueueIsNoop(t *testing.T) {
	var events *EventService
	assert.NoError(t, events.Publish(context.Background(), models.ChangeEvent{Kind: models.ChangeDogCreated}))
}
