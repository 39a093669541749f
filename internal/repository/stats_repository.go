package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

// StatsRepository aggregates community counters.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CampusStats computes the home page counters. since marks the start of "today".
func (r *StatsRepository) CampusStats(ctx context.Context, since time.Time) (*models.CampusStats, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM dogs WHERE verified = TRUE AND is_active = TRUE AND is_hidden = FALSE) AS total_dogs,
	(SELECT COUNT(*) FROM dogs WHERE verified = TRUE AND is_active = TRUE AND is_hidden = FALSE AND official_name IS NOT NULL AND official_name <> '') AS named_dogs,
	(SELECT COUNT(*) FROM dogs WHERE verified = TRUE AND is_active = TRUE AND (official_name IS NULL OR official_name = '')) AS needs_naming,
	(SELECT COUNT(*) FROM dogs WHERE verified = FALSE AND is_active = TRUE) AS pending_dogs,
	(SELECT COUNT(*) FROM dog_interactions WHERE created_at >= $1) AS actions_today,
	(SELECT COUNT(*) FROM users WHERE is_active = TRUE AND is_hidden = FALSE) AS total_members,
	(SELECT COUNT(*) FROM gallery_images WHERE status = 'approved' AND is_hidden = FALSE) AS total_photos,
	(SELECT COUNT(*) FROM dog_interactions WHERE interaction_type = 'feeding') AS total_feedings`
	var stats models.CampusStats
	if err := r.db.GetContext(ctx, &stats, query, since); err != nil {
		return nil, fmt.Errorf("campus stats: %w", err)
	}
	return &stats, nil
}

// QueueCounts sizes each moderation queue.
func (r *StatsRepository) QueueCounts(ctx context.Context) (*models.ModerationQueueCounts, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM dogs WHERE verified = FALSE AND is_active = TRUE) AS pending_dogs,
	(SELECT COUNT(*) FROM gallery_images WHERE status = 'pending') AS pending_images,
	(SELECT COUNT(*) FROM users WHERE requested_username IS NOT NULL AND requested_username <> '') AS pending_usernames,
	(SELECT COUNT(*) FROM users WHERE avatar_status = 'pending' AND avatar_url IS NOT NULL) AS pending_avatars,
	(SELECT COUNT(*) FROM user_reports WHERE status = 'pending') AS pending_reports`
	var counts models.ModerationQueueCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("moderation queue counts: %w", err)
	}
	return &counts, nil
}
