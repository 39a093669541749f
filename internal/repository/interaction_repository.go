package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

// InteractionRepository appends and reads caring events.
type InteractionRepository struct {
	db *sqlx.DB
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(db *sqlx.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Create appends an interaction. Rows are never updated.
func (r *InteractionRepository) Create(ctx context.Context, in *models.DogInteraction) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO dog_interactions (id, dog_id, user_id, interaction_type, mood_rating, latitude, longitude, points_awarded, created_at) VALUES (:id, :dog_id, :user_id, :interaction_type, :mood_rating, :latitude, :longitude, :points_awarded, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, in); err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}
	return nil
}

// ListByDog returns the latest interactions on a dog with actor usernames.
func (r *InteractionRepository) ListByDog(ctx context.Context, dogID string, limit int) ([]models.InteractionWithNames, error) {
	const query = `SELECT i.id, i.dog_id, i.user_id, i.interaction_type, i.mood_rating, i.latitude, i.longitude, i.points_awarded, i.created_at, u.username AS username, COALESCE(d.official_name, d.temporary_name) AS dog_name
FROM dog_interactions i
JOIN dogs d ON d.id = i.dog_id
LEFT JOIN users u ON u.id = i.user_id
WHERE i.dog_id = $1
ORDER BY i.created_at DESC
LIMIT $2`
	var rows []models.InteractionWithNames
	if err := r.db.SelectContext(ctx, &rows, query, dogID, clampLimit(limit)); err != nil {
		return nil, fmt.Errorf("list interactions by dog: %w", err)
	}
	return rows, nil
}

// ListByUser returns a user's latest interactions with dog names.
func (r *InteractionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.InteractionWithNames, error) {
	const query = `SELECT i.id, i.dog_id, i.user_id, i.interaction_type, i.mood_rating, i.latitude, i.longitude, i.points_awarded, i.created_at, u.username AS username, COALESCE(d.official_name, d.temporary_name) AS dog_name
FROM dog_interactions i
JOIN dogs d ON d.id = i.dog_id
LEFT JOIN users u ON u.id = i.user_id
WHERE i.user_id = $1
ORDER BY i.created_at DESC
LIMIT $2`
	var rows []models.InteractionWithNames
	if err := r.db.SelectContext(ctx, &rows, query, userID, clampLimit(limit)); err != nil {
		return nil, fmt.Errorf("list interactions by user: %w", err)
	}
	return rows, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}
