package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

const dogColumns = `id, temporary_name, official_name, name_locked, qr_code, description, profile_image, soft_locations, vaccination_status, verified, is_active, is_hidden, created_by, reported_by, registered_by, latitude, longitude, created_at, updated_at`

// DogRepository provides database access for dog profiles.
type DogRepository struct {
	db *sqlx.DB
}

// NewDogRepository creates a new DogRepository.
func NewDogRepository(db *sqlx.DB) *DogRepository {
	return &DogRepository{db: db}
}

// Create inserts a dog. Unique violations on qr_code are returned wrapped.
func (r *DogRepository) Create(ctx context.Context, dog *models.Dog) error {
	if dog.ID == "" {
		dog.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if dog.CreatedAt.IsZero() {
		dog.CreatedAt = now
	}
	dog.UpdatedAt = now
	if dog.VaccinationStatus == "" {
		dog.VaccinationStatus = models.VaccinationUnknown
	}
	if dog.SoftLocations == nil {
		dog.SoftLocations = []string{}
	}

	const query = `INSERT INTO dogs (` + dogColumns + `) VALUES (:id, :temporary_name, :official_name, :name_locked, :qr_code, :description, :profile_image, :soft_locations, :vaccination_status, :verified, :is_active, :is_hidden, :created_by, :reported_by, :registered_by, :latitude, :longitude, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dog); err != nil {
		return fmt.Errorf("create dog: %w", err)
	}
	return nil
}

// FindByID returns any dog by id regardless of moderation state.
func (r *DogRepository) FindByID(ctx context.Context, id string) (*models.Dog, error) {
	return r.findOne(ctx, `SELECT `+dogColumns+` FROM dogs WHERE id = $1 LIMIT 1`, "find dog by id", id)
}

// FindByQRCode returns the verified, active dog wearing code.
func (r *DogRepository) FindByQRCode(ctx context.Context, code string) (*models.Dog, error) {
	return r.findOne(ctx, `SELECT `+dogColumns+` FROM dogs WHERE qr_code = $1 AND verified = TRUE AND is_active = TRUE LIMIT 1`, "find dog by qr code", code)
}

func (r *DogRepository) findOne(ctx context.Context, query, op string, args ...interface{}) (*models.Dog, error) {
	var dog models.Dog
	if err := r.db.GetContext(ctx, &dog, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &dog, nil
}

// ListPublic returns verified, active and visible dogs. Search matches either name or any soft location.
func (r *DogRepository) ListPublic(ctx context.Context, filter models.DogFilter) ([]models.Dog, error) {
	query := `SELECT ` + dogColumns + ` FROM dogs WHERE verified = TRUE AND is_active = TRUE AND is_hidden = FALSE`
	var args []interface{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		query += ` AND (LOWER(COALESCE(official_name, '')) LIKE $1 OR LOWER(COALESCE(temporary_name, '')) LIKE $1 OR LOWER(array_to_string(soft_locations, ' ')) LIKE $1)`
	}
	query += ` ORDER BY COALESCE(official_name, temporary_name) ASC`

	var dogs []models.Dog
	if err := r.db.SelectContext(ctx, &dogs, query, args...); err != nil {
		return nil, fmt.Errorf("list dogs: %w", err)
	}
	return dogs, nil
}

// ListPending returns unverified active dogs awaiting moderation, oldest first.
func (r *DogRepository) ListPending(ctx context.Context) ([]models.Dog, error) {
	query := `SELECT ` + dogColumns + ` FROM dogs WHERE verified = FALSE AND is_active = TRUE ORDER BY created_at ASC`
	var dogs []models.Dog
	if err := r.db.SelectContext(ctx, &dogs, query); err != nil {
		return nil, fmt.Errorf("list pending dogs: %w", err)
	}
	return dogs, nil
}

// ListNeedsNaming returns verified dogs without an official name.
func (r *DogRepository) ListNeedsNaming(ctx context.Context) ([]models.Dog, error) {
	query := `SELECT ` + dogColumns + ` FROM dogs WHERE verified = TRUE AND is_active = TRUE AND (official_name IS NULL OR official_name = '') ORDER BY created_at ASC`
	var dogs []models.Dog
	if err := r.db.SelectContext(ctx, &dogs, query); err != nil {
		return nil, fmt.Errorf("list dogs needing names: %w", err)
	}
	return dogs, nil
}

// Verify marks the dog verified and assigns its QR code. A non-empty official name is set and locked.
func (r *DogRepository) Verify(ctx context.Context, id, qrCode string, officialName *string, now time.Time) error {
	const query = `UPDATE dogs SET verified = TRUE, qr_code = $2, official_name = COALESCE($3, official_name), name_locked = name_locked OR $3 IS NOT NULL, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, qrCode, officialName, now); err != nil {
		return fmt.Errorf("verify dog: %w", err)
	}
	return nil
}

// SetOfficialName names an unlocked dog and locks the name. It reports whether a row changed.
func (r *DogRepository) SetOfficialName(ctx context.Context, id, name string, now time.Time) (bool, error) {
	const query = `UPDATE dogs SET official_name = $2, name_locked = TRUE, updated_at = $3 WHERE id = $1 AND name_locked = FALSE`
	res, err := r.db.ExecContext(ctx, query, id, name, now)
	if err != nil {
		return false, fmt.Errorf("set official name: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set official name: %w", err)
	}
	return affected > 0, nil
}

// Deactivate soft-deletes a dog.
func (r *DogRepository) Deactivate(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE dogs SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, now); err != nil {
		return fmt.Errorf("deactivate dog: %w", err)
	}
	return nil
}

// SetHidden hides or shows a dog.
func (r *DogRepository) SetHidden(ctx context.Context, id string, hidden bool, now time.Time) error {
	const query = `UPDATE dogs SET is_hidden = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hidden, now); err != nil {
		return fmt.Errorf("set dog hidden: %w", err)
	}
	return nil
}

// Restore unhides a dog taken down by a report. Verification is left as it was,
// so a pending dog stays in the moderation queue.
func (r *DogRepository) Restore(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE dogs SET is_hidden = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, now); err != nil {
		return fmt.Errorf("restore dog: %w", err)
	}
	return nil
}

// FindSummary reads the aggregate row for a dog. Dogs without interactions get a zero summary.
func (r *DogRepository) FindSummary(ctx context.Context, dogID string) (*models.DogSummary, error) {
	const query = `SELECT dog_id, last_fed_at, behaviour_score, total_interactions, avg_mood FROM dog_summary WHERE dog_id = $1`
	var summary models.DogSummary
	if err := r.db.GetContext(ctx, &summary, query, dogID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.DogSummary{DogID: dogID}, nil
		}
		return nil, fmt.Errorf("find dog summary: %w", err)
	}
	return &summary, nil
}

// FindSummaries reads aggregates for several dogs keyed by dog id.
func (r *DogRepository) FindSummaries(ctx context.Context, dogIDs []string) (map[string]models.DogSummary, error) {
	result := make(map[string]models.DogSummary, len(dogIDs))
	if len(dogIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT dog_id, last_fed_at, behaviour_score, total_interactions, avg_mood FROM dog_summary WHERE dog_id IN (?)`, dogIDs)
	if err != nil {
		return nil, fmt.Errorf("build summaries query: %w", err)
	}
	var rows []models.DogSummary
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find dog summaries: %w", err)
	}
	for _, row := range rows {
		result[row.DogID] = row
	}
	return result, nil
}
