package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

const galleryColumns = `id, user_id, dog_id, file_path, status, is_hidden, created_at`

// GalleryRepository provides database access for gallery images.
type GalleryRepository struct {
	db *sqlx.DB
}

// NewGalleryRepository creates a new GalleryRepository.
func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// Create inserts an image row.
func (r *GalleryRepository) Create(ctx context.Context, img *models.GalleryImage) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO gallery_images (` + galleryColumns + `) VALUES (:id, :user_id, :dog_id, :file_path, :status, :is_hidden, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, img); err != nil {
		return fmt.Errorf("create gallery image: %w", err)
	}
	return nil
}

// FindByID returns an image by id.
func (r *GalleryRepository) FindByID(ctx context.Context, id string) (*models.GalleryImage, error) {
	const query = `SELECT ` + galleryColumns + ` FROM gallery_images WHERE id = $1 LIMIT 1`
	var img models.GalleryImage
	if err := r.db.GetContext(ctx, &img, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find gallery image: %w", err)
	}
	return &img, nil
}

// ListApproved returns approved, visible images newest first with uploader details.
func (r *GalleryRepository) ListApproved(ctx context.Context, limit int) ([]models.GalleryImageWithUploader, error) {
	const query = `SELECT g.id, g.user_id, g.dog_id, g.file_path, g.status, g.is_hidden, g.created_at, u.username, u.avatar_url
FROM gallery_images g
LEFT JOIN users u ON u.id = g.user_id
WHERE g.status = 'approved' AND g.is_hidden = FALSE
ORDER BY g.created_at DESC
LIMIT $1`
	if limit <= 0 || limit > 200 {
		limit = 60
	}
	var images []models.GalleryImageWithUploader
	if err := r.db.SelectContext(ctx, &images, query, limit); err != nil {
		return nil, fmt.Errorf("list approved images: %w", err)
	}
	return images, nil
}

// ListPending returns images awaiting moderation, oldest first.
func (r *GalleryRepository) ListPending(ctx context.Context) ([]models.GalleryImageWithUploader, error) {
	const query = `SELECT g.id, g.user_id, g.dog_id, g.file_path, g.status, g.is_hidden, g.created_at, u.username, u.avatar_url
FROM gallery_images g
LEFT JOIN users u ON u.id = g.user_id
WHERE g.status = 'pending'
ORDER BY g.created_at ASC`
	var images []models.GalleryImageWithUploader
	if err := r.db.SelectContext(ctx, &images, query); err != nil {
		return nil, fmt.Errorf("list pending images: %w", err)
	}
	return images, nil
}

// Approve marks an image approved at filePath.
func (r *GalleryRepository) Approve(ctx context.Context, id, filePath string) error {
	const query = `UPDATE gallery_images SET status = 'approved', file_path = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, filePath); err != nil {
		return fmt.Errorf("approve gallery image: %w", err)
	}
	return nil
}

// SetHidden hides or shows an image.
func (r *GalleryRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	const query = `UPDATE gallery_images SET is_hidden = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hidden); err != nil {
		return fmt.Errorf("set gallery image hidden: %w", err)
	}
	return nil
}

// Restore unhides an image taken down by a report. A pending image stays pending
// under its private prefix until a moderator approves it.
func (r *GalleryRepository) Restore(ctx context.Context, id string) error {
	const query = `UPDATE gallery_images SET is_hidden = FALSE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("restore gallery image: %w", err)
	}
	return nil
}

// Delete removes an image row.
func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM gallery_images WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	return nil
}
