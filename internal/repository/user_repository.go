package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

const userColumns = `id, email, full_name, role, is_super_admin, username, requested_username, username_verified, next_username_change, points, is_hidden, is_active, is_suspended, suspended_until, suspended_reason, avatar_url, avatar_status, avatar_updated_at, birthdate, birthdate_updated_at, created_at, updated_at`

// Ranked users are verified, visible, active students.
const rankEligibleClause = `username_verified = TRUE AND is_hidden = FALSE AND is_active = TRUE AND role NOT IN ('president', 'admin') AND is_super_admin = FALSE`

// UserRepository provides database access for community members.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// UsernameTaken reports whether username is committed or requested by another user.
func (r *UserRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE (username = $1 OR requested_username = $1) AND id <> $2)`
	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, username, excludeID); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return taken, nil
}

// LiftSuspension clears an expired suspension.
func (r *UserRepository) LiftSuspension(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE users SET is_suspended = FALSE, suspended_until = NULL, suspended_reason = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, now); err != nil {
		return fmt.Errorf("lift suspension: %w", err)
	}
	return nil
}

// SetRequestedUsername queues username for moderation.
func (r *UserRepository) SetRequestedUsername(ctx context.Context, id, username string, now time.Time) error {
	const query = `UPDATE users SET requested_username = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, username, now); err != nil {
		return fmt.Errorf("set requested username: %w", err)
	}
	return nil
}

// CommitUsername makes username the verified username and clears any request.
// A non-nil nextChange starts a new username cooldown.
func (r *UserRepository) CommitUsername(ctx context.Context, id, username string, nextChange *time.Time, now time.Time) error {
	const query = `UPDATE users SET username = $2, requested_username = NULL, username_verified = TRUE, next_username_change = COALESCE($3, next_username_change), updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, username, nextChange, now); err != nil {
		return fmt.Errorf("commit username: %w", err)
	}
	return nil
}

// ClearRequestedUsername drops a queued request without touching verification.
func (r *UserRepository) ClearRequestedUsername(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE users SET requested_username = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, now); err != nil {
		return fmt.Errorf("clear requested username: %w", err)
	}
	return nil
}

// ListUsernameRequests returns the username moderation queue, oldest first.
func (r *UserRepository) ListUsernameRequests(ctx context.Context) ([]models.UsernameRequest, error) {
	const query = `SELECT id, email, username, requested_username, updated_at FROM users WHERE requested_username IS NOT NULL AND requested_username <> '' ORDER BY updated_at ASC`
	var requests []models.UsernameRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list username requests: %w", err)
	}
	return requests, nil
}

// UpdateBirthdate stores birthdate and stamps the change.
func (r *UserRepository) UpdateBirthdate(ctx context.Context, id string, birthdate time.Time, now time.Time) error {
	const query = `UPDATE users SET birthdate = $2, birthdate_updated_at = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, birthdate, now); err != nil {
		return fmt.Errorf("update birthdate: %w", err)
	}
	return nil
}

// UpdateAvatar stores a new avatar path with its moderation status.
func (r *UserRepository) UpdateAvatar(ctx context.Context, id, path string, status models.AvatarStatus, now time.Time) error {
	const query = `UPDATE users SET avatar_url = $2, avatar_status = $3, avatar_updated_at = $4, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, status, now); err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	return nil
}

// ResolveAvatar sets the moderation outcome. Rejected avatars lose their path.
func (r *UserRepository) ResolveAvatar(ctx context.Context, id string, status models.AvatarStatus, now time.Time) error {
	const query = `UPDATE users SET avatar_status = $2, avatar_url = CASE WHEN $2 = 'rejected' THEN NULL ELSE avatar_url END, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, now); err != nil {
		return fmt.Errorf("resolve avatar: %w", err)
	}
	return nil
}

// ListPendingAvatars returns users whose avatar awaits moderation.
func (r *UserRepository) ListPendingAvatars(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE avatar_status = 'pending' AND avatar_url IS NOT NULL ORDER BY avatar_updated_at ASC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list pending avatars: %w", err)
	}
	return users, nil
}

// AddPoints atomically increments the user's points and returns the new total.
func (r *UserRepository) AddPoints(ctx context.Context, id string, points int) (int, error) {
	const query = `UPDATE users SET points = points + $2, updated_at = NOW() WHERE id = $1 RETURNING points`
	var total int
	if err := r.db.GetContext(ctx, &total, query, id, points); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("add points: %w", err)
	}
	return total, nil
}

// CountHigherRanked counts rank-eligible users with strictly more points.
func (r *UserRepository) CountHigherRanked(ctx context.Context, points int) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE ` + rankEligibleClause + ` AND points > $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, points); err != nil {
		return 0, fmt.Errorf("count higher ranked: %w", err)
	}
	return count, nil
}

// Leaderboard returns the top rank-eligible users with a username.
func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `SELECT id, username, avatar_url, points FROM users WHERE ` + rankEligibleClause + ` AND username IS NOT NULL ORDER BY points DESC, username ASC LIMIT $1`
	var entries []models.LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

// List returns users based on filters with total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	baseQuery := `FROM users WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(email) LIKE $%d OR LOWER(COALESCE(username, '')) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", userColumns, baseQuery, pageSize, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// UpdateRole changes a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.UserRole, now time.Time) error {
	const query = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, role, now); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// Suspend locks an account. A nil until suspends indefinitely.
func (r *UserRepository) Suspend(ctx context.Context, id, reason string, until *time.Time, now time.Time) error {
	const query = `UPDATE users SET is_suspended = TRUE, suspended_until = $2, suspended_reason = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, until, reason, now); err != nil {
		return fmt.Errorf("suspend user: %w", err)
	}
	return nil
}

// SetHidden hides or shows a user in public listings.
func (r *UserRepository) SetHidden(ctx context.Context, id string, hidden bool, now time.Time) error {
	const query = `UPDATE users SET is_hidden = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hidden, now); err != nil {
		return fmt.Errorf("set user hidden: %w", err)
	}
	return nil
}

// Delete removes a user. Owned rows cascade in the schema.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
