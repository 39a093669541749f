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

const reportColumns = `id, reported_by, reported_user, target_type, target_id, reason, status, report_date, created_at, updated_at`

// ReportRepository provides database access for content reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report. The (reported_by, report_date) unique constraint
// surfaces as a wrapped unique violation when the reporter already filed one today.
func (r *ReportRepository) Create(ctx context.Context, report *models.UserReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = report.CreatedAt
	if report.ReportDate.IsZero() {
		report.ReportDate = report.CreatedAt.Truncate(24 * time.Hour)
	}
	if report.Status == "" {
		report.Status = models.ReportPending
	}
	const query = `INSERT INTO user_reports (` + reportColumns + `) VALUES (:id, :reported_by, :reported_user, :target_type, :target_id, :reason, :status, :report_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// FindByID returns a report by id.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.UserReport, error) {
	const query = `SELECT ` + reportColumns + ` FROM user_reports WHERE id = $1 LIMIT 1`
	var report models.UserReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &report, nil
}

// List returns reports with reporter and reported usernames, newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithNames, error) {
	query := `SELECT r.id, r.reported_by, r.reported_user, r.target_type, r.target_id, r.reason, r.status, r.report_date, r.created_at, r.updated_at, rb.username AS reporter_username, ru.username AS reported_username
FROM user_reports r
LEFT JOIN users rb ON rb.id = r.reported_by
LEFT JOIN users ru ON ru.id = r.reported_user`
	var conditions []string
	var args []interface{}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.TargetType != nil {
		conditions = append(conditions, fmt.Sprintf("r.target_type = $%d", len(args)+1))
		args = append(args, *filter.TargetType)
	}
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	query += fmt.Sprintf("\nORDER BY r.created_at DESC LIMIT %d", limit)

	var reports []models.ReportWithNames
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus moves a report to status.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus, now time.Time) error {
	const query = `UPDATE user_reports SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, now); err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	return nil
}
