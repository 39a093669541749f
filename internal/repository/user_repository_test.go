package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var userColumnNames = []string{"id", "email", "full_name", "role", "is_super_admin", "username", "requested_username", "username_verified", "next_username_change", "points", "is_hidden", "is_active", "is_suspended", "suspended_until", "suspended_reason", "avatar_url", "avatar_status", "avatar_updated_at", "birthdate", "birthdate_updated_at", "created_at", "updated_at"}

func userRow(rows *sqlmock.Rows, id, username string, points int, now time.Time) *sqlmock.Rows {
	return rows.AddRow(id, id+"@campus.edu", nil, "student", false, username, nil, true, nil, points, false, true, false, nil, nil, nil, nil, nil, nil, nil, now, now)
}

func TestUserRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1 LIMIT 1")).
		WithArgs("u1").
		WillReturnRows(userRow(sqlmock.NewRows(userColumnNames), "u1", "rex", 12, now))

	user, err := repo.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "rex", *user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, 12, user.Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryAddPointsIsAtomic(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET points = points + $2")).
		WithArgs("u1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"points"}).AddRow(17))

	total, err := repo.AddPoints(context.Background(), "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 17, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCountHigherRanked(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("role NOT IN ('president', 'admin') AND is_super_admin = FALSE AND points > $1")).
		WithArgs(40).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountHigherRanked(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryLeaderboard(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "avatar_url", "points"}).
		AddRow("u1", "ada", nil, 50).
		AddRow("u2", "bo", nil, 30)
	mock.ExpectQuery(regexp.QuoteMeta("AND username IS NOT NULL ORDER BY points DESC, username ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	entries, err := repo.Leaderboard(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ada", entries[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCommitUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	next := now.Add(30 * 24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("requested_username = NULL, username_verified = TRUE, next_username_change = COALESCE($3, next_username_change)")).
		WithArgs("u1", "rex", &next, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CommitUsername(context.Background(), "u1", "rex", &next, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListUsernameRequests(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "username", "requested_username", "updated_at"}).
		AddRow("u1", "a@campus.edu", nil, "ada_1234", now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE requested_username IS NOT NULL")).WillReturnRows(rows)

	requests, err := repo.ListUsernameRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "ada_1234", requests[0].RequestedUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE 1=1 AND (LOWER(email) LIKE $1 OR LOWER(COALESCE(username, '')) LIKE $1) ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("%ada%").
		WillReturnRows(userRow(sqlmock.NewRows(userColumnNames), "u1", "ada", 1, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE 1=1 AND")).
		WithArgs("%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Search: "Ada"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySuspend(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_suspended = TRUE")).
		WithArgs("u1", nil, "spam", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Suspend(context.Background(), "u1", "spam", nil, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}
