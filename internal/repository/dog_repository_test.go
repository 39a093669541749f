package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

var dogColumnNames = []string{"id", "temporary_name", "official_name", "name_locked", "qr_code", "description", "profile_image", "soft_locations", "vaccination_status", "verified", "is_active", "is_hidden", "created_by", "reported_by", "registered_by", "latitude", "longitude", "created_at", "updated_at"}

func TestDogRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO dogs (id, temporary_name")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	name := "Brownie"
	dog := &models.Dog{TemporaryName: &name, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), dog))
	assert.NotEmpty(t, dog.ID)
	assert.Equal(t, models.VaccinationUnknown, dog.VaccinationStatus)
	assert.NotNil(t, dog.SoftLocations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogRepositoryFindByQRCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(dogColumnNames).
		AddRow("d1", "Brownie", "Choco", true, "QR-1", nil, nil, "{library,canteen}", "vaccinated", true, true, false, nil, nil, nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE qr_code = $1 AND verified = TRUE AND is_active = TRUE")).
		WithArgs("QR-1").
		WillReturnRows(rows)

	dog, err := repo.FindByQRCode(context.Background(), "QR-1")
	require.NoError(t, err)
	assert.Equal(t, "Choco", dog.DisplayName())
	assert.Equal(t, []string{"library", "canteen"}, []string(dog.SoftLocations))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	mock.ExpectQuery("FROM dogs WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDogRepositoryListPublicSearch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(array_to_string(soft_locations, ' ')) LIKE $1")).
		WithArgs("%library%").
		WillReturnRows(sqlmock.NewRows(dogColumnNames))

	dogs, err := repo.ListPublic(context.Background(), models.DogFilter{Search: "  Library "})
	require.NoError(t, err)
	assert.Empty(t, dogs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogRepositoryVerify(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	now := time.Now().UTC()
	name := "Choco"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE dogs SET verified = TRUE, qr_code = $2")).
		WithArgs("d1", "QR-1", &name, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Verify(context.Background(), "d1", "QR-1", &name, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogRepositorySetOfficialNameLocked(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND name_locked = FALSE")).
		WithArgs("d1", "Choco", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.SetOfficialName(context.Background(), "d1", "Choco", now)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDogRepositoryFindSummaryDefaultsToZero(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM dog_summary WHERE dog_id = $1")).
		WithArgs("d1").
		WillReturnError(sql.ErrNoRows)

	summary, err := repo.FindSummary(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", summary.DogID)
	assert.Nil(t, summary.LastFedAt)
	assert.Zero(t, summary.BehaviourScore)
}

func TestDogRepositoryFindSummaries(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	fed := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"dog_id", "last_fed_at", "behaviour_score", "total_interactions", "avg_mood"}).
		AddRow("d1", fed, 6, 10, 4.5)
	mock.ExpectQuery(regexp.QuoteMeta("FROM dog_summary WHERE dog_id IN")).
		WithArgs("d1", "d2").
		WillReturnRows(rows)

	summaries, err := repo.FindSummaries(context.Background(), []string{"d1", "d2"})
	require.NoError(t, err)
	require.Contains(t, summaries, "d1")
	assert.Equal(t, 6, summaries["d1"].BehaviourScore)
	assert.NotContains(t, summaries, "d2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDogRepositoryRestoreOnlyUnhides(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDogRepository(db)

	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE dogs SET is_hidden = FALSE, updated_at = $2 WHERE id = $1")).
		WithArgs("d1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Restore(context.Background(), "d1", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}
