package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

type fakeStats struct {
	since time.Time
	stats models.CampusStats
}

func (f *fakeStats) CampusStats(_ context.Context, since time.Time) (*models.CampusStats, error) {
	f.since = since
	stats := f.stats
	return &stats, nil
}

func newLeaderboardFixture() (*LeaderboardService, *fakeStats) {
	users := newFakeUsers()
	users.leaderRows = []models.LeaderboardEntry{
		{UserID: "a", Username: "alice", Points: 50, AvatarURL: strPtr("avatars/a/avatar.png")},
		{UserID: "b", Username: "bob", Points: 80},
		{UserID: "c", Username: "cara", Points: 50},
		{UserID: "d", Username: "dan", Points: 10},
	}
	stats := &fakeStats{stats: models.CampusStats{TotalDogs: 12, ActionsToday: 4}}
	svc := NewLeaderboardService(users, stats, newFakeStore(), nil, 0, time.Minute, time.Minute, zap.NewNop())
	svc.now = fixedClock(time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC))
	return svc, stats
}

func TestLeaderboardSharesTiedRanks(t *testing.T) {
	svc, _ := newLeaderboardFixture()

	entries, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	ranks := map[string]int{}
	for _, e := range entries {
		ranks[e.Username] = e.Rank
	}
	assert.Equal(t, map[string]int{"bob": 1, "alice": 2, "cara": 2, "dan": 4}, ranks)
	assert.Equal(t, "https://cdn.test/avatars/a/avatar.png", *entries[1].AvatarURL)
}

func TestLeaderboardClampLimit(t *testing.T) {
	svc, _ := newLeaderboardFixture()

	assert.Equal(t, DefaultLeaderboardLimit, svc.ClampLimit(0))
	assert.Equal(t, 5, svc.ClampLimit(5))
	assert.Equal(t, MaxLeaderboardLimit, svc.ClampLimit(1000))
}

func TestLeaderboardExportCSV(t *testing.T) {
	svc, _ := newLeaderboardFixture()

	file, err := svc.Export(context.Background(), presidentSession("p1"), "CSV", 10)
	require.NoError(t, err)
	assert.Equal(t, "leaderboard-20260901.csv", file.Filename)
	assert.Contains(t, file.ContentType, "text/csv")

	records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Rank", "Username", "Points"}, records[0])
	assert.Equal(t, []string{"1", "bob", "80"}, records[1])
}

func TestLeaderboardExportGuards(t *testing.T) {
	svc, _ := newLeaderboardFixture()

	_, err := svc.Export(context.Background(), studentSession("s1", true), "csv", 10)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Export(context.Background(), presidentSession("p1"), "xlsx", 10)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestLeaderboardExportPDF(t *testing.T) {
	svc, _ := newLeaderboardFixture()

	file, err := svc.Export(context.Background(), presidentSession("p1"), "pdf", 10)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestCampusStatsCountsFromStartOfDay(t *testing.T) {
	svc, stats := newLeaderboardFixture()

	got, err := svc.CampusStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalDogs)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), stats.since)
}
