package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
	"github.com/noah-isme/campus-paws-api/pkg/export"
)

// Leaderboard size bounds.
const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

type leaderboardRepository interface {
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type statsRepository interface {
	CampusStats(ctx context.Context, since time.Time) (*models.CampusStats, error)
}

type urlResolver interface {
	URL(key string) string
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// LeaderboardService serves the ranking and the campus counters.
type LeaderboardService struct {
	users        leaderboardRepository
	stats        statsRepository
	urls         urlResolver
	renderers    map[string]renderer
	cache        *CacheService
	defaultLimit int
	rankTTL      time.Duration
	statsTTL     time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewLeaderboardService constructs a LeaderboardService with CSV and PDF exports.
func NewLeaderboardService(users leaderboardRepository, stats statsRepository, urls urlResolver, cache *CacheService, defaultLimit int, rankTTL, statsTTL time.Duration, logger *zap.Logger) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 || defaultLimit > MaxLeaderboardLimit {
		defaultLimit = DefaultLeaderboardLimit
	}
	csv := export.NewCSVExporter()
	pdf := export.NewPDFExporter()
	return &LeaderboardService{
		users:        users,
		stats:        stats,
		urls:         urls,
		renderers:    map[string]renderer{csv.Extension(): csv, pdf.Extension(): pdf},
		cache:        cache,
		defaultLimit: defaultLimit,
		rankTTL:      rankTTL,
		statsTTL:     statsTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// ClampLimit applies the default and the upper bound to a requested size.
func (s *LeaderboardService) ClampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

// Leaderboard returns the top ranked participants. Tied points share a rank.
func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	limit = s.ClampLimit(limit)
	key := CacheKeyLeaderboardPrefix + strconv.Itoa(limit)
	return remember(ctx, s.cache, key, s.rankTTL, func() ([]models.LeaderboardEntry, error) {
		entries, err := s.users.Leaderboard(ctx, limit)
		if err != nil {
			return nil, internalError(err, "failed to load leaderboard")
		}
		rules.AssignRanks(entries)
		for i := range entries {
			if entries[i].AvatarURL != nil && s.urls != nil {
				url := s.urls.URL(*entries[i].AvatarURL)
				entries[i].AvatarURL = &url
			}
		}
		if entries == nil {
			entries = []models.LeaderboardEntry{}
		}
		return entries, nil
	})
}

// Export renders the leaderboard as csv or pdf for moderators.
func (s *LeaderboardService) Export(ctx context.Context, session models.Session, format string, limit int) (*ExportFile, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	r, ok := s.renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	entries, err := s.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	data := export.Dataset{
		Title: fmt.Sprintf("Kindness leaderboard %s", now.Format("2006-01-02")),
		Columns: []export.Column{
			{Key: "rank", Label: "Rank", Weight: 1},
			{Key: "username", Label: "Username", Weight: 4},
			{Key: "points", Label: "Points", Weight: 2},
		},
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, map[string]string{
			"rank":     strconv.Itoa(e.Rank),
			"username": e.Username,
			"points":   strconv.Itoa(e.Points),
		})
	}
	body, err := r.Render(data)
	if err != nil {
		return nil, internalError(err, "failed to render leaderboard export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("leaderboard-%s.%s", now.Format("20060102"), r.Extension()),
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}

// CampusStats returns the home page counters.
func (s *LeaderboardService) CampusStats(ctx context.Context) (*models.CampusStats, error) {
	return remember(ctx, s.cache, CacheKeyCampusStats, s.statsTTL, func() (*models.CampusStats, error) {
		now := s.now().UTC()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		stats, err := s.stats.CampusStats(ctx, startOfDay)
		if err != nil {
			return nil, internalError(err, "failed to load campus stats")
		}
		return stats, nil
	})
}
