package services

import (
	"context"
	"fmt"
	"time"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

// StatsTopNMax bounds leaderboard reads regardless of the requested size.
const StatsTopNMax = 100

// StatsService serves the activity leaderboards kept alongside the graph.
// Counters are populated by the sync, connection and query paths; reads here
// never touch the graph itself.
type StatsService interface {
	TopJobsByApplications(ctx context.Context, n int) ([]domain.StatEntry, error)
	TopPeopleByApplications(ctx context.Context, n int) ([]domain.StatEntry, error)
	TopPeopleByConnections(ctx context.Context, n int) ([]domain.StatEntry, error)
	TopProfileViews(ctx context.Context, n int) ([]domain.StatEntry, error)
	PersonStats(ctx context.Context, personID string) (domain.PersonStats, error)
}

type statsService struct {
	stats   cache.Stats
	log     *logger.Logger
	timeout time.Duration
}

func NewStatsService(stats cache.Stats, log *logger.Logger, timeout time.Duration) StatsService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &statsService{
		stats:   stats,
		log:     log.With("service", "ActivityStats"),
		timeout: timeout,
	}
}

func (s *statsService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

func clampTopN(n int) int {
	if n <= 0 {
		return cache.DefaultStatsTopN
	}
	if n > StatsTopNMax {
		return StatsTopNMax
	}
	return n
}

func (s *statsService) TopJobsByApplications(ctx context.Context, n int) ([]domain.StatEntry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.stats.TopJobsByApplications(ctx, clampTopN(n))
}

func (s *statsService) TopPeopleByApplications(ctx context.Context, n int) ([]domain.StatEntry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.stats.TopPeopleByApplications(ctx, clampTopN(n))
}

func (s *statsService) TopPeopleByConnections(ctx context.Context, n int) ([]domain.StatEntry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.stats.TopPeopleByConnections(ctx, clampTopN(n))
}

func (s *statsService) TopProfileViews(ctx context.Context, n int) ([]domain.StatEntry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.stats.TopProfileViews(ctx, clampTopN(n))
}

func (s *statsService) PersonStats(ctx context.Context, personID string) (domain.PersonStats, error) {
	if personID == "" {
		return domain.PersonStats{}, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.stats.PersonStats(ctx, personID)
}
