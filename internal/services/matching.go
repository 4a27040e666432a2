package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/matching"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

// RunResult reports one matching run.
type RunResult struct {
	Cached         bool `json:"cached"`
	CandidateCount int  `json:"candidateCount"`
}

// MatchingService computes a job's candidate ranking from the graph and
// materializes it into the time-bounded ranking cache.
type MatchingService interface {
	// Run scores every candidate with at least one matched skill and replaces
	// the job's cached ranking. Cached is false when nothing matched: a job
	// with no candidates has no cache entry rather than an empty one.
	Run(ctx context.Context, jobID string) (RunResult, error)
	// TopRanking reads up to k entries from the cached ranking, best first.
	// An expired or absent ranking yields an empty list, never stale data.
	TopRanking(ctx context.Context, jobID string, k int) ([]domain.RankingEntry, error)
}

type matchingService struct {
	store   graph.Store
	ranking cache.Ranking
	weights matching.Weights
	ttl     time.Duration
	log     *logger.Logger
	timeout time.Duration
}

func NewMatchingService(store graph.Store, ranking cache.Ranking, weights matching.Weights, ttl time.Duration, log *logger.Logger, timeout time.Duration) MatchingService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &matchingService{
		store:   store,
		ranking: ranking,
		weights: weights.Normalized(),
		ttl:     ttl,
		log:     log.With("service", "Matching"),
		timeout: timeout,
	}
}

func (s *matchingService) Run(ctx context.Context, jobID string) (RunResult, error) {
	if jobID == "" {
		return RunResult{}, fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.store.JobExists(ctx, jobID)
	if err != nil {
		return RunResult{}, err
	}
	if !exists {
		return RunResult{}, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}

	matches, err := s.store.CandidateMatches(ctx, jobID)
	if err != nil {
		return RunResult{}, err
	}
	scores := matching.Score(matches, s.weights)
	if len(scores) == 0 {
		s.log.Info("matching run found no candidates", "job_id", jobID)
		return RunResult{Cached: false, CandidateCount: 0}, nil
	}

	if err := s.ranking.SetRanking(ctx, jobID, scores, s.ttl); err != nil {
		return RunResult{}, err
	}
	s.log.Info("matching run cached ranking", "job_id", jobID, "candidates", len(scores))
	return RunResult{Cached: true, CandidateCount: len(scores)}, nil
}

func (s *matchingService) TopRanking(ctx context.Context, jobID string, k int) ([]domain.RankingEntry, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = DefaultRecommendationLimit
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entries, err := s.ranking.TopK(ctx, jobID, k)
	if err != nil {
		return nil, err
	}
	// Backends agree on score order but not on tie order; fix it here so
	// rankings are reproducible.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PersonID < entries[j].PersonID
	})
	return entries, nil
}
