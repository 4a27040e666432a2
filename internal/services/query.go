package services

import (
	"context"
	"fmt"
	"time"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/matching"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

const (
	// SuggestedConnectionsCap bounds the friend-of-friend suggestion list.
	SuggestedConnectionsCap = 5
	// DefaultRecommendationLimit bounds job recommendation lists.
	DefaultRecommendationLimit = 10
	// CourseRecommendationsCap bounds the interest-driven course list.
	CourseRecommendationsCap = 5
)

// QueryService answers graph-native recommendation reads. Each operation is
// stateless: a pure function of graph contents at call time. An unavailable
// graph propagates as ErrGraphUnavailable, never as an empty result.
type QueryService interface {
	Network(ctx context.Context, personID string) ([]domain.NetworkEntry, error)
	CommonConnections(ctx context.Context, a, b string) ([]domain.PersonRef, error)
	// SuggestedConnections returns up to 5 second-degree people, excluding the
	// person and anyone already directly connected in either direction.
	// Ordering beyond the cap is unspecified.
	SuggestedConnections(ctx context.Context, personID string) ([]domain.PersonRef, error)
	JobRecommendations(ctx context.Context, personID string, limit int) ([]domain.JobMatch, error)
	// CourseRecommendations returns up to 5 courses teaching a skill the
	// person is interested in, most matched interests first.
	CourseRecommendations(ctx context.Context, personID string) ([]domain.CourseRef, error)
	PeopleBySkill(ctx context.Context, skillName string, minLevel int) ([]domain.SkillHolder, error)
	AppliedJobs(ctx context.Context, personID string) ([]domain.JobRef, error)
	Applicants(ctx context.Context, jobID string) ([]domain.PersonRef, error)
}

type queryService struct {
	store   graph.Store
	stats   cache.Stats
	weights matching.Weights
	log     *logger.Logger
	timeout time.Duration
}

func NewQueryService(store graph.Store, stats cache.Stats, weights matching.Weights, log *logger.Logger, timeout time.Duration) QueryService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &queryService{
		store:   store,
		stats:   stats,
		weights: weights.Normalized(),
		log:     log.With("service", "RecommendationQuery"),
		timeout: timeout,
	}
}

func (s *queryService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *queryService) Network(ctx context.Context, personID string) ([]domain.NetworkEntry, error) {
	if personID == "" {
		return nil, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	entries, err := s.store.Network(ctx, personID)
	if err == nil && s.stats != nil {
		// A network read is the profile view of this surface. Best-effort.
		if serr := s.stats.RecordProfileView(ctx, personID); serr != nil {
			s.log.Warn("profile view stats skipped", "person_id", personID, "error", serr)
		}
	}
	return entries, err
}

func (s *queryService) CommonConnections(ctx context.Context, a, b string) ([]domain.PersonRef, error) {
	if a == "" || b == "" {
		return nil, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.CommonConnections(ctx, a, b)
}

func (s *queryService) SuggestedConnections(ctx context.Context, personID string) ([]domain.PersonRef, error) {
	if personID == "" {
		return nil, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.SuggestedConnections(ctx, personID, SuggestedConnectionsCap)
}

func (s *queryService) JobRecommendations(ctx context.Context, personID string, limit int) ([]domain.JobMatch, error) {
	if personID == "" {
		return nil, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	w := s.weights
	return s.store.JobMatches(ctx, personID, w.Mandatory, w.Desirable, limit)
}

func (s *queryService) CourseRecommendations(ctx context.Context, personID string) ([]domain.CourseRef, error) {
	if personID == "" {
		return nil, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.CourseRecommendations(ctx, personID, CourseRecommendationsCap)
}

func (s *queryService) PeopleBySkill(ctx context.Context, skillName string, minLevel int) ([]domain.SkillHolder, error) {
	if key, _ := domain.CanonicalSkill(skillName); key == "" {
		return nil, fmt.Errorf("%w: missing skill name", domain.ErrInvalidInput)
	}
	if minLevel < 0 {
		return nil, fmt.Errorf("%w: negative minimum level", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.PeopleBySkill(ctx, skillName, minLevel)
}

func (s *queryService) AppliedJobs(ctx context.Context, personID string) ([]domain.JobRef, error) {
	if personID == "" {
		return nil, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.AppliedJobs(ctx, personID)
}

func (s *queryService) Applicants(ctx context.Context, jobID string) ([]domain.PersonRef, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.store.Applicants(ctx, jobID)
}
