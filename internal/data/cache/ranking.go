package cache

import (
	"context"
	"time"

	"github.com/opentalent/talentgraph-backend/internal/domain"
)

// DefaultTTL matches the periodic re-matching cadence: a ranking older than
// one cycle is discarded rather than served stale.
const DefaultTTL = 15 * time.Minute

// Ranking is the time-bounded store of precomputed top-K affinity results.
// SetRanking fully replaces the stored collection and resets its expiration;
// scores are never merged across calls. TopK returns up to k entries by
// descending score and an empty slice on miss or expiry; absence never means
// "no candidates".
type Ranking interface {
	SetRanking(ctx context.Context, jobID string, scores map[string]float64, ttl time.Duration) error
	TopK(ctx context.Context, jobID string, k int) ([]domain.RankingEntry, error)
}
