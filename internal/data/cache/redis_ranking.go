package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/platform/redisdb"
)

type redisRanking struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewRedisRanking stores each job's ranking in a sorted set under
// match:job:{id}:top.
func NewRedisRanking(client *redisdb.Client, log *logger.Logger) (Ranking, error) {
	if client == nil || client.RDB == nil {
		return nil, fmt.Errorf("cache: redis client required")
	}
	if log == nil {
		return nil, fmt.Errorf("cache: logger required")
	}
	return &redisRanking{rdb: client.RDB, log: log.With("cache", "RedisRanking")}, nil
}

func rankingKey(jobID string) string {
	return fmt.Sprintf("match:job:%s:top", jobID)
}

func (r *redisRanking) SetRanking(ctx context.Context, jobID string, scores map[string]float64, ttl time.Duration) error {
	if jobID == "" {
		return fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := rankingKey(jobID)

	members := make([]goredis.Z, 0, len(scores))
	for personID, score := range scores {
		members = append(members, goredis.Z{Member: personID, Score: score})
	}

	// DEL+ZADD+EXPIRE in one pipeline: each run fully replaces the prior
	// ranking so a fresh partial result never mixes with a stale one.
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set ranking: %w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func (r *redisRanking) TopK(ctx context.Context, jobID string, k int) ([]domain.RankingEntry, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: missing job id", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil
	}
	rows, err := r.rdb.ZRevRangeWithScores(ctx, rankingKey(jobID), 0, int64(k-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top-k ranking: %w: %v", domain.ErrCacheUnavailable, err)
	}
	out := make([]domain.RankingEntry, 0, len(rows))
	for _, z := range rows {
		member, _ := z.Member.(string)
		out = append(out, domain.RankingEntry{PersonID: member, Score: z.Score})
	}
	return out, nil
}
