package cache

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/platform/redisdb"
)

type redisStats struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewRedisStats keeps each leaderboard in a Redis sorted set, incremented
// with ZINCRBY and read with ZREVRANGE.
func NewRedisStats(client *redisdb.Client, log *logger.Logger) (Stats, error) {
	if client == nil || client.RDB == nil {
		return nil, fmt.Errorf("cache: redis client required")
	}
	if log == nil {
		return nil, fmt.Errorf("cache: logger required")
	}
	return &redisStats{rdb: client.RDB, log: log.With("cache", "RedisStats")}, nil
}

func (r *redisStats) RecordApplication(ctx context.Context, personID, jobID string) error {
	if personID == "" || jobID == "" {
		return fmt.Errorf("%w: missing person or job id", domain.ErrInvalidInput)
	}
	pipe := r.rdb.TxPipeline()
	pipe.ZIncrBy(ctx, statApplicationsByJob, 1, jobID)
	pipe.ZIncrBy(ctx, statApplicationsByPerson, 1, personID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record application: %w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func (r *redisStats) RecordConnection(ctx context.Context, personA, personB string) error {
	if personA == "" || personB == "" {
		return fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	pipe := r.rdb.TxPipeline()
	pipe.ZIncrBy(ctx, statConnectionsCount, 1, personA)
	pipe.ZIncrBy(ctx, statConnectionsCount, 1, personB)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record connection: %w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func (r *redisStats) RecordProfileView(ctx context.Context, personID string) error {
	if personID == "" {
		return fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	if err := r.rdb.ZIncrBy(ctx, statProfileViews, 1, personID).Err(); err != nil {
		return fmt.Errorf("record profile view: %w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func (r *redisStats) TopJobsByApplications(ctx context.Context, n int) ([]domain.StatEntry, error) {
	return r.top(ctx, statApplicationsByJob, n)
}

func (r *redisStats) TopPeopleByApplications(ctx context.Context, n int) ([]domain.StatEntry, error) {
	return r.top(ctx, statApplicationsByPerson, n)
}

func (r *redisStats) TopPeopleByConnections(ctx context.Context, n int) ([]domain.StatEntry, error) {
	return r.top(ctx, statConnectionsCount, n)
}

func (r *redisStats) TopProfileViews(ctx context.Context, n int) ([]domain.StatEntry, error) {
	return r.top(ctx, statProfileViews, n)
}

func (r *redisStats) top(ctx context.Context, name string, n int) ([]domain.StatEntry, error) {
	if n <= 0 {
		n = DefaultStatsTopN
	}
	rows, err := r.rdb.ZRevRangeWithScores(ctx, name, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top %s: %w: %v", name, domain.ErrCacheUnavailable, err)
	}
	out := make([]domain.StatEntry, 0, len(rows))
	for _, z := range rows {
		member, _ := z.Member.(string)
		out = append(out, domain.StatEntry{ID: member, Count: int64(z.Score)})
	}
	return out, nil
}

func (r *redisStats) PersonStats(ctx context.Context, personID string) (domain.PersonStats, error) {
	if personID == "" {
		return domain.PersonStats{}, fmt.Errorf("%w: missing person id", domain.ErrInvalidInput)
	}
	out := domain.PersonStats{PersonID: personID}
	counters := []struct {
		name string
		dst  *int64
	}{
		{statApplicationsByPerson, &out.Applications},
		{statConnectionsCount, &out.Connections},
		{statProfileViews, &out.ProfileViews},
	}
	for _, c := range counters {
		score, err := r.rdb.ZScore(ctx, c.name, personID).Result()
		if err == goredis.Nil {
			continue
		}
		if err != nil {
			return domain.PersonStats{}, fmt.Errorf("person stats: %w: %v", domain.ErrCacheUnavailable, err)
		}
		*c.dst = int64(score)
	}
	return out, nil
}
