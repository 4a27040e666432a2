package app

import (
	"context"

	"github.com/opentalent/talentgraph-backend/internal/data/cache"
	"github.com/opentalent/talentgraph-backend/internal/data/graph"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/platform/neo4jdb"
	"github.com/opentalent/talentgraph-backend/internal/platform/redisdb"
)

type Clients struct {
	Neo4j *neo4jdb.Client
	Redis *redisdb.Client

	Store   graph.Store
	Ranking cache.Ranking
	Stats   cache.Stats
}

// wireClients connects to Neo4j and Redis when configured, falling back to
// the in-process implementations so a bare environment still serves traffic.
func wireClients(ctx context.Context, log *logger.Logger) (Clients, error) {
	var clients Clients

	neo, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return clients, err
	}
	clients.Neo4j = neo
	if neo != nil {
		store, err := graph.NewNeo4jStore(ctx, neo, log)
		if err != nil {
			return clients, err
		}
		clients.Store = store
	} else {
		log.Warn("NEO4J_URI not set, using in-memory graph store")
		clients.Store = graph.NewMemoryStore()
	}

	rds, err := redisdb.NewFromEnv(log)
	if err != nil {
		return clients, err
	}
	clients.Redis = rds
	if rds != nil {
		ranking, err := cache.NewRedisRanking(rds, log)
		if err != nil {
			return clients, err
		}
		clients.Ranking = ranking
		stats, err := cache.NewRedisStats(rds, log)
		if err != nil {
			return clients, err
		}
		clients.Stats = stats
	} else {
		log.Warn("REDIS_ADDR not set, using in-memory ranking cache and stats")
		clients.Ranking = cache.NewMemoryRanking()
		clients.Stats = cache.NewMemoryStats()
	}

	return clients, nil
}

func (c Clients) Close(ctx context.Context) {
	if c.Neo4j != nil {
		c.Neo4j.Close(ctx)
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}
