package app

import (
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

type Services struct {
	Sync        services.SyncService
	Connections services.ConnectionService
	Queries     services.QueryService
	Matching    services.MatchingService
	Stats       services.StatsService
}

func wireServices(clients Clients, cfg Config, log *logger.Logger) Services {
	log.Info("Wiring services...")
	return Services{
		Sync:        services.NewSyncService(clients.Store, clients.Stats, log, cfg.SyncTimeout),
		Connections: services.NewConnectionService(clients.Store, clients.Stats, log, cfg.SyncTimeout),
		Queries:     services.NewQueryService(clients.Store, clients.Stats, cfg.Weights, log, cfg.QueryTimeout),
		Matching:    services.NewMatchingService(clients.Store, clients.Ranking, cfg.Weights, cfg.MatchTTL, log, cfg.SyncTimeout),
		Stats:       services.NewStatsService(clients.Stats, log, cfg.QueryTimeout),
	}
}
