package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/opentalent/talentgraph-backend/internal/http"
	httpH "github.com/opentalent/talentgraph-backend/internal/http/handlers"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Sync       *httpH.SyncHandler
	Connection *httpH.ConnectionHandler
	Query      *httpH.QueryHandler
	Matching   *httpH.MatchingHandler
	Stats      *httpH.StatsHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Sync:       httpH.NewSyncHandler(log, svcs.Sync),
		Connection: httpH.NewConnectionHandler(log, svcs.Connections),
		Query:      httpH.NewQueryHandler(log, svcs.Queries),
		Matching:   httpH.NewMatchingHandler(log, svcs.Matching),
		Stats:      httpH.NewStatsHandler(log, svcs.Stats),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers) *gin.Engine {
	return httpx.NewRouter(httpx.RouterConfig{
		Log:               log,
		HealthHandler:     handlers.Health,
		SyncHandler:       handlers.Sync,
		ConnectionHandler: handlers.Connection,
		QueryHandler:      handlers.Query,
		MatchingHandler:   handlers.Matching,
		StatsHandler:      handlers.Stats,
	})
}
