package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/opentalent/talentgraph-backend/internal/http/handlers"
	httpMW "github.com/opentalent/talentgraph-backend/internal/http/middleware"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler     *httpH.HealthHandler
	SyncHandler       *httpH.SyncHandler
	ConnectionHandler *httpH.ConnectionHandler
	QueryHandler      *httpH.QueryHandler
	MatchingHandler   *httpH.MatchingHandler
	StatsHandler      *httpH.StatsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Sync (authoritative-store change notifications)
		if cfg.SyncHandler != nil {
			api.PUT("/sync/people/:id", cfg.SyncHandler.UpsertPerson)
			api.DELETE("/sync/people/:id", cfg.SyncHandler.DeletePerson)
			api.PUT("/sync/jobs/:id", cfg.SyncHandler.UpsertJob)
			api.DELETE("/sync/jobs/:id", cfg.SyncHandler.DeleteJob)
			api.PUT("/sync/companies/:id", cfg.SyncHandler.UpsertCompany)
			api.DELETE("/sync/companies/:id", cfg.SyncHandler.DeleteCompany)
			api.PUT("/sync/courses/:id", cfg.SyncHandler.UpsertCourse)
			api.DELETE("/sync/courses/:id", cfg.SyncHandler.DeleteCourse)
			api.POST("/sync/applications", cfg.SyncHandler.RecordApplication)
			api.POST("/sync/enrollments/progress", cfg.SyncHandler.RecordEnrollmentProgress)
			api.POST("/sync/enrollments/complete", cfg.SyncHandler.RecordEnrollmentCompletion)
		}

		// Connections
		if cfg.ConnectionHandler != nil {
			api.POST("/connections", cfg.ConnectionHandler.Create)
			api.DELETE("/connections", cfg.ConnectionHandler.Delete)
		}

		// Graph reads
		if cfg.QueryHandler != nil {
			api.GET("/people/:id/network", cfg.QueryHandler.Network)
			api.GET("/people/:id/common-connections", cfg.QueryHandler.CommonConnections)
			api.GET("/people/:id/suggested-connections", cfg.QueryHandler.SuggestedConnections)
			api.GET("/people/:id/job-recommendations", cfg.QueryHandler.JobRecommendations)
			api.GET("/people/:id/course-recommendations", cfg.QueryHandler.CourseRecommendations)
			api.GET("/people/:id/applications", cfg.QueryHandler.AppliedJobs)
			api.GET("/skills/:name/people", cfg.QueryHandler.PeopleBySkill)
			api.GET("/jobs/:id/applicants", cfg.QueryHandler.Applicants)
		}

		// Matching
		if cfg.MatchingHandler != nil {
			api.POST("/jobs/:id/match", cfg.MatchingHandler.Run)
			api.GET("/jobs/:id/top-candidates", cfg.MatchingHandler.TopRanking)
		}

		// Activity stats
		if cfg.StatsHandler != nil {
			api.GET("/stats/top/jobs-by-applications", cfg.StatsHandler.TopJobsByApplications)
			api.GET("/stats/top/people-by-applications", cfg.StatsHandler.TopPeopleByApplications)
			api.GET("/stats/top/people-by-connections", cfg.StatsHandler.TopPeopleByConnections)
			api.GET("/stats/top/profile-views", cfg.StatsHandler.TopProfileViews)
			api.GET("/stats/people/:id", cfg.StatsHandler.PersonStats)
		}
	}

	return r
}
