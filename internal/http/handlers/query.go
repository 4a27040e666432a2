package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opentalent/talentgraph-backend/internal/http/response"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

// QueryHandler serves the graph read surface: social traversals, skill
// lookups, and per-person job recommendations.
type QueryHandler struct {
	log     *logger.Logger
	queries services.QueryService
}

func NewQueryHandler(log *logger.Logger, queries services.QueryService) *QueryHandler {
	return &QueryHandler{
		log:     log.With("handler", "QueryHandler"),
		queries: queries,
	}
}

func (h *QueryHandler) Network(c *gin.Context) {
	network, err := h.queries.Network(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"network": network})
}

func (h *QueryHandler) CommonConnections(c *gin.Context) {
	common, err := h.queries.CommonConnections(c.Request.Context(), c.Param("id"), c.Query("with"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"common": common})
}

func (h *QueryHandler) SuggestedConnections(c *gin.Context) {
	suggested, err := h.queries.SuggestedConnections(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggested": suggested})
}

func (h *QueryHandler) JobRecommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	recommendations, err := h.queries.JobRecommendations(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recommendations})
}

func (h *QueryHandler) CourseRecommendations(c *gin.Context) {
	courses, err := h.queries.CourseRecommendations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

func (h *QueryHandler) PeopleBySkill(c *gin.Context) {
	minLevel, _ := strconv.Atoi(c.Query("minLevel"))
	people, err := h.queries.PeopleBySkill(c.Request.Context(), c.Param("name"), minLevel)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"people": people})
}

func (h *QueryHandler) AppliedJobs(c *gin.Context) {
	jobs, err := h.queries.AppliedJobs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

func (h *QueryHandler) Applicants(c *gin.Context) {
	applicants, err := h.queries.Applicants(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applicants": applicants})
}
