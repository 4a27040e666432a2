package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opentalent/talentgraph-backend/internal/http/response"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

// StatsHandler serves the activity leaderboards and per-person counters.
type StatsHandler struct {
	log   *logger.Logger
	stats services.StatsService
}

func NewStatsHandler(log *logger.Logger, stats services.StatsService) *StatsHandler {
	return &StatsHandler{
		log:   log.With("handler", "StatsHandler"),
		stats: stats,
	}
}

func topN(c *gin.Context) int {
	n, _ := strconv.Atoi(c.Query("top"))
	return n
}

func (h *StatsHandler) TopJobsByApplications(c *gin.Context) {
	jobs, err := h.stats.TopJobsByApplications(c.Request.Context(), topN(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"jobs": jobs})
}

func (h *StatsHandler) TopPeopleByApplications(c *gin.Context) {
	people, err := h.stats.TopPeopleByApplications(c.Request.Context(), topN(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"people": people})
}

func (h *StatsHandler) TopPeopleByConnections(c *gin.Context) {
	people, err := h.stats.TopPeopleByConnections(c.Request.Context(), topN(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"people": people})
}

func (h *StatsHandler) TopProfileViews(c *gin.Context) {
	people, err := h.stats.TopProfileViews(c.Request.Context(), topN(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"people": people})
}

func (h *StatsHandler) PersonStats(c *gin.Context) {
	stats, err := h.stats.PersonStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}
