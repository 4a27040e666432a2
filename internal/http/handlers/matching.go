package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opentalent/talentgraph-backend/internal/http/response"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

type MatchingHandler struct {
	log      *logger.Logger
	matching services.MatchingService
}

func NewMatchingHandler(log *logger.Logger, matching services.MatchingService) *MatchingHandler {
	return &MatchingHandler{
		log:      log.With("handler", "MatchingHandler"),
		matching: matching,
	}
}

func (h *MatchingHandler) Run(c *gin.Context) {
	result, err := h.matching.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *MatchingHandler) TopRanking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	ranking, err := h.matching.TopRanking(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ranking": ranking})
}
