package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/http/response"
)

// respondServiceError maps service sentinels onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, domain.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domain.ErrGraphUnavailable):
		response.RespondError(c, http.StatusServiceUnavailable, "graph_unavailable", err)
	case errors.Is(err, domain.ErrCacheUnavailable):
		response.RespondError(c, http.StatusServiceUnavailable, "cache_unavailable", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
