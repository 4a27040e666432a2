package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opentalent/talentgraph-backend/internal/http/response"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

type ConnectionHandler struct {
	log         *logger.Logger
	connections services.ConnectionService
}

func NewConnectionHandler(log *logger.Logger, connections services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		log:         log.With("handler", "ConnectionHandler"),
		connections: connections,
	}
}

type connectionPayload struct {
	SourceID  string `json:"sourceId"`
	TargetID  string `json:"targetId"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

func (h *ConnectionHandler) Create(c *gin.Context) {
	var body connectionPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := h.connections.Create(c.Request.Context(), body.SourceID, body.TargetID, body.Type, body.Direction)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"sourceId": body.SourceID,
		"targetId": body.TargetID,
	})
}

func (h *ConnectionHandler) Delete(c *gin.Context) {
	sourceID := c.Query("sourceId")
	targetID := c.Query("targetId")
	relType := c.Query("type")

	deleted, err := h.connections.Delete(c.Request.Context(), sourceID, targetID, relType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}
