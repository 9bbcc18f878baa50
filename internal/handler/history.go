package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/prompt"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"go.uber.org/zap"
)

// HistoryHandler implements the history endpoints
type HistoryHandler struct {
	service *service.HistoryService
	logger  *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(service *service.HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiHistoryClientId lists a client's reports, newest first
func (h *HistoryHandler) GetApiHistoryClientId(c *gin.Context, clientId string) {
	reports, err := h.service.List(c.Request.Context(), clientId)
	if err != nil {
		if isClientIDError(err) {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid client id", err))
			return
		}
		h.logger.Error("failed to list history", zap.Error(err), zap.String("client_id", clientId))
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load health history", err))
		return
	}

	c.JSON(http.StatusOK, nonNil(reports))
}

// PostApiHistoryClientId records a completed analysis
func (h *HistoryHandler) PostApiHistoryClientId(c *gin.Context, clientId string) {
	var req api.RecordHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid history request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse(msgInvalidJSON, err))
		return
	}

	reports, err := h.service.Record(c.Request.Context(), clientId, req.FormData, req.Result, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, prompt.ErrMissingSymptoms):
			c.JSON(http.StatusBadRequest, errorResponse("Symptoms are required", nil))
		case isClientIDError(err):
			c.JSON(http.StatusBadRequest, errorResponse("Invalid client id", err))
		default:
			h.logger.Error("failed to record health report", zap.Error(err), zap.String("client_id", clientId))
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to save health report", err))
		}
		return
	}

	h.logger.Info("health report recorded",
		zap.String("client_id", clientId),
		zap.Int("history_length", len(reports)),
	)

	c.JSON(http.StatusOK, reports)
}

// PostApiHistoryClientIdReportIdPromote moves a report to the front of the history
func (h *HistoryHandler) PostApiHistoryClientIdReportIdPromote(c *gin.Context, clientId string, reportId int64) {
	reports, err := h.service.Promote(c.Request.Context(), clientId, reportId, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, history.ErrReportNotFound):
			c.JSON(http.StatusNotFound, errorResponse("Health report not found", nil))
		case isClientIDError(err):
			c.JSON(http.StatusBadRequest, errorResponse("Invalid client id", err))
		default:
			h.logger.Error("failed to promote health report",
				zap.Error(err),
				zap.String("client_id", clientId),
				zap.Int64("report_id", reportId),
			)
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to update health history", err))
		}
		return
	}

	c.JSON(http.StatusOK, reports)
}
