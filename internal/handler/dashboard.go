package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"go.uber.org/zap"
)

// DashboardHandler implements the dashboard endpoint
type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiDashboardClientId returns dashboard statistics for a client
func (h *DashboardHandler) GetApiDashboardClientId(c *gin.Context, clientId string, params api.GetApiDashboardClientIdParams) {
	var selected string
	if params.Range != nil {
		selected = string(*params.Range)
	}

	dashboard, err := h.service.GetDashboard(c.Request.Context(), clientId, selected)
	if err != nil {
		if isClientIDError(err) {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid client id", err))
			return
		}
		h.logger.Error("failed to get dashboard", zap.Error(err), zap.String("client_id", clientId))
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to get dashboard", err))
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
