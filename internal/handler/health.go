package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"go.uber.org/zap"
)

const serviceName = "doctorai-backend"

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler implements the health check
type HealthHandler struct {
	advice   *service.AdviceService
	db       Pinger
	provider string
	backend  string
	logger   *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. db may be nil when history is
// not kept in PostgreSQL.
func NewHealthHandler(advice *service.AdviceService, db Pinger, provider, backend string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		advice:   advice,
		db:       db,
		provider: provider,
		backend:  backend,
		logger:   logger,
	}
}

// GetHealth reports service status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	resp := api.HealthResponse{
		Status:       "healthy",
		Service:      serviceName,
		Provider:     h.provider,
		History:      h.backend,
		AIReady:      h.advice.Configured(),
		OnExhaustion: string(h.advice.Policy()),
	}

	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			h.logger.Error("health check failed: database unreachable", zap.Error(err))
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
