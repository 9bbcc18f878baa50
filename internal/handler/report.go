package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"go.uber.org/zap"
)

// ReportHandler implements the PDF export endpoint
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GetApiHistoryClientIdReportPdf streams the history as a PDF
func (h *ReportHandler) GetApiHistoryClientIdReportPdf(c *gin.Context, clientId string) {
	pdfBytes, err := h.service.Export(c.Request.Context(), clientId, requestMeta(c))
	if err != nil {
		if isClientIDError(err) {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid client id", err))
			return
		}
		h.logger.Error("failed to export history", zap.Error(err), zap.String("client_id", clientId))
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to generate report", err))
		return
	}

	h.logger.Info("history report exported",
		zap.String("client_id", clientId),
		zap.Int("size", len(pdfBytes)),
	)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, "health-history.pdf"))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
