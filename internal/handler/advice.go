package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"go.uber.org/zap"
)

const (
	msgNotConfigured  = "API key not configured"
	msgInvalidJSON    = "Invalid JSON in request body"
	msgMissingPrompt  = "Missing prompt in request body"
	msgAllModelsFail  = "Failed to generate health analysis with any available model"
	msgNoModelDetails = "No available models could be accessed with your API key"
	msgAnalysisFailed = "Failed to generate health analysis"
)

// AdviceHandler implements the advice endpoints
type AdviceHandler struct {
	service *service.AdviceService
	logger  *zap.Logger
}

// NewAdviceHandler creates a new AdviceHandler
func NewAdviceHandler(service *service.AdviceService, logger *zap.Logger) *AdviceHandler {
	return &AdviceHandler{
		service: service,
		logger:  logger,
	}
}

// PostApiGemini generates advice under the legacy /api/gemini route
func (h *AdviceHandler) PostApiGemini(c *gin.Context) {
	h.generate(c)
}

// PostApiAdvice generates advice
func (h *AdviceHandler) PostApiAdvice(c *gin.Context) {
	h.generate(c)
}

func (h *AdviceHandler) generate(c *gin.Context) {
	// The credential is checked per request so the server starts without one
	if !h.service.Configured() {
		h.logger.Error("text generation API key not configured")
		c.JSON(http.StatusInternalServerError, errorResponse(msgNotConfigured, nil))
		return
	}

	var req api.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid advice request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse(msgInvalidJSON, err))
		return
	}

	adviceReq := service.AdviceRequest{Form: req.FormData}
	if req.Prompt != nil {
		adviceReq.Prompt = *req.Prompt
	}

	advice, err := h.service.GetAdvice(c.Request.Context(), adviceReq)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if advice.Placeholder {
		c.Header(api.HeaderAdviceFallback, "placeholder")
	} else {
		c.Header(api.HeaderAdviceModel, advice.Model)
	}
	c.JSON(http.StatusOK, api.AdviceResponse{Reply: advice.Reply})
}

func (h *AdviceHandler) writeError(c *gin.Context, err error) {
	var exhausted *service.ExhaustedError

	switch {
	case errors.Is(err, service.ErrMissingPrompt):
		c.JSON(http.StatusBadRequest, errorResponse(msgMissingPrompt, nil))

	case errors.Is(err, service.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, errorResponse(msgNotConfigured, nil))

	case errors.As(err, &exhausted):
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:   msgAllModelsFail,
			Details: stringPtr(msgNoModelDetails),
		})

	default:
		h.logger.Error("failed to generate health analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:   msgAnalysisFailed,
			Details: stringPtr(err.Error()),
			Name:    stringPtr("Error"),
		})
	}
}
