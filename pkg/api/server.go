package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Generate advice (legacy route)
	// (POST /api/gemini)
	PostApiGemini(c *gin.Context)
	// Generate advice
	// (POST /api/advice)
	PostApiAdvice(c *gin.Context)
	// Get dashboard statistics
	// (GET /api/dashboard/{clientId})
	GetApiDashboardClientId(c *gin.Context, clientId string, params GetApiDashboardClientIdParams)
	// List history
	// (GET /api/history/{clientId})
	GetApiHistoryClientId(c *gin.Context, clientId string)
	// Record a report
	// (POST /api/history/{clientId})
	PostApiHistoryClientId(c *gin.Context, clientId string)
	// Export history as PDF
	// (GET /api/history/{clientId}/report.pdf)
	GetApiHistoryClientIdReportPdf(c *gin.Context, clientId string)
	// Move a report to the front
	// (POST /api/history/{clientId}/{reportId}/promote)
	PostApiHistoryClientIdReportIdPromote(c *gin.Context, clientId string, reportId int64)
	// Health check
	// (GET /health)
	GetHealth(c *gin.Context)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

type MiddlewareFunc func(c *gin.Context)

func (siw *ServerInterfaceWrapper) runMiddlewares(c *gin.Context) bool {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return false
		}
	}
	return true
}

// PostApiGemini operation middleware
func (siw *ServerInterfaceWrapper) PostApiGemini(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.PostApiGemini(c)
}

// PostApiAdvice operation middleware
func (siw *ServerInterfaceWrapper) PostApiAdvice(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.PostApiAdvice(c)
}

// GetApiDashboardClientId operation middleware
func (siw *ServerInterfaceWrapper) GetApiDashboardClientId(c *gin.Context) {
	var err error

	var clientId string
	err = runtime.BindStyledParameterWithOptions("simple", "clientId", c.Param("clientId"), &clientId, runtime.BindStyledParameterOptions{Explode: false, Required: true, ParamLocation: runtime.ParamLocationPath})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter clientId: %w", err), http.StatusBadRequest)
		return
	}

	var params GetApiDashboardClientIdParams

	err = runtime.BindQueryParameter("form", true, false, "range", c.Request.URL.Query(), &params.Range)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter range: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetApiDashboardClientId(c, clientId, params)
}

// GetApiHistoryClientId operation middleware
func (siw *ServerInterfaceWrapper) GetApiHistoryClientId(c *gin.Context) {
	clientId, ok := siw.bindClientID(c)
	if !ok || !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetApiHistoryClientId(c, clientId)
}

// PostApiHistoryClientId operation middleware
func (siw *ServerInterfaceWrapper) PostApiHistoryClientId(c *gin.Context) {
	clientId, ok := siw.bindClientID(c)
	if !ok || !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.PostApiHistoryClientId(c, clientId)
}

// GetApiHistoryClientIdReportPdf operation middleware
func (siw *ServerInterfaceWrapper) GetApiHistoryClientIdReportPdf(c *gin.Context) {
	clientId, ok := siw.bindClientID(c)
	if !ok || !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetApiHistoryClientIdReportPdf(c, clientId)
}

// PostApiHistoryClientIdReportIdPromote operation middleware
func (siw *ServerInterfaceWrapper) PostApiHistoryClientIdReportIdPromote(c *gin.Context) {
	clientId, ok := siw.bindClientID(c)
	if !ok {
		return
	}

	var reportId int64
	err := runtime.BindStyledParameterWithOptions("simple", "reportId", c.Param("reportId"), &reportId, runtime.BindStyledParameterOptions{Explode: false, Required: true, ParamLocation: runtime.ParamLocationPath})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter reportId: %w", err), http.StatusBadRequest)
		return
	}

	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.PostApiHistoryClientIdReportIdPromote(c, clientId, reportId)
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(c *gin.Context) {
	if !siw.runMiddlewares(c) {
		return
	}
	siw.Handler.GetHealth(c)
}

func (siw *ServerInterfaceWrapper) bindClientID(c *gin.Context) (string, bool) {
	var clientId string
	err := runtime.BindStyledParameterWithOptions("simple", "clientId", c.Param("clientId"), &clientId, runtime.BindStyledParameterOptions{Explode: false, Required: true, ParamLocation: runtime.ParamLocationPath})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter clientId: %w", err), http.StatusBadRequest)
		return "", false
	}
	return clientId, true
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			details := err.Error()
			c.JSON(statusCode, ErrorResponse{Error: "Invalid request parameters", Details: &details})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	router.POST(options.BaseURL+"/api/gemini", wrapper.PostApiGemini)
	router.POST(options.BaseURL+"/api/advice", wrapper.PostApiAdvice)
	router.GET(options.BaseURL+"/api/dashboard/:clientId", wrapper.GetApiDashboardClientId)
	router.GET(options.BaseURL+"/api/history/:clientId", wrapper.GetApiHistoryClientId)
	router.POST(options.BaseURL+"/api/history/:clientId", wrapper.PostApiHistoryClientId)
	router.GET(options.BaseURL+"/api/history/:clientId/report.pdf", wrapper.GetApiHistoryClientIdReportPdf)
	router.POST(options.BaseURL+"/api/history/:clientId/:reportId/promote", wrapper.PostApiHistoryClientIdReportIdPromote)
	router.GET(options.BaseURL+"/health", wrapper.GetHealth)
}
