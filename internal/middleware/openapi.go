package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"go.uber.org/zap"
)

// OpenAPIValidationMiddleware validates requests against the OpenAPI document.
// Requests for routes the document does not describe pass through. Bodies
// that are not JSON at all are left to the handler so it can answer with its
// own "Invalid JSON" payload.
func OpenAPIValidationMiddleware(swagger *openapi3.T, logger *zap.Logger) (gin.HandlerFunc, error) {
	// Servers are matched against the request host; validate paths only
	swagger.Servers = nil

	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if err != nil {
			if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
				logger.Warn("OpenAPI route lookup failed", zap.Error(err))
			}
			c.Next()
			return
		}

		opts := &openapi3filter.Options{
			ExcludeRequestBody: true,
		}

		var body []byte
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{
					Error:   "Invalid request body",
					Details: stringPtr(err.Error()),
				})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			opts.ExcludeRequestBody = c.ContentType() != gin.MIMEJSON || !json.Valid(body)
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options:    opts,
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			logger.Warn("request failed OpenAPI validation",
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{
				Error:   "Invalid request",
				Details: stringPtr(err.Error()),
			})
			return
		}

		if body != nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		c.Next()
	}, nil
}

func stringPtr(s string) *string {
	return &s
}
