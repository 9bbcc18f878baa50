package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
)

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// errorResponse builds the error payload; err, when present, becomes details
func errorResponse(message string, err error) api.ErrorResponse {
	resp := api.ErrorResponse{Error: message}
	if err != nil {
		resp.Details = stringPtr(err.Error())
	}
	return resp
}

// requestMeta collects the caller details recorded in the audit log
func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// nonNil keeps empty histories serialised as [] rather than null
func nonNil(reports []model.HealthReport) []model.HealthReport {
	if reports == nil {
		return []model.HealthReport{}
	}
	return reports
}

func isClientIDError(err error) bool {
	return errors.Is(err, history.ErrInvalidClientID)
}
