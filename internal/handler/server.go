package handler

import "github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"

// API implements api.ServerInterface by delegating to the individual handlers
type API struct {
	*AdviceHandler
	*HistoryHandler
	*DashboardHandler
	*ReportHandler
	*HealthHandler
}

var _ api.ServerInterface = (*API)(nil)
