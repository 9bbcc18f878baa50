package api

import "github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"

// ErrorResponse is the error payload of every endpoint
type ErrorResponse struct {
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
	Name    *string `json:"name,omitempty"`
}

// AdviceRequest is the body of POST /api/gemini. Prompt wins when both are set.
type AdviceRequest struct {
	Prompt   *string               `json:"prompt,omitempty"`
	FormData *model.FormSubmission `json:"formData,omitempty"`
}

// AdviceResponse carries the generated text
type AdviceResponse struct {
	Reply string `json:"reply"`
}

// RecordHistoryRequest is the body of POST /api/history/{clientId}
type RecordHistoryRequest struct {
	FormData model.FormSubmission `json:"formData"`
	Result   string               `json:"result"`
}

// GetApiDashboardClientIdParamsRange selects the dashboard period
type GetApiDashboardClientIdParamsRange string

const (
	Week  GetApiDashboardClientIdParamsRange = "week"
	Month GetApiDashboardClientIdParamsRange = "month"
	Year  GetApiDashboardClientIdParamsRange = "year"
)

// GetApiDashboardClientIdParams defines parameters for GetApiDashboardClientId.
type GetApiDashboardClientIdParams struct {
	Range *GetApiDashboardClientIdParamsRange `form:"range,omitempty" json:"range,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Provider string `json:"provider"`
	History  string `json:"history"`
	AIReady  bool   `json:"ai_ready"`
	// OnExhaustion is the answer policy when every model fails: fail or placeholder
	OnExhaustion string `json:"on_exhaustion"`
	Error        string `json:"error,omitempty"`
}

// Header names set by the advice endpoint
const (
	HeaderAdviceModel    = "X-Advice-Model"
	HeaderAdviceFallback = "X-Advice-Fallback"
)
