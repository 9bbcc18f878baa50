// Package client talks to the advice and history endpoints the way the
// symptom form does: build the brief prompt, ask for advice, and keep the
// answer in the history only when one was generated.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vcscsvcscs/doctorai/apps/backend/internal/prompt"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// Apology is shown instead of advice when none could be generated
const Apology = "Sorry, we couldn't generate an analysis at this time. Please try again."

// ErrUnavailable is returned together with Apology
var ErrUnavailable = errors.New("analysis unavailable")

// Client is a DoctorAI API client bound to one client id
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a new Client
func New(baseURL, clientID string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check asks for advice on a form. Blank symptoms are rejected without a
// request. When no advice can be generated the reply is Apology and the
// error wraps ErrUnavailable; nothing is recorded in that case.
func (c *Client) Check(ctx context.Context, form model.FormSubmission) (string, error) {
	if err := prompt.Validate(form); err != nil {
		return "", err
	}

	reply, err := c.Advice(ctx, prompt.Brief(form))
	if err != nil {
		c.logger.Warn("advice request failed", zap.Error(err))
		return Apology, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if _, err := c.Record(ctx, form, reply); err != nil {
		c.logger.Warn("failed to record health report", zap.Error(err))
	}

	return reply, nil
}

// Advice posts a raw prompt and returns the generated reply
func (c *Client) Advice(ctx context.Context, text string) (string, error) {
	var resp api.AdviceResponse
	if err := c.do(ctx, http.MethodPost, "/api/gemini", api.AdviceRequest{Prompt: &text}, &resp); err != nil {
		return "", err
	}
	if resp.Reply == "" {
		return "", errors.New("empty reply")
	}
	return resp.Reply, nil
}

// Record stores a finished analysis and returns the updated history
func (c *Client) Record(ctx context.Context, form model.FormSubmission, result string) ([]model.HealthReport, error) {
	var reports []model.HealthReport
	body := api.RecordHistoryRequest{FormData: form, Result: result}
	if err := c.do(ctx, http.MethodPost, c.historyPath(), body, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// History returns the stored reports, newest first
func (c *Client) History(ctx context.Context) ([]model.HealthReport, error) {
	var reports []model.HealthReport
	if err := c.do(ctx, http.MethodGet, c.historyPath(), nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Promote moves a stored report to the front of the history
func (c *Client) Promote(ctx context.Context, id int64) ([]model.HealthReport, error) {
	var reports []model.HealthReport
	path := fmt.Sprintf("%s/%d/promote", c.historyPath(), id)
	if err := c.do(ctx, http.MethodPost, path, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) historyPath() string {
	return "/api/history/" + url.PathEscape(c.clientID)
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       api.ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Body.Error == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body.Error)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&statusErr.Body)
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
