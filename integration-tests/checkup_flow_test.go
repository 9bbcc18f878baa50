package integration_tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/azure"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/security"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/client"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap/zaptest"
)

var checkups = []model.FormSubmission{
	{Age: "34", Gender: "female", Temperature: "100.4", Duration: "1-2 days", Symptoms: "Cough and sore throat", Allergies: "none"},
	{Age: "34", Gender: "female", Temperature: "98.6", Duration: "less than a day", Symptoms: "Mild tiredness"},
	{Age: "34", Gender: "female", Temperature: "102", Duration: "3-5 days", Symptoms: "Chest pain when climbing stairs"},
	{Age: "34", Gender: "female", Temperature: "99.1", Duration: "1-2 days", Symptoms: "Runny nose"},
}

func newEncryptedMemorySlot(t *testing.T) history.Slot {
	t.Helper()
	key, err := security.ParseKey("MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=")
	require.NoError(t, err)
	encryptor, err := security.NewEncryptor(key)
	require.NoError(t, err)
	return history.NewEncryptedSlot(history.NewMemorySlot(), encryptor)
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestCheckupFlow(t *testing.T) {
	slots := map[string]func(t *testing.T) history.Slot{
		"encrypted memory": newEncryptedMemorySlot,
		"blob": func(t *testing.T) history.Slot {
			return azure.NewBlobSlot(azure.NewMockBlobStorageClient(zaptest.NewLogger(t)))
		},
	}

	for name, newSlot := range slots {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			gen := &stubGenerator{answeringModel: "gemini-1.0-pro"}
			server := newTestEnv(t, gen, newSlot(t), nil, service.ExhaustionFail)
			c := client.New(server.URL, "alice", zaptest.NewLogger(t), client.WithHTTPClient(server.Client()))

			// Step 1: run four checkups; the history keeps the newest three
			for _, form := range checkups {
				reply, err := c.Check(ctx, form)
				require.NoError(t, err)
				assert.Equal(t, cannedReply, reply)
			}
			assert.EqualValues(t, 4*3, gen.calls.Load(), "two models fail before the third answers")

			reports, err := c.History(ctx)
			require.NoError(t, err)
			require.Len(t, reports, history.DefaultCapacity)
			assert.Equal(t, "Runny nose", reports[0].Symptoms)
			assert.Equal(t, "Chest pain when climbing stairs", reports[1].Symptoms)
			assert.Equal(t, "Mild tiredness", reports[2].Symptoms)
			for _, r := range reports {
				assert.Equal(t, cannedReply, r.Result)
			}

			// Step 2: other clients see nothing
			other := client.New(server.URL, "bob", zaptest.NewLogger(t), client.WithHTTPClient(server.Client()))
			bobReports, err := other.History(ctx)
			require.NoError(t, err)
			assert.Empty(t, bobReports)

			// Step 3: promote the oldest report
			promoted, err := c.Promote(ctx, reports[2].ID)
			require.NoError(t, err)
			require.Len(t, promoted, 3)
			assert.Equal(t, reports[2].ID, promoted[0].ID)
			assert.Equal(t, reports[0].ID, promoted[1].ID)
			assert.Equal(t, reports[1].ID, promoted[2].ID)

			_, err = c.Promote(ctx, 42)
			var statusErr *client.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

			// Step 4: dashboard reflects the promoted order
			var dashboard service.Dashboard
			resp := getJSON(t, server.URL+"/api/dashboard/alice?range=week", &dashboard)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, service.RangeWeek, dashboard.Range)
			assert.Equal(t, 3, dashboard.Checkups)
			require.NotNil(t, dashboard.AverageTemperature)
			assert.Equal(t, 100, *dashboard.AverageTemperature) // (98.6 + 99.1 + 102) / 3
			require.Len(t, dashboard.Records, 3)
			assert.Equal(t, "Mild tiredness", dashboard.Records[0].Symptoms)
			assert.Equal(t, model.SeverityLow, dashboard.Records[0].Severity)
			assert.Equal(t, model.SeverityHigh, dashboard.Records[2].Severity)
			assert.Equal(t, "Chest pain when climbing stair...", dashboard.Records[2].SymptomsPreview)

			// Step 5: export
			pdfResp, err := http.Get(server.URL + "/api/history/alice/report.pdf")
			require.NoError(t, err)
			defer pdfResp.Body.Close()
			body, err := io.ReadAll(pdfResp.Body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, pdfResp.StatusCode)
			assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
			assert.Contains(t, pdfResp.Header.Get("Content-Disposition"), "health-history.pdf")
			assert.True(t, len(body) > 4 && string(body[:4]) == "%PDF")
		})
	}
}

func TestCheckupFlow_ModelsExhausted(t *testing.T) {
	ctx := context.Background()

	t.Run("fail policy apologises and records nothing", func(t *testing.T) {
		gen := &stubGenerator{answeringModel: "none"}
		server := newTestEnv(t, gen, history.NewMemorySlot(), nil, service.ExhaustionFail)
		c := client.New(server.URL, "alice", zaptest.NewLogger(t))

		reply, err := c.Check(ctx, checkups[0])

		assert.Equal(t, client.Apology, reply)
		assert.ErrorIs(t, err, client.ErrUnavailable)
		var statusErr *client.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, "Failed to generate health analysis with any available model", statusErr.Body.Error)
		assert.EqualValues(t, len(models), gen.calls.Load())

		reports, err := c.History(ctx)
		require.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("placeholder policy still answers", func(t *testing.T) {
		gen := &stubGenerator{answeringModel: "none"}
		server := newTestEnv(t, gen, history.NewMemorySlot(), nil, service.ExhaustionPlaceholder)
		c := client.New(server.URL, "alice", zaptest.NewLogger(t))

		reply, err := c.Check(ctx, checkups[0])

		require.NoError(t, err)
		assert.Equal(t, service.PlaceholderAdvice, reply)
	})

	t.Run("placeholder header is set", func(t *testing.T) {
		gen := &stubGenerator{answeringModel: "none"}
		server := newTestEnv(t, gen, history.NewMemorySlot(), nil, service.ExhaustionPlaceholder)

		resp, err := http.Post(server.URL+"/api/advice", "application/json", strings.NewReader(`{"prompt":"cough"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "placeholder", resp.Header.Get(api.HeaderAdviceFallback))
	})
}

func TestCheckupFlow_NotConfigured(t *testing.T) {
	server := newTestEnv(t, nil, history.NewMemorySlot(), nil, service.ExhaustionFail)

	var health api.HealthResponse
	resp := getJSON(t, server.URL+"/health", &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, health.AIReady)

	c := client.New(server.URL, "alice", zaptest.NewLogger(t))
	reply, err := c.Check(context.Background(), checkups[0])
	assert.Equal(t, client.Apology, reply)
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "API key not configured", statusErr.Body.Error)
}
