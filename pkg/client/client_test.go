package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/prompt"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeBackend struct {
	mu          sync.Mutex
	adviceCalls int
	prompts     []string
	recorded    []api.RecordHistoryRequest
	adviceCode  int
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/gemini", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.adviceCalls++

		var req api.AdviceRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt != nil {
			f.prompts = append(f.prompts, *req.Prompt)
		}

		w.Header().Set("Content-Type", "application/json")
		if f.adviceCode != 0 {
			w.WriteHeader(f.adviceCode)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Failed to generate health analysis with any available model"})
			return
		}
		_ = json.NewEncoder(w).Encode(api.AdviceResponse{Reply: "Diagnosis: cold"})
	})
	mux.HandleFunc("POST /api/history/{clientId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var req api.RecordHistoryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.recorded = append(f.recorded, req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]model.HealthReport{model.NewHealthReport(1, "2024-06-10T00:00:00.000Z", req.FormData, req.Result)})
	})
	mux.HandleFunc("GET /api/history/{clientId}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.HealthReport{{ID: 7, Symptoms: r.PathValue("clientId")}})
	})
	mux.HandleFunc("POST /api/history/{clientId}/{reportId}/promote", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("reportId") != "7" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Health report not found"})
			return
		}
		_ = json.NewEncoder(w).Encode([]model.HealthReport{{ID: 7}})
	})
	return mux
}

func newClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return New(server.URL+"/", "alice", zaptest.NewLogger(t), WithHTTPClient(server.Client()))
}

var form = model.FormSubmission{Age: "30", Gender: "female", Temperature: "100.4", Duration: "1-2 days", Symptoms: "cough"}

func TestClient_CheckRecordsOnSuccess(t *testing.T) {
	backend := &fakeBackend{}
	client := newClient(t, backend)

	reply, err := client.Check(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, "Diagnosis: cold", reply)
	require.Len(t, backend.prompts, 1)
	assert.Equal(t, prompt.Brief(form), backend.prompts[0])
	require.Len(t, backend.recorded, 1)
	assert.Equal(t, form, backend.recorded[0].FormData)
	assert.Equal(t, "Diagnosis: cold", backend.recorded[0].Result)
}

func TestClient_CheckApologisesWithoutRecording(t *testing.T) {
	backend := &fakeBackend{adviceCode: http.StatusInternalServerError}
	client := newClient(t, backend)

	reply, err := client.Check(context.Background(), form)

	assert.Equal(t, Apology, reply)
	assert.ErrorIs(t, err, ErrUnavailable)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Empty(t, backend.recorded)
}

func TestClient_CheckTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := New(server.URL, "alice", zap.NewNop())

	reply, err := client.Check(context.Background(), form)

	assert.Equal(t, Apology, reply)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_CheckRejectsBlankSymptoms(t *testing.T) {
	backend := &fakeBackend{}
	client := newClient(t, backend)

	_, err := client.Check(context.Background(), model.FormSubmission{Age: "30", Symptoms: "  "})

	assert.ErrorIs(t, err, prompt.ErrMissingSymptoms)
	assert.Zero(t, backend.adviceCalls)
}

func TestClient_HistoryAndPromote(t *testing.T) {
	client := newClient(t, &fakeBackend{})
	ctx := context.Background()

	reports, err := client.History(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "alice", reports[0].Symptoms)

	reports, err = client.Promote(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), reports[0].ID)

	_, err = client.Promote(ctx, 8)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "Health report not found", statusErr.Body.Error)
}
