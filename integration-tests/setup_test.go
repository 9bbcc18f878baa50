package integration_tests

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/audit"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/handler"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/llm"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/middleware"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/pdf"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/repository"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"go.uber.org/zap"
)

var models = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-1.0-pro", "gemini-pro"}

const cannedReply = `Diagnosis: Likely a common cold.

Common Medicines:
- Paracetamol 500 mg

Doctor Visit Advice:
See a doctor if the fever lasts more than 3 days.

Self-care Tips:
- Rest
- Drink fluids`

// stubGenerator answers from one model and fails on the others
type stubGenerator struct {
	answeringModel string
	calls          atomic.Int32
}

func (g *stubGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	g.calls.Add(1)
	if model != g.answeringModel {
		return "", errors.New("404 models/" + model + " is not found")
	}
	return cannedReply, nil
}

// newTestEnv builds the router the way main does, on top of the given slot
func newTestEnv(t *testing.T, gen llm.Generator, slot history.Slot, pool *pgxpool.Pool, policy service.ExhaustionPolicy) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	store := history.NewStore(slot, history.DefaultCapacity, logger)
	auditLogger := audit.NewLogger(pool, logger)

	adviceService := service.NewAdviceService(gen, llm.NewSequencer(models, 0, 0, logger), policy, logger)
	historyService := service.NewHistoryService(store, auditLogger, logger)
	dashboardService := service.NewDashboardService(store, logger)
	reportService := service.NewReportService(store, pdf.NewPDFGenerator(logger), auditLogger, logger)

	swagger, err := api.GetSwagger()
	require.NoError(t, err)
	validator, err := middleware.OpenAPIValidationMiddleware(swagger, logger)
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(validator)

	api.RegisterHandlers(router, &handler.API{
		AdviceHandler:    handler.NewAdviceHandler(adviceService, logger),
		HistoryHandler:   handler.NewHistoryHandler(historyService, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		ReportHandler:    handler.NewReportHandler(reportService, logger),
		HealthHandler:    handler.NewHealthHandler(adviceService, nil, "gemini", "memory", logger),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// setupTestDatabase connects to TEST_DATABASE_URL and applies the schema
func setupTestDatabase(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "Should be able to connect to database")
	require.NoError(t, db.Ping(ctx), "Should be able to ping database")
	t.Cleanup(db.Close)

	for _, stmt := range repository.Migrations {
		_, err := db.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	return db
}
