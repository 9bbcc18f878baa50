package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/repository"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/client"
	"go.uber.org/zap/zaptest"
)

func TestPostgresHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db := setupTestDatabase(t, ctx)

	clientID := "integration-postgres"
	_, err := db.Exec(ctx, `DELETE FROM history_slots WHERE client_key = $1`, history.Key(clientID))
	require.NoError(t, err)
	_, err = db.Exec(ctx, `DELETE FROM audit_logs WHERE client_id = $1`, clientID)
	require.NoError(t, err)

	gen := &stubGenerator{answeringModel: models[0]}
	slot := repository.NewHistoryRepository(db, zaptest.NewLogger(t))
	server := newTestEnv(t, gen, slot, db, service.ExhaustionFail)
	c := client.New(server.URL, clientID, zaptest.NewLogger(t))

	_, err = c.Check(ctx, checkups[0])
	require.NoError(t, err)
	_, err = c.Check(ctx, checkups[1])
	require.NoError(t, err)

	reports, err := c.History(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, checkups[1].Symptoms, reports[0].Symptoms)

	_, err = c.Promote(ctx, reports[1].ID)
	require.NoError(t, err)

	// Audit rows are written for both creates and the promote
	var count int
	err = db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE client_id = $1`, clientID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
