package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// setupTestDB creates a PostgreSQL testcontainer and returns the connection pool
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("doctorai_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	for _, migration := range Migrations {
		_, err := pool.Exec(ctx, migration)
		require.NoError(t, err)
	}

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return pool, cleanup
}

func TestHistoryRepository_LoadSave(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewHistoryRepository(pool, zap.NewNop())

	_, err := repo.Load(ctx, "healthReports/nobody")
	assert.ErrorIs(t, err, history.ErrSlotEmpty)

	require.NoError(t, repo.Save(ctx, "healthReports/alice", []byte(`[{"id":1}]`)))
	require.NoError(t, repo.Save(ctx, "healthReports/alice", []byte(`[{"id":2}]`)))

	data, err := repo.Load(ctx, "healthReports/alice")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2}]`, string(data))

	var rows int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM history_slots`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

// The store keeps at most three reports even when backed by PostgreSQL
func TestProperty_PostgresHistoryIsBounded(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := history.NewStore(NewHistoryRepository(pool, zap.NewNop()), history.DefaultCapacity, zap.NewNop())

	properties := gopter.NewProperties(nil)

	properties.Property("history length never exceeds capacity", prop.ForAll(
		func(n int) bool {
			ctx := context.Background()
			clientID := uuid.New().String()

			for i := 1; i <= n; i++ {
				report := model.HealthReport{ID: int64(i), Symptoms: fmt.Sprintf("symptom %d", i)}
				if _, err := store.Append(ctx, clientID, report); err != nil {
					t.Logf("Failed to append report: %v", err)
					return false
				}
			}

			reports, err := store.ReadAll(ctx, clientID)
			if err != nil {
				t.Logf("Failed to read history: %v", err)
				return false
			}

			if n == 0 {
				return len(reports) == 0
			}
			return len(reports) <= history.DefaultCapacity && reports[0].ID == int64(n)
		},
		gen.IntRange(0, 6),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 20
	properties.TestingRun(t, params)
}
