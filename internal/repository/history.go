package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"go.uber.org/zap"
)

// HistoryRepository stores history slots as rows of history_slots
type HistoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *pgxpool.Pool, logger *zap.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Load returns the payload of a slot or history.ErrSlotEmpty
func (r *HistoryRepository) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM history_slots WHERE client_key = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, history.ErrSlotEmpty
		}
		r.logger.Error("failed to load history slot", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("failed to load history slot: %w", err)
	}

	return payload, nil
}

// Save upserts the slot payload
func (r *HistoryRepository) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO history_slots (client_key, payload, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (client_key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, key, data); err != nil {
		r.logger.Error("failed to save history slot", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to save history slot: %w", err)
	}

	return nil
}
