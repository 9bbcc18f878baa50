package repository

// Migrations creates the tables used by the PostgreSQL history backend and the
// audit log. Every statement is idempotent.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS history_slots (
		client_key VARCHAR(512) PRIMARY KEY,
		payload BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		client_id VARCHAR(255) NOT NULL,
		operation_type VARCHAR(50) NOT NULL,
		resource_type VARCHAR(50) NOT NULL,
		resource_id VARCHAR(255) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ip_address VARCHAR(64),
		user_agent TEXT,
		additional_data JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_client_time ON audit_logs (client_id, timestamp DESC)`,
}
