// Command migrate creates the PostgreSQL tables of the history backend and
// the audit log.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/repository"
	"go.uber.org/zap"
)

var (
	databaseURL string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Create the DoctorAI PostgreSQL schema",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()

		if databaseURL == "" {
			return fmt.Errorf("database url is required (--database-url or DATABASE_URL)")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		return migrate(ctx, db, logger)
	},
}

func init() {
	rootCmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	rootCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall migration timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// migrate applies every statement in one transaction
func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range repository.Migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		logger.Info("migration applied", zap.Int("step", i+1))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}

	logger.Info("schema is up to date", zap.Int("statements", len(repository.Migrations)))
	return nil
}
