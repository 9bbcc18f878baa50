package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate  OperationType = "CREATE"
	OperationPromote OperationType = "PROMOTE"
	OperationExport  OperationType = "EXPORT"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceHealthReport ResourceType = "health_report"
	ResourceHistory      ResourceType = "history"
)

// Entry is one audit record
type Entry struct {
	ClientID       string
	OperationType  OperationType
	ResourceType   ResourceType
	ResourceID     string
	Timestamp      time.Time
	IPAddress      string
	UserAgent      string
	AdditionalData map[string]any
}

// Logger writes audit entries to the structured log and, when a pool is
// given, to the audit_logs table.
type Logger struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLogger creates a new audit logger. db may be nil.
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{
		db:     db,
		logger: logger,
	}
}

// Log records an entry
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	l.logger.Info("Audit log entry",
		zap.String("client_id", entry.ClientID),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
	)

	if l.db == nil {
		return nil
	}

	query := `
		INSERT INTO audit_logs (
			client_id, operation_type, resource_type, resource_id,
			timestamp, ip_address, user_agent, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := l.db.Exec(ctx, query,
		entry.ClientID,
		entry.OperationType,
		entry.ResourceType,
		entry.ResourceID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
		entry.AdditionalData,
	)
	if err != nil {
		l.logger.Error("Failed to write audit log to database",
			zap.Error(err),
			zap.String("client_id", entry.ClientID),
			zap.String("operation", string(entry.OperationType)),
		)
		return err
	}

	return nil
}

// LogCreate records a new health report
func (l *Logger) LogCreate(ctx context.Context, clientID, reportID, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		ClientID:      clientID,
		OperationType: OperationCreate,
		ResourceType:  ResourceHealthReport,
		ResourceID:    reportID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogPromote records a report being moved to the top of the history
func (l *Logger) LogPromote(ctx context.Context, clientID, reportID, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		ClientID:      clientID,
		OperationType: OperationPromote,
		ResourceType:  ResourceHealthReport,
		ResourceID:    reportID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogExport records a PDF export of the whole history
func (l *Logger) LogExport(ctx context.Context, clientID string, count int, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		ClientID:       clientID,
		OperationType:  OperationExport,
		ResourceType:   ResourceHistory,
		ResourceID:     clientID,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		AdditionalData: map[string]any{"reports": count},
	})
}
