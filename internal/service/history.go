package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/vcscsvcscs/doctorai/apps/backend/internal/prompt"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// isoMillis matches the timestamps browsers produce with Date.toISOString
const isoMillis = "2006-01-02T15:04:05.000Z"

// HistoryStoreInterface defines the history operations the services rely on
type HistoryStoreInterface interface {
	ReadAll(ctx context.Context, clientID string) ([]model.HealthReport, error)
	Append(ctx context.Context, clientID string, report model.HealthReport) ([]model.HealthReport, error)
	Promote(ctx context.Context, clientID string, id int64) ([]model.HealthReport, error)
}

// AuditLoggerInterface records history mutations
type AuditLoggerInterface interface {
	LogCreate(ctx context.Context, clientID, reportID, ipAddress, userAgent string) error
	LogPromote(ctx context.Context, clientID, reportID, ipAddress, userAgent string) error
	LogExport(ctx context.Context, clientID string, count int, ipAddress, userAgent string) error
}

// RequestMeta identifies the caller for the audit log
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// HistoryService creates and reorders health reports
type HistoryService struct {
	store  HistoryStoreInterface
	audit  AuditLoggerInterface
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(store HistoryStoreInterface, audit AuditLoggerInterface, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		store:  store,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the client's reports, newest first
func (s *HistoryService) List(ctx context.Context, clientID string) ([]model.HealthReport, error) {
	return s.store.ReadAll(ctx, clientID)
}

// Record stamps a new report and puts it at the front of the history
func (s *HistoryService) Record(ctx context.Context, clientID string, form model.FormSubmission, result string, meta RequestMeta) ([]model.HealthReport, error) {
	if err := prompt.Validate(form); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	report := model.NewHealthReport(s.nextID(now), now.Format(isoMillis), form, result)

	reports, err := s.store.Append(ctx, clientID, report)
	if err != nil {
		return nil, err
	}

	if err := s.audit.LogCreate(ctx, clientID, strconv.FormatInt(report.ID, 10), meta.IPAddress, meta.UserAgent); err != nil {
		s.logger.Warn("failed to audit report creation", zap.Error(err), zap.String("client_id", clientID))
	}

	return reports, nil
}

// Promote moves an existing report to the front
func (s *HistoryService) Promote(ctx context.Context, clientID string, id int64, meta RequestMeta) ([]model.HealthReport, error) {
	reports, err := s.store.Promote(ctx, clientID, id)
	if err != nil {
		return nil, err
	}

	if err := s.audit.LogPromote(ctx, clientID, strconv.FormatInt(id, 10), meta.IPAddress, meta.UserAgent); err != nil {
		s.logger.Warn("failed to audit report promotion", zap.Error(err), zap.String("client_id", clientID))
	}

	return reports, nil
}

// nextID is the creation time in milliseconds, bumped to stay unique within
// this process when two reports land in the same millisecond
func (s *HistoryService) nextID(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
