package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/pdf"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
)

// MockHistoryStore is a mock implementation of HistoryStoreInterface
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) ReadAll(ctx context.Context, clientID string) ([]model.HealthReport, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HealthReport), args.Error(1)
}

func (m *MockHistoryStore) Append(ctx context.Context, clientID string, report model.HealthReport) ([]model.HealthReport, error) {
	args := m.Called(ctx, clientID, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HealthReport), args.Error(1)
}

func (m *MockHistoryStore) Promote(ctx context.Context, clientID string, id int64) ([]model.HealthReport, error) {
	args := m.Called(ctx, clientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HealthReport), args.Error(1)
}

// MockAuditLogger is a mock implementation of AuditLoggerInterface
type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogCreate(ctx context.Context, clientID, reportID, ipAddress, userAgent string) error {
	return m.Called(ctx, clientID, reportID, ipAddress, userAgent).Error(0)
}

func (m *MockAuditLogger) LogPromote(ctx context.Context, clientID, reportID, ipAddress, userAgent string) error {
	return m.Called(ctx, clientID, reportID, ipAddress, userAgent).Error(0)
}

func (m *MockAuditLogger) LogExport(ctx context.Context, clientID string, count int, ipAddress, userAgent string) error {
	return m.Called(ctx, clientID, count, ipAddress, userAgent).Error(0)
}

// MockPDFGenerator is a mock implementation of PDFGeneratorInterface
type MockPDFGenerator struct {
	mock.Mock
}

func (m *MockPDFGenerator) Generate(data *pdf.ReportData) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
