package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/pdf"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/severity"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGeneratorInterface renders report data
type PDFGeneratorInterface interface {
	Generate(data *pdf.ReportData) ([]byte, error)
}

// ReportService exports a client's history as PDF
type ReportService struct {
	history HistoryReaderInterface
	pdfGen  PDFGeneratorInterface
	audit   AuditLoggerInterface
	logger  *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(history HistoryReaderInterface, pdfGen PDFGeneratorInterface, audit AuditLoggerInterface, logger *zap.Logger) *ReportService {
	return &ReportService{
		history: history,
		pdfGen:  pdfGen,
		audit:   audit,
		logger:  logger,
	}
}

// Export renders the current history of a client
func (s *ReportService) Export(ctx context.Context, clientID string, meta RequestMeta) ([]byte, error) {
	s.logger.Info("exporting history report", zap.String("client_id", clientID))

	reports, err := s.history.ReadAll(ctx, clientID)
	if err != nil {
		return nil, err
	}

	data := &pdf.ReportData{
		ClientID: clientID,
		Entries: lo.Map(reports, func(r model.HealthReport, _ int) pdf.ReportEntry {
			return pdf.ReportEntry{
				Report:   r,
				Severity: severity.Classify(r.Symptoms),
				Advice:   ParseAdvice(r.Result),
			}
		}),
	}

	pdfBytes, err := s.pdfGen.Generate(data)
	if err != nil {
		s.logger.Error("failed to generate PDF",
			zap.Error(err),
			zap.String("client_id", clientID),
		)
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	if err := s.audit.LogExport(ctx, clientID, len(reports), meta.IPAddress, meta.UserAgent); err != nil {
		s.logger.Warn("failed to audit history export", zap.Error(err), zap.String("client_id", clientID))
	}

	return pdfBytes, nil
}
