package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders a client's health history as a printable report
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportEntry is one history record with the values derived from it
type ReportEntry struct {
	Report   model.HealthReport
	Severity model.Severity
	Advice   model.StructuredAdvice
}

// ReportData contains all data needed for report generation
type ReportData struct {
	ClientID string
	Entries  []ReportEntry
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("client_id", data.ClientID),
		zap.Int("entries", len(data.Entries)),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	g.addTitle(pdf, tr, data)

	if len(data.Entries) == 0 {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, "No health reports recorded yet.", "", 1, "L", false, 0, "")
	}

	for i, entry := range data.Entries {
		g.addEntry(pdf, tr, i+1, entry)
	}

	g.addDisclaimer(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, tr func(string) string, data *ReportData) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "DoctorAI Health History", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Client: %s", data.ClientID)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Reports: %d", len(data.Entries)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addEntry(pdf *gofpdf.Fpdf, tr func(string) string, n int, entry ReportEntry) {
	r := entry.Report
	g.addSectionHeader(pdf, fmt.Sprintf("Report %d: %s", n, displayDate(r.Date)))

	g.field(pdf, tr, "Severity", string(entry.Severity))
	g.field(pdf, tr, "Age", r.Age)
	g.field(pdf, tr, "Gender", r.Gender)
	if r.Temperature != "" {
		g.field(pdf, tr, "Temperature", r.Temperature+"°")
	}
	g.field(pdf, tr, "Duration", r.Duration)
	g.field(pdf, tr, "Symptoms", r.Symptoms)
	g.field(pdf, tr, "Allergies", r.Allergies)
	g.field(pdf, tr, "Medications", r.Medications)
	pdf.Ln(2)

	if entry.Advice.IsEmpty() {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Analysis", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(r.Result), "", "L", false)
		pdf.Ln(5)
		return
	}

	g.paragraph(pdf, tr, "Diagnosis", entry.Advice.Diagnosis)
	g.list(pdf, tr, "Common Medicines", entry.Advice.Medicines)
	g.paragraph(pdf, tr, "Doctor Visit Advice", entry.Advice.VisitAdvice)
	g.list(pdf, tr, "Self-care Tips", entry.Advice.SelfCare)
	pdf.Ln(5)
}

func (g *PDFGenerator) field(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 5, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(value), "", "L", false)
}

func (g *PDFGenerator) paragraph(pdf *gofpdf.Fpdf, tr func(string) string, title, text string) {
	if text == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(text), "", "L", false)
	pdf.Ln(2)
}

func (g *PDFGenerator) list(pdf *gofpdf.Fpdf, tr func(string) string, title string, items []string) {
	if len(items) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.MultiCell(0, 5, tr("  - "+item), "", "L", false)
	}
	pdf.Ln(2)
}

func (g *PDFGenerator) addDisclaimer(pdf *gofpdf.Fpdf) {
	pdf.Ln(5)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "This report was generated by an AI assistant and is not a medical diagnosis. "+
		"Always consult a healthcare professional for serious conditions.", "", "L", false)
}

// displayDate shortens an RFC 3339 timestamp, leaving anything else untouched
func displayDate(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.UTC().Format("2006-01-02 15:04")
}
