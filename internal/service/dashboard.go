package service

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/severity"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// DashboardRange is the time range selector of the dashboard
type DashboardRange string

const (
	RangeWeek  DashboardRange = "week"
	RangeMonth DashboardRange = "month"
	RangeYear  DashboardRange = "year"
)

// ParseRange maps the query value to a range, defaulting to month
func ParseRange(value string) DashboardRange {
	switch r := DashboardRange(strings.ToLower(strings.TrimSpace(value))); r {
	case RangeWeek, RangeMonth, RangeYear:
		return r
	default:
		return RangeMonth
	}
}

const (
	mockWellnessScore = 84
	mockImprovement   = "+12%"
	previewLength     = 30
)

// mockSymptomTrends are fixed values, not derived from history
var mockSymptomTrends = []model.SymptomTrend{
	{Name: "Headaches", Value: 75, Color: "bg-blue-500"},
	{Name: "Fatigue", Value: 60, Color: "bg-green-500"},
	{Name: "Cough", Value: 45, Color: "bg-yellow-500"},
	{Name: "Fever", Value: 30, Color: "bg-red-500"},
	{Name: "Allergies", Value: 80, Color: "bg-purple-500"},
}

// DashboardRecord is one history entry as the dashboard lists it
type DashboardRecord struct {
	ID              int64          `json:"id"`
	Date            string         `json:"date"`
	Symptoms        string         `json:"symptoms"`
	SymptomsPreview string         `json:"symptomsPreview"`
	Temperature     string         `json:"temperature"`
	Diagnosis       string         `json:"diagnosis"`
	Severity        model.Severity `json:"severity"`
	Color           string         `json:"color"`
}

// Dashboard is the dashboard payload. Fields listed in Mocked are fixed values.
type Dashboard struct {
	Range              DashboardRange       `json:"range"`
	Checkups           int                  `json:"checkups"`
	WellnessScore      int                  `json:"wellnessScore"`
	AverageTemperature *int                 `json:"averageTemperature"`
	Improvement        string               `json:"improvement"`
	SymptomTrends      []model.SymptomTrend `json:"symptomTrends"`
	Records            []DashboardRecord    `json:"records"`
	Mocked             []string             `json:"mocked"`
}

// HistoryReaderInterface is the read side of the history store
type HistoryReaderInterface interface {
	ReadAll(ctx context.Context, clientID string) ([]model.HealthReport, error)
}

// DashboardService builds the dashboard from a client's history
type DashboardService struct {
	history HistoryReaderInterface
	logger  *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(history HistoryReaderInterface, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		history: history,
		logger:  logger,
	}
}

// GetDashboard returns the dashboard for a client. The range only echoes the
// selector; history is already bounded to the most recent reports.
func (s *DashboardService) GetDashboard(ctx context.Context, clientID, rangeParam string) (*Dashboard, error) {
	selected := ParseRange(rangeParam)

	s.logger.Info("getting dashboard",
		zap.String("client_id", clientID),
		zap.String("range", string(selected)),
	)

	reports, err := s.history.ReadAll(ctx, clientID)
	if err != nil {
		s.logger.Error("failed to read history for dashboard",
			zap.Error(err),
			zap.String("client_id", clientID),
		)
		return nil, err
	}

	return &Dashboard{
		Range:              selected,
		Checkups:           len(reports),
		WellnessScore:      mockWellnessScore,
		AverageTemperature: AverageTemperature(reports),
		Improvement:        mockImprovement,
		SymptomTrends:      append([]model.SymptomTrend(nil), mockSymptomTrends...),
		Records:            lo.Map(reports, func(r model.HealthReport, _ int) DashboardRecord { return toDashboardRecord(r) }),
		Mocked:             []string{"wellnessScore", "improvement", "symptomTrends"},
	}, nil
}

// leadingNumber matches the numeric prefix a lenient float parser would accept
var leadingNumber = regexp.MustCompile(`^\s*[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// parseLeadingFloat reads the numeric prefix of value; anything unparseable is 0
func parseLeadingFloat(value string) float64 {
	match := leadingNumber.FindString(value)
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(match), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// AverageTemperature is the rounded mean temperature of the history, counting
// unparseable values as zero. It is nil for an empty history.
func AverageTemperature(reports []model.HealthReport) *int {
	if len(reports) == 0 {
		return nil
	}
	sum := lo.SumBy(reports, func(r model.HealthReport) float64 { return parseLeadingFloat(r.Temperature) })
	avg := int(math.Floor(sum/float64(len(reports)) + 0.5))
	return &avg
}

// SymptomsPreview cuts symptoms to 30 characters followed by "..."
func SymptomsPreview(symptoms string) string {
	if utf8.RuneCountInString(symptoms) <= previewLength {
		return symptoms
	}
	return string([]rune(symptoms)[:previewLength]) + "..."
}

func toDashboardRecord(r model.HealthReport) DashboardRecord {
	level := severity.Classify(r.Symptoms)
	return DashboardRecord{
		ID:              r.ID,
		Date:            r.Date,
		Symptoms:        r.Symptoms,
		SymptomsPreview: SymptomsPreview(r.Symptoms),
		Temperature:     r.Temperature,
		Diagnosis:       diagnosisOf(r.Result),
		Severity:        level,
		Color:           severity.Badge(level),
	}
}

// diagnosisOf prefers the parsed diagnosis section, then the first line of the reply
func diagnosisOf(result string) string {
	if d := ParseAdvice(result).Diagnosis; d != "" {
		return d
	}
	for _, line := range strings.Split(result, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return SymptomsPreview(line)
		}
	}
	return ""
}
