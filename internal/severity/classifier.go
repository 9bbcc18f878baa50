// Package severity maps free-text symptoms to a coarse severity level.
package severity

import (
	"strings"

	"github.com/samber/lo"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
)

// Checked in order; the first list with a matching phrase decides the level.
var (
	HighPhrases   = []string{"chest pain", "difficulty breathing", "high fever", "severe headache"}
	MediumPhrases = []string{"fever", "cough", "body pain", "sore throat"}
)

// Classify returns High, Medium or Low by case-insensitive substring match.
// There is no negation handling: "no fever" still matches "fever".
func Classify(symptoms string) model.Severity {
	lower := strings.ToLower(symptoms)
	contains := func(phrase string) bool { return strings.Contains(lower, phrase) }

	switch {
	case lo.SomeBy(HighPhrases, contains):
		return model.SeverityHigh
	case lo.SomeBy(MediumPhrases, contains):
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// Badge returns the CSS classes the dashboard uses for a level
func Badge(level model.Severity) string {
	switch level {
	case model.SeverityHigh:
		return "bg-red-100 text-red-800"
	case model.SeverityMedium:
		return "bg-yellow-100 text-yellow-800"
	default:
		return "bg-green-100 text-green-800"
	}
}
