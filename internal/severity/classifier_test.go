package severity

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		symptoms string
		want     model.Severity
	}{
		{name: "chest pain is high", symptoms: "sharp chest pain since morning", want: model.SeverityHigh},
		{name: "case insensitive", symptoms: "Difficulty Breathing at night", want: model.SeverityHigh},
		{name: "fever alone is medium", symptoms: "mild fever and tired", want: model.SeverityMedium},
		{name: "sore throat is medium", symptoms: "SORE THROAT", want: model.SeverityMedium},
		{name: "nothing matches", symptoms: "itchy eyes", want: model.SeverityLow},
		{name: "empty text", symptoms: "", want: model.SeverityLow},
		{name: "high wins over medium", symptoms: "cough and chest pain", want: model.SeverityHigh},
		{name: "high fever beats fever", symptoms: "high fever", want: model.SeverityHigh},
		{name: "negation is not handled", symptoms: "no fever", want: model.SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.symptoms))
		})
	}
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "bg-red-100 text-red-800", Badge(model.SeverityHigh))
	assert.Equal(t, "bg-yellow-100 text-yellow-800", Badge(model.SeverityMedium))
	assert.Equal(t, "bg-green-100 text-green-800", Badge(model.SeverityLow))
}

// Any text containing a high phrase classifies as High, whatever surrounds it
func TestProperty_HighPhraseAlwaysWins(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("high phrase dominates", prop.ForAll(
		func(prefix, suffix, high, medium string) bool {
			text := prefix + " " + strings.ToUpper(high) + " " + medium + " " + suffix
			return Classify(text) == model.SeverityHigh
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.OneConstOf("chest pain", "difficulty breathing", "high fever", "severe headache"),
		gen.OneConstOf("fever", "cough", "body pain", "sore throat"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
