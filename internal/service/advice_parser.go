package service

import (
	"regexp"
	"strings"

	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
)

type adviceSection int

const (
	sectionNone adviceSection = iota
	sectionDiagnosis
	sectionMedicines
	sectionVisitAdvice
	sectionSelfCare
)

// header aliases; of two overlapping aliases the longer comes first
var adviceHeaders = []struct {
	alias   string
	section adviceSection
}{
	{"doctor visit advice", sectionVisitAdvice},
	{"common medicines", sectionMedicines},
	{"self-care tips", sectionSelfCare},
	{"self care tips", sectionSelfCare},
	{"visit advice", sectionVisitAdvice},
	{"diagnosis", sectionDiagnosis},
	{"medicines", sectionMedicines},
	{"self-care", sectionSelfCare},
	// closing notes end the last section
	{"important", sectionNone},
	{"disclaimer", sectionNone},
	{"note", sectionNone},
}

var (
	numberedPrefix = regexp.MustCompile(`^\d+[.)]\s+`)
	bulletPrefix   = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)
)

// ParseAdvice splits a generated reply into the sections the detailed prompt
// asks for. Text before the first recognised header is ignored and sections
// that never appear stay empty.
func ParseAdvice(text string) model.StructuredAdvice {
	var (
		advice    model.StructuredAdvice
		current   = sectionNone
		diagnosis []string
		visit     []string
	)

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if section, inline, ok := matchHeader(line); ok {
			current = section
			line = inline
			if line == "" {
				continue
			}
		}

		switch current {
		case sectionDiagnosis:
			diagnosis = append(diagnosis, cleanItem(line))
		case sectionVisitAdvice:
			visit = append(visit, cleanItem(line))
		case sectionMedicines:
			advice.Medicines = append(advice.Medicines, cleanItem(line))
		case sectionSelfCare:
			advice.SelfCare = append(advice.SelfCare, cleanItem(line))
		}
	}

	advice.Diagnosis = strings.Join(diagnosis, " ")
	advice.VisitAdvice = strings.Join(visit, " ")
	return advice
}

// matchHeader recognises "Diagnosis:", "**Diagnosis:**", "## 1. Diagnosis" and
// similar, returning any content that follows the colon on the same line
func matchHeader(line string) (adviceSection, string, bool) {
	cleaned := strings.TrimLeft(line, "#* \t")
	cleaned = numberedPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimLeft(cleaned, "* ")
	lower := strings.ToLower(cleaned)

	for _, h := range adviceHeaders {
		if !strings.HasPrefix(lower, h.alias) {
			continue
		}
		rest := strings.TrimLeft(cleaned[len(h.alias):], "* ")
		switch {
		case rest == "":
			return h.section, "", true
		case strings.HasPrefix(rest, ":"):
			return h.section, strings.TrimSpace(strings.Trim(rest[1:], "* ")), true
		}
	}
	return sectionNone, "", false
}

func cleanItem(line string) string {
	line = bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")
	return strings.TrimSpace(line)
}
