package model

// FormSubmission is the symptom form as the user filled it in.
// Every field is kept as text; only Symptoms is ever validated.
type FormSubmission struct {
	Age         string `json:"age"`
	Gender      string `json:"gender"`      // male, female, other
	Temperature string `json:"temperature"` // decimal, unit depends on the prompt template
	Duration    string `json:"duration"`    // 1-2 days, 3-5 days, 1 week, more than 1 week
	Symptoms    string `json:"symptoms"`
	Allergies   string `json:"allergies"`
	Medications string `json:"medications"`
}

// HealthReport is one entry of a client's history
type HealthReport struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Age         string `json:"age"`
	Gender      string `json:"gender"`
	Temperature string `json:"temperature"`
	Duration    string `json:"duration"`
	Symptoms    string `json:"symptoms"`
	Allergies   string `json:"allergies"`
	Medications string `json:"medications"`
	Result      string `json:"result"`
}

// NewHealthReport copies the form fields into a report
func NewHealthReport(id int64, date string, form FormSubmission, result string) HealthReport {
	return HealthReport{
		ID:          id,
		Date:        date,
		Age:         form.Age,
		Gender:      form.Gender,
		Temperature: form.Temperature,
		Duration:    form.Duration,
		Symptoms:    form.Symptoms,
		Allergies:   form.Allergies,
		Medications: form.Medications,
		Result:      result,
	}
}

// Form returns the submission a report was created from
func (r HealthReport) Form() FormSubmission {
	return FormSubmission{
		Age:         r.Age,
		Gender:      r.Gender,
		Temperature: r.Temperature,
		Duration:    r.Duration,
		Symptoms:    r.Symptoms,
		Allergies:   r.Allergies,
		Medications: r.Medications,
	}
}

// Severity is the ordinal symptom level shown on the dashboard
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// StructuredAdvice is an advice reply split into the sections the prompt asks for
type StructuredAdvice struct {
	Diagnosis   string   `json:"diagnosis"`
	Medicines   []string `json:"medicines"`
	VisitAdvice string   `json:"visitAdvice"`
	SelfCare    []string `json:"selfCare"`
}

// IsEmpty reports whether no section could be recognised
func (a StructuredAdvice) IsEmpty() bool {
	return a.Diagnosis == "" && a.VisitAdvice == "" && len(a.Medicines) == 0 && len(a.SelfCare) == 0
}

// AttemptFailure records why one model of the fallback sequence failed
type AttemptFailure struct {
	Model    string `json:"model"`
	Reason   string `json:"reason"`
	NotFound bool   `json:"not_found"`
}

// SymptomTrend is one bar of the dashboard's symptom chart
type SymptomTrend struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}
