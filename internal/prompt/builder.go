// Package prompt turns a symptom form into the text sent to the model.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
)

// ErrMissingSymptoms is returned when the only required field is blank
var ErrMissingSymptoms = errors.New("symptoms are required")

// Validate checks the form the way the form page does: symptoms must be present
func Validate(form model.FormSubmission) error {
	if strings.TrimSpace(form.Symptoms) == "" {
		return ErrMissingSymptoms
	}
	return nil
}

// Detailed builds the analysis prompt used when the server receives raw form data.
// Temperature is rendered in Celsius.
func Detailed(form model.FormSubmission) string {
	return fmt.Sprintf(`You are a medical AI assistant. Based on the following patient information, provide a detailed health analysis:

Patient Information:
- Age: %s years old
- Gender: %s
- Temperature: %s°C
- Duration of symptoms: %s
- Symptoms: %s
- Allergies: %s
- Current medications: %s

Please provide the following information in a clear, structured format:
1. Diagnosis: A brief explanation of what the patient might be experiencing
2. Common Medicines: A list of 2-3 over-the-counter medicines that might help (with dosages)
3. Doctor Visit Advice: When the patient should consult a physician
4. Self-care Tips: 3-4 recommendations for at-home care

Format your response as follows:
Diagnosis: [Your diagnosis here]

Common Medicines:
- [Medicine 1 with dosage]
- [Medicine 2 with dosage]
- [Medicine 3 with dosage]

Doctor Visit Advice:
[When to see a doctor]

Self-care Tips:
- [Tip 1]
- [Tip 2]
- [Tip 3]
- [Tip 4]

Important: Do not provide any medical advice that could be harmful. Always recommend consulting with a healthcare professional for serious conditions.`,
		form.Age,
		form.Gender,
		orDefault(form.Temperature, "Not provided"),
		orDefault(form.Duration, "Not specified"),
		form.Symptoms,
		orDefault(form.Allergies, "None reported"),
		orDefault(form.Medications, "None reported"),
	)
}

// Brief builds the one-line prompt the form page sends. Temperature is in Fahrenheit.
func Brief(form model.FormSubmission) string {
	return fmt.Sprintf(
		"The user is %s years old, gender %s, has %s with temperature %s°F. Duration: %s. Allergies: %s. Current medications: %s. Suggest possible causes and safe OTC medicine.",
		form.Age,
		form.Gender,
		form.Symptoms,
		form.Temperature,
		form.Duration,
		orDefault(form.Allergies, "None"),
		orDefault(form.Medications, "None"),
	)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
