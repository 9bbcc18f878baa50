package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vcscsvcscs/doctorai/apps/backend/internal/llm"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/prompt"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/model"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured means no credential for the text generation backend is present
	ErrNotConfigured = errors.New("API key not configured")
	// ErrMissingPrompt means the request carried neither a prompt nor usable form data
	ErrMissingPrompt = errors.New("missing prompt in request body")
)

// ExhaustionPolicy decides what a caller sees when every model failed
type ExhaustionPolicy string

const (
	ExhaustionFail        ExhaustionPolicy = "fail"
	ExhaustionPlaceholder ExhaustionPolicy = "placeholder"
)

// PlaceholderAdvice is returned under ExhaustionPlaceholder. It follows the
// same layout as a real reply.
const PlaceholderAdvice = `Diagnosis: Based on the symptoms described, this may be a common viral infection or a similar self-limiting condition.

Common Medicines:
- Paracetamol (acetaminophen) 500 mg every 6 hours as needed, no more than 4 g per day
- Ibuprofen 200-400 mg every 6-8 hours with food, if you have no stomach or kidney problems
- Saline nasal spray or throat lozenges for local relief

Doctor Visit Advice:
See a doctor if symptoms last longer than a week, get worse, or if you develop a high fever, chest pain or difficulty breathing.

Self-care Tips:
- Get plenty of rest
- Drink enough fluids
- Eat light, nutritious meals
- Monitor your temperature twice a day

Important: This is general information, not a medical diagnosis. Please consult a healthcare professional for serious conditions.`

// ExhaustedError is returned when no model produced a reply
type ExhaustedError struct {
	Failures []model.AttemptFailure
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed to generate health analysis with any available model (%d attempts)", len(e.Failures))
}

// AdviceRequest is the advice endpoint input. Prompt wins over Form.
type AdviceRequest struct {
	Prompt string
	Form   *model.FormSubmission
}

// Advice is a generated (or placeholder) reply
type Advice struct {
	Reply       string
	Model       string
	Placeholder bool
}

// AdviceService turns prompts into advice through the model fallback sequence
type AdviceService struct {
	generator llm.Generator
	sequencer *llm.Sequencer
	policy    ExhaustionPolicy
	logger    *zap.Logger
}

// NewAdviceService creates a new AdviceService. generator may be nil when no
// credential is configured; requests then fail with ErrNotConfigured.
func NewAdviceService(generator llm.Generator, sequencer *llm.Sequencer, policy ExhaustionPolicy, logger *zap.Logger) *AdviceService {
	if policy == "" {
		policy = ExhaustionFail
	}
	return &AdviceService{
		generator: generator,
		sequencer: sequencer,
		policy:    policy,
		logger:    logger,
	}
}

// Configured reports whether a generator is available
func (s *AdviceService) Configured() bool {
	return s.generator != nil
}

// Policy returns the configured exhaustion policy
func (s *AdviceService) Policy() ExhaustionPolicy {
	return s.policy
}

// ResolvePrompt returns the prompt text for a request
func ResolvePrompt(req AdviceRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) != "" {
		return req.Prompt, nil
	}
	if req.Form != nil {
		if err := prompt.Validate(*req.Form); err != nil {
			return "", ErrMissingPrompt
		}
		return prompt.Detailed(*req.Form), nil
	}
	return "", ErrMissingPrompt
}

// GetAdvice runs the fallback sequence for a request
func (s *AdviceService) GetAdvice(ctx context.Context, req AdviceRequest) (*Advice, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	text, err := ResolvePrompt(req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("generating health advice",
		zap.Int("prompt_length", len(text)),
		zap.Bool("from_form", strings.TrimSpace(req.Prompt) == ""),
	)

	switch outcome := s.sequencer.Run(ctx, s.generator, text).(type) {
	case *llm.Success:
		s.logger.Info("successfully generated response", zap.String("model", outcome.Model))
		return &Advice{Reply: outcome.Text, Model: outcome.Model}, nil

	case *llm.Exhausted:
		s.logger.Error("all models failed",
			zap.Int("attempts", len(outcome.Failures)),
			zap.Any("failures", outcome.Failures),
			zap.String("policy", string(s.policy)),
		)
		if s.policy == ExhaustionPlaceholder {
			return &Advice{Reply: PlaceholderAdvice, Placeholder: true}, nil
		}
		return nil, &ExhaustedError{Failures: outcome.Failures}

	default:
		return nil, fmt.Errorf("unexpected outcome %T", outcome)
	}
}
