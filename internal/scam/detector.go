package scam

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"orato/internal/logging"
	"orato/internal/services"
)

// NoMessage is the client-facing text for an empty request.
const NoMessage = "No message provided"

// ErrNoMessage is returned for empty input.
var ErrNoMessage = errors.New("no message provided")

// ModelError reports that the statistical model could not be loaded or run.
// Its text is the client-facing 500 message.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return "Model error: " + e.Err.Error()
}

func (e *ModelError) Unwrap() []error {
	return []error{services.ErrConfiguration, e.Err}
}

// ArtifactLoader supplies the statistical model.
type ArtifactLoader interface {
	Load() (*Vectorizer, *Model, error)
}

// Verdict is the full classification returned to clients.
type Verdict struct {
	Message     string   `json:"-"`
	ML          string   `json:"ml_prediction"`
	Generative  string   `json:"gemini_prediction"`
	Final       string   `json:"final_prediction"`
	Rule        string   `json:"rule"`
	Patterns    Patterns `json:"patterns"`
	RiskScore   int      `json:"risk_score"`
	ContentType string   `json:"content_type"`
	Tone        Tone     `json:"tone"`
}

// Detector combines the three signals into a Verdict. It holds no mutable
// state of its own and is safe for concurrent use.
type Detector struct {
	artifacts  ArtifactLoader
	generative *Generative
	logger     *slog.Logger
}

// NewDetector wires a detector. generative may be nil, in which case every
// verdict falls back to the statistical label.
func NewDetector(artifacts ArtifactLoader, generative *Generative, logger *slog.Logger) *Detector {
	return &Detector{
		artifacts:  artifacts,
		generative: generative,
		logger:     logging.NewComponentLogger(logger, "scam"),
	}
}

// Predict classifies message.
func (d *Detector) Predict(ctx context.Context, message string) (Verdict, error) {
	if strings.TrimSpace(message) == "" {
		return Verdict{}, services.Wrap(services.ErrValidation, "scam", "predict", "", ErrNoMessage)
	}
	logger := logging.WithContext(ctx, d.logger)

	vec, model, err := d.artifacts.Load()
	if err != nil {
		logging.ErrorWithContext(logger, "scam model unavailable", "model_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "export sms_model.json and tfidf_vectorizer.json into scam.search_paths"),
		)
		return Verdict{}, &ModelError{Err: err}
	}
	ml := model.Predict(vec.Transform(message))

	gen := d.generative.Classify(ctx, message)
	patterns := DetectPatterns(message)
	decision := Arbitrate(ml, gen, patterns)

	logger.Info("message classified",
		logging.Args(append(logging.DecisionAttrs("scam_arbitration", decision.Label, decision.Rule),
			logging.String("ml_prediction", ml),
			logging.String("gemini_prediction", gen),
			logging.Int("risk_score", patterns.Count()),
		)...)...,
	)
	return Verdict{
		Message:     message,
		ML:          ml,
		Generative:  gen,
		Final:       decision.Label,
		Rule:        decision.Rule,
		Patterns:    patterns,
		RiskScore:   patterns.Count(),
		ContentType: ContentType(message),
		Tone:        MessageTone(message),
	}, nil
}
