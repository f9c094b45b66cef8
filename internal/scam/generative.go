package scam

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"orato/internal/logging"
)

// Labels produced by the classifiers.
const (
	LabelSpam    = "spam"
	LabelHam     = "ham"
	LabelUnknown = "unknown"
	LabelError   = "error"
)

const generativePrompt = `You are a fraud detection system.
Classify this SMS as either 'spam' or 'ham' (ham = safe message).

SMS: "%s"
Answer ONLY 'spam' or 'ham'.`

// Completer is the text-completion surface of the LLM client.
type Completer interface {
	CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Cache stores generative answers keyed by message text.
type Cache interface {
	Get(ctx context.Context, message string) (string, bool, error)
	Set(ctx context.Context, message, label string) error
}

// Generative asks the LLM for a spam/ham label.
type Generative struct {
	llm    Completer
	cache  Cache
	logger *slog.Logger
}

// NewGenerative builds a classifier. cache may be nil.
func NewGenerative(llm Completer, cache Cache, logger *slog.Logger) *Generative {
	return &Generative{llm: llm, cache: cache, logger: logging.NewComponentLogger(logger, "scam")}
}

// Prompt renders the classification prompt for message.
func Prompt(message string) string {
	return fmt.Sprintf(generativePrompt, message)
}

// ParseLabel maps a free-form answer onto spam, ham, or unknown. "spam" wins
// when both words appear.
func ParseLabel(answer string) string {
	text := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case strings.Contains(text, LabelSpam):
		return LabelSpam
	case strings.Contains(text, LabelHam):
		return LabelHam
	default:
		return LabelUnknown
	}
}

// Classify never fails: transport problems yield LabelError.
func (g *Generative) Classify(ctx context.Context, message string) string {
	if g == nil || g.llm == nil {
		return LabelError
	}
	if g.cache != nil {
		label, ok, err := g.cache.Get(ctx, message)
		if err != nil {
			g.logger.Debug("verdict cache read failed", logging.Error(err))
		} else if ok {
			return label
		}
	}

	answer, err := g.llm.CompleteText(ctx, "", Prompt(message))
	if err != nil {
		logging.WarnWithContext(g.logger, "generative classification failed", "llm_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm.api_key and network access"),
			logging.String(logging.FieldImpact, "verdict falls back to the statistical model"),
		)
		return LabelError
	}
	label := ParseLabel(answer)
	if label != LabelUnknown && g.cache != nil {
		if err := g.cache.Set(ctx, message, label); err != nil {
			g.logger.Debug("verdict cache write failed", logging.Error(err))
		}
	}
	return label
}
