package scam

import (
	"regexp"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// Content types reported alongside a verdict.
const (
	ContentURL   = "url"
	ContentPhone = "phone"
	ContentText  = "text"
)

var (
	bareURLPattern   = regexp.MustCompile(`(?i)^(?:https?://|www\.)\S+$|^[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)*\.[a-z]{2,}(?:/\S*)?$`)
	barePhonePattern = regexp.MustCompile(`^\+?[\d\s().-]+$`)
)

// ContentType classifies the whole trimmed message as a lone URL, a lone
// phone number, or free text.
func ContentType(message string) string {
	trimmed := strings.TrimSpace(message)
	switch {
	case trimmed == "":
		return ContentText
	case bareURLPattern.MatchString(trimmed):
		return ContentURL
	case barePhonePattern.MatchString(trimmed) && countDigits(trimmed) >= 7:
		return ContentPhone
	default:
		return ContentText
	}
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Tone labels.
const (
	TonePositive = "positive"
	ToneNeutral  = "neutral"
	ToneNegative = "negative"
)

// Tone is the VADER sentiment of a message.
type Tone struct {
	Compound float64 `json:"compound"`
	Label    string  `json:"label"`
}

var vader = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// MessageTone scores message with VADER; compound >= 0.2 is positive and
// <= -0.2 negative.
func MessageTone(message string) Tone {
	score := vader().PolarityScores(message).Compound
	return Tone{Compound: score, Label: toneLabel(score)}
}

func toneLabel(score float64) string {
	switch {
	case score >= 0.20:
		return TonePositive
	case score <= -0.20:
		return ToneNegative
	default:
		return ToneNeutral
	}
}
