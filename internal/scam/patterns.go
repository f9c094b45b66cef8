package scam

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	shortMessageRunes = 10
	longMessageRunes  = 300
)

var (
	urlPattern       = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+|\b[a-z0-9][a-z0-9-]*\.(?:com|net|org|info|biz|xyz|top|club|online|site|co|io|ly|me|in)\b(?:/\S*)?`)
	shortenerPattern = regexp.MustCompile(`(?i)\b(?:bit\.ly|tinyurl\.com|goo\.gl|t\.co|ow\.ly|is\.gd|buff\.ly|rebrand\.ly|cutt\.ly|shorturl\.at|tiny\.cc|rb\.gy|t\.ly)/\S+`)
	phonePattern     = regexp.MustCompile(`(?:\+|\b)\d[\d\s().-]{7,14}\d\b`)
	urgentPattern    = regexp.MustCompile(`(?i)\b(?:urgent(?:ly)?|immediately|act now|right away|asap|expires?|expiring|limited time|last chance|final (?:notice|warning)|verify now|suspended|blocked|within 24 ?(?:hours|hrs)|hurry|don'?t miss)\b`)
	financialPattern = regexp.MustCompile(`(?i)\b(?:bank|account|credit|debit|loan|payment|prize|winner|cash|reward|lottery|refund|invoice|bitcoin|crypto|upi|paypal|otp|kyc|claim)\b|\bwon(?:\s|[.!,]|$)|\b(?-i:PIN)\b|[$£€₹]\s?\d`)
	isoDatePattern   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

// Patterns are the regex-derived suspicion flags of a message.
type Patterns struct {
	HasURL             bool `json:"has_url"`
	HasShortenedURL    bool `json:"has_shortened_url"`
	HasPhone           bool `json:"has_phone"`
	HasUrgentLanguage  bool `json:"has_urgent_language"`
	HasFinancialTerms  bool `json:"has_financial_terms"`
	HasSuspiciousChars bool `json:"has_suspicious_chars"`
	IsVeryShort        bool `json:"is_very_short"`
	IsVeryLong         bool `json:"is_very_long"`
}

// DetectPatterns evaluates every flag against message.
func DetectPatterns(message string) Patterns {
	runes := utf8.RuneCountInString(message)
	shortened := shortenerPattern.MatchString(message)
	return Patterns{
		HasURL:             shortened || urlPattern.MatchString(message),
		HasShortenedURL:    shortened,
		HasPhone:           hasPhone(message),
		HasUrgentLanguage:  urgentPattern.MatchString(message),
		HasFinancialTerms:  financialPattern.MatchString(message),
		HasSuspiciousChars: hasSuspiciousChars(message),
		IsVeryShort:        runes < shortMessageRunes,
		IsVeryLong:         runes > longMessageRunes,
	}
}

// Count is the number of flags set. It doubles as the risk score (out of 8).
func (p Patterns) Count() int {
	n := 0
	for _, set := range []bool{
		p.HasURL, p.HasShortenedURL, p.HasPhone, p.HasUrgentLanguage,
		p.HasFinancialTerms, p.HasSuspiciousChars, p.IsVeryShort, p.IsVeryLong,
	} {
		if set {
			n++
		}
	}
	return n
}

// hasPhone ignores ISO dates, which otherwise read as digit runs.
func hasPhone(message string) bool {
	return phonePattern.MatchString(isoDatePattern.ReplaceAllString(message, " "))
}

// hasSuspiciousChars flags compatibility look-alikes (full-width letters,
// ligatures, styled math alphabets), invisible format runes, private-use
// runes, and decode garbage.
func hasSuspiciousChars(message string) bool {
	if !norm.NFKC.IsNormalString(message) {
		return true
	}
	for _, r := range message {
		switch {
		case r == utf8.RuneError:
			return true
		case unicode.Is(unicode.Cf, r), unicode.Is(unicode.Co, r):
			return true
		}
	}
	return false
}
