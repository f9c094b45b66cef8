package presentation

import (
	"strconv"
	"strings"
)

// ParseScorePrefix reads the integer before the first "/" of strings like
// "72/100". ok is false for anything unparsable, including "N/A".
func ParseScorePrefix(raw string) (int, bool) {
	prefix, _, _ := strings.Cut(raw, "/")
	value, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseDigits concatenates every ASCII digit in raw ("128 BPM" -> 128).
// ok is false when raw holds no digits.
func ParseDigits(raw string) (int, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	value, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return value, true
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
