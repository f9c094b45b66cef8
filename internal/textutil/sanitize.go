package textutil

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in an uploaded
// filename. Slashes, backslashes, colons, and asterisks become dashes; other
// unsafe characters are removed.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

// UploadName builds the on-disk name for an upload: a server-chosen id plus
// the client's extension, reduced to a safe token. Recordings without an
// extension get ".bin" so ffmpeg probes the container itself.
func UploadName(id, clientName string) string {
	ext := strings.TrimPrefix(filepath.Ext(SanitizeFileName(clientName)), ".")
	if ext == "" {
		return id + ".bin"
	}
	return id + "." + SanitizeToken(ext)
}

// Snippet collapses whitespace and truncates text for log attributes.
func Snippet(text string, limit int) string {
	clean := strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(clean) <= limit {
		return clean
	}
	runes := []rune(clean)
	return string(runes[:limit]) + "..."
}
