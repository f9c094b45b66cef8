package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"  talk.mp4 ":          "talk.mp4",
		"../../etc/passwd":     "..-..-etc-passwd",
		`my "final" take?.mov`: "my final take.mov",
		"":                     "",
	}
	for in, want := range tests {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := map[string]string{
		"MP4":     "mp4",
		"we bm!":  "we_bm",
		"***":     "unknown",
		"":        "unknown",
		"x-y_z.1": "x-y_z_1",
	}
	for in, want := range tests {
		if got := SanitizeToken(in); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUploadName(t *testing.T) {
	tests := []struct {
		client string
		want   string
	}{
		{"Practice Run.MP4", "abc.mp4"},
		{"clip", "abc.bin"},
		{"../../evil.sh/../x.webm", "abc.webm"},
		{"", "abc.bin"},
	}
	for _, tt := range tests {
		if got := UploadName("abc", tt.client); got != tt.want {
			t.Errorf("UploadName(%q) = %q, want %q", tt.client, got, tt.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("  hello \n  world ", 0); got != "hello world" {
		t.Fatalf("got %q", got)
	}
	if got := Snippet("abcdefgh", 3); got != "abc..." {
		t.Fatalf("got %q", got)
	}
	if got := Snippet("héllo", 5); got != "héllo" {
		t.Fatalf("got %q", got)
	}
}
