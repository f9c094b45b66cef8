package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"orato/internal/config"
)

func writeStub(t *testing.T, dir, name, banner string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := []byte("#!/bin/sh\necho \"" + banner + "\"\n")
	if err := os.WriteFile(path, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present", "present version 1")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" || results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected missing status %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank status %#v", results[2])
	}
}

func TestRequirementsFromConfig(t *testing.T) {
	cfg := config.Default()
	reqs := Requirements(&cfg)
	if len(reqs) != 2 || reqs[0].Command != "ffmpeg" || reqs[1].Command != "ffprobe" || reqs[0].Optional {
		t.Fatalf("unexpected requirements %+v", reqs)
	}
}

func TestParseVersionBanner(t *testing.T) {
	cases := map[string]string{
		"ffmpeg version 7.1 Copyright (c) 2000-2024":        "7.1",
		"ffprobe version n6.1.1-static https://johnvansickle": "n6.1.1-static",
	}
	for banner, want := range cases {
		got, err := ParseVersionBanner(banner + "\nbuilt with gcc")
		if err != nil || got != want {
			t.Errorf("ParseVersionBanner(%q) = %q, %v; want %q", banner, got, err, want)
		}
	}
	if _, err := ParseVersionBanner("garbage"); err == nil {
		t.Fatal("expected error for unrecognized banner")
	}
}

func TestCheckMediaTools(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := writeStub(t, dir, "ffmpeg", "ffmpeg version 7.1-stub Copyright")
	results := CheckMediaTools(context.Background(), []Requirement{
		{Name: "FFmpeg", Command: ffmpeg},
		{Name: "FFprobe", Command: filepath.Join(dir, "missing-ffprobe"), Optional: true},
	})
	if results[0].Version != "7.1-stub" {
		t.Fatalf("expected version, got %#v", results[0])
	}
	if results[1].Available || !results[1].Optional {
		t.Fatalf("unexpected ffprobe status %#v", results[1])
	}
}
