package main

import (
	"fmt"
	"strings"
	"testing"

	"orato/internal/api"
	"orato/internal/presentation"
	"orato/internal/scam"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Vision sidecar", statusError, "connection refused", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Vision sidecar:", "[ERROR] connection refused")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := renderStatusLine("History", statusInfo, "", false); !strings.HasSuffix(got, "[INFO]") {
		t.Fatalf("expected bare tag, got %q", got)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Readiness", statusOK, "all checks passed", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	lines := dependencyLines([]api.DependencyStatus{
		{Name: "FFmpeg", Command: "ffmpeg", Available: true, Version: "7.1"},
		{Name: "FFprobe", Command: "ffprobe", Optional: true, Detail: `binary "ffprobe" not found`},
	}, false)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[WARN] 1 optional missing") {
		t.Fatalf("unexpected summary %q", lines[0])
	}
	if !strings.Contains(lines[1], "[OK] Ready (ffmpeg 7.1)") {
		t.Fatalf("unexpected ffmpeg line %q", lines[1])
	}
	if !strings.Contains(lines[2], "FFprobe (optional):") || !strings.Contains(lines[2], "[WARN] binary") {
		t.Fatalf("unexpected ffprobe line %q", lines[2])
	}

	lines = dependencyLines([]api.DependencyStatus{{Name: "FFmpeg", Command: "ffmpeg"}}, false)
	if !strings.Contains(lines[0], "[ERROR] 1 required missing") || !strings.Contains(lines[1], "[ERROR] not available") {
		t.Fatalf("unexpected missing lines %q", lines)
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"Name", "Count"}, [][]string{{"agreement"}, {"pattern_count", "3", "extra"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"Name", "agreement", "pattern_count", "3"} {
		requireContains(t, out, want)
	}
	if strings.Contains(out, "NAME") {
		t.Fatalf("expected header case to be preserved:\n%s", out)
	}
	if strings.Contains(out, "extra") {
		t.Fatalf("expected overflow cell to be dropped:\n%s", out)
	}
	if renderTable(nil, [][]string{{"x"}}, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestFlaggedPatterns(t *testing.T) {
	if got := flaggedPatterns(scam.Patterns{}); len(got) != 1 || got[0] != "none" {
		t.Fatalf("expected none, got %v", got)
	}
	got := flaggedPatterns(scam.Patterns{HasURL: true, HasShortenedURL: true, IsVeryShort: true})
	if strings.Join(got, ",") != "url,shortened url,very short" {
		t.Fatalf("unexpected flags %v", got)
	}
}

func TestRenderPresentation(t *testing.T) {
	out := renderPresentation(presentation.Result{
		OverallScore: 72,
		BodyScore:    80,
		SpeechScore:  64,
		Emotion:      "happy",
		BodyLanguage: presentation.BodyLanguage{
			Strengths: []string{"Steady posture"},
			Problems:  []string{},
		},
	})
	requireContains(t, out, "Overall score")
	requireContains(t, out, "72")
	requireContains(t, out, "Strengths:\n  - Steady posture")
	if strings.Contains(out, "Problems:") {
		t.Fatalf("expected empty sections to be skipped:\n%s", out)
	}
}
