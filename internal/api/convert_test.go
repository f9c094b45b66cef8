package api

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"orato/internal/deps"
	"orato/internal/history"
	"orato/internal/preflight"
	"orato/internal/presentation"
	"orato/internal/scam"
)

func TestFromVerdicts(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("IST", 19800))
	items := FromVerdicts([]history.Verdict{{
		ID:          7,
		CreatedAt:   created,
		Message:     "win a prize",
		ML:          "spam",
		Generative:  "spam",
		Final:       "spam",
		Rule:        "agreement",
		RiskScore:   2,
		ContentType: "text",
		Patterns:    scam.Patterns{HasURL: true},
	}})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].CreatedAt != "2026-03-01T07:00:00.000Z" {
		t.Fatalf("unexpected timestamp %q", items[0].CreatedAt)
	}

	encoded, err := json.Marshal(items[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"ml_prediction":"spam"`, `"gemini_prediction":"spam"`, `"final_prediction":"spam"`, `"has_url":true`} {
		if !strings.Contains(string(encoded), key) {
			t.Errorf("expected %s in %s", key, encoded)
		}
	}
}

func TestFromPresentations(t *testing.T) {
	items := FromPresentations([]history.Presentation{
		{ID: 4, CreatedAt: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC), FileName: "demo.mp4", Result: presentation.Result{OverallScore: 81, Emotion: "happy"}},
		{ID: 3, FileName: "older.mov"},
	})
	if len(items) != 2 || items[0].ID != 4 || items[1].ID != 3 {
		t.Fatalf("expected order preserved, got %+v", items)
	}
	if items[0].CreatedAt != "2026-05-02T09:00:00.000Z" || items[1].CreatedAt != "" {
		t.Fatalf("unexpected timestamps %q %q", items[0].CreatedAt, items[1].CreatedAt)
	}
	encoded, err := json.Marshal(PresentationHistoryResponse{Items: items[:1]})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"file_name":"demo.mp4"`, `"overall_score":81`, `"emotion":"happy"`} {
		if !strings.Contains(string(encoded), key) {
			t.Errorf("expected %s in %s", key, encoded)
		}
	}
}

func TestFromStatsFillsEmptyMaps(t *testing.T) {
	resp := FromStats(history.Stats{Total: 0})
	if resp.ByRule == nil || resp.ByContent == nil {
		t.Fatalf("expected non-nil maps, got %+v", resp)
	}
	resp = FromStats(history.Stats{Total: 3, Spam: 2, Ham: 1, ByRule: map[string]int{"agreement": 3}})
	if resp.ByRule["agreement"] != 3 || resp.Spam != 2 {
		t.Fatalf("unexpected stats %+v", resp)
	}
}

func TestChecksAndDependencies(t *testing.T) {
	checks := FromChecks([]preflight.Result{
		{Name: "Upload directory", Passed: true},
		{Name: "Vision sidecar", Detail: "connection refused"},
	})
	if AllPassed(checks) {
		t.Fatal("expected failing check to be reported")
	}
	if !AllPassed(checks[:1]) {
		t.Fatal("expected single passing check to pass")
	}

	depsOut := FromDependencies([]deps.Status{{Name: "FFmpeg", Command: "ffmpeg", Available: true, Version: "7.1"}})
	if len(depsOut) != 1 || depsOut[0].Version != "7.1" || !depsOut[0].Available {
		t.Fatalf("unexpected dependencies %+v", depsOut)
	}
}

func TestFormatTimeZero(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
