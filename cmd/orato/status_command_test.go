package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orato/internal/api"
	"orato/internal/testsupport"
)

func TestStatusCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	writeTimetable(t, env.cfg)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var status api.ServiceStatus
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode status: %v\n%s", err, out)
	}
	if status.PID != os.Getpid() {
		t.Fatalf("expected pid %d, got %d", os.Getpid(), status.PID)
	}
	if status.KnowledgeFiles != 1 || status.ModelsLoaded || status.CacheEnabled {
		t.Fatalf("unexpected service fields %+v", status)
	}
	if status.HistoryPath != env.cfg.History.Path {
		t.Fatalf("history path = %q, want %q", status.HistoryPath, env.cfg.History.Path)
	}
	if len(status.Dependencies) != 2 || !status.Dependencies[0].Available {
		t.Fatalf("expected stubbed ffmpeg to be available, got %+v", status.Dependencies)
	}
	if status.Healthy {
		t.Fatal("expected unreachable vision sidecar to fail readiness")
	}
	for _, check := range status.Checks {
		if strings.Contains(check.Name, "Generative") {
			t.Fatalf("billable check ran without --deep: %+v", check)
		}
	}
}

func TestStatusCommandReport(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Orato ==")
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[OK] 2 available")
	if strings.Contains(out, ansiReset) {
		t.Fatal("expected no color codes when stdout is a buffer")
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"analyze", filepath.Join(t.TempDir(), "missing.mp4")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "open video") {
		t.Fatalf("expected open error, got %v", err)
	}
	_, _, err = runCLI(t, []string{"analyze", t.TempDir()}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}
