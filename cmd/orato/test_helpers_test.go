package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"orato/internal/config"
	"orato/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"ORATO_LLM_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY",
		"ORATO_API_TOKEN", "ORATO_REDIS_ADDR", "ORATO_VISION_URL", "PORT",
	} {
		t.Setenv(key, "")
	}

	opts = append([]testsupport.ConfigOption{testsupport.WithVisionURL("http://127.0.0.1:1")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(home, ".config", "orato", "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const timetableFixture = `{
  "semester": "5",
  "section": "J",
  "program": "B.Tech CSE",
  "weeklySchedule": {
    "Monday": [
      {"time": "09:00-10:00", "subject": "Data Structures", "code": "DSA101", "instructor": "Dr. Rao", "room": "UB-V 301"}
    ],
    "Tuesday": [
      {"time": "11:00-12:00", "subject": "Operating Systems", "code": "OS201", "instructor": "Dr. Iyer", "room": "UB-VI 105"}
    ]
  },
  "subjects": [
    {"name": "Data Structures", "code": "DSA101", "instructor": "Dr. Rao", "type": "Theory"},
    {"name": "Operating Systems", "code": "OS201", "instructor": "Dr. Iyer", "type": "Theory"}
  ]
}`

func writeTimetable(t *testing.T, cfg *config.Config) {
	t.Helper()
	testsupport.WriteText(t, filepath.Join(testsupport.KnowledgeDir(cfg), "timetable.json"), timetableFixture)
}

// writeScamArtifacts exports a four-term linear model where "free prize"
// classifies as spam.
func writeScamArtifacts(t *testing.T, cfg *config.Config) {
	t.Helper()
	dir := testsupport.ModelDir(cfg)
	testsupport.WriteJSON(t, filepath.Join(dir, "tfidf_vectorizer.json"), map[string]any{
		"vocabulary":   map[string]int{"free": 0, "prize": 1, "call": 2, "now": 3},
		"idf":          []float64{1, 2, 1, 1},
		"lowercase":    true,
		"ngram_range":  []int{1, 1},
		"sublinear_tf": false,
		"norm":         "l2",
	})
	testsupport.WriteJSON(t, filepath.Join(dir, "sms_model.json"), map[string]any{
		"type":      "linear",
		"classes":   []string{"ham", "spam"},
		"coef":      [][]float64{{1, 1, -1, 0}},
		"intercept": []float64{-0.1},
	})
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
