package bodylang

import (
	"slices"
	"testing"
)

func TestScoreZeroFramesReturnsSentinel(t *testing.T) {
	report := Score(nil, 0, DefaultThresholds())
	if report.Score != NotAvailable {
		t.Fatalf("expected N/A, got %q", report.Score)
	}
	if len(report.Strengths) != 0 {
		t.Fatalf("expected no strengths, got %v", report.Strengths)
	}
	if !slices.Equal(report.Problems, []string{NoFramesProblem}) || !slices.Equal(report.Improvements, []string{NoFramesImprovement}) {
		t.Fatalf("unexpected sentinel report %+v", report)
	}
}

func TestScorePerfectPresenter(t *testing.T) {
	steady := FrameFeatures{NoseMovement: 0.01, BodyMovement: 0.01, HandMovement: 0.2, HandSpeed: 0.01}
	features := []FrameFeatures{steady, steady, steady, steady}
	report := Score(features, 4, DefaultThresholds())
	if report.Score != "100/100" {
		t.Fatalf("expected 100/100, got %s", report.Score)
	}
	want := []string{StrengthSteadyPosture, StrengthSmoothGestures}
	if !slices.Equal(report.Strengths, want) {
		t.Fatalf("strengths = %v, want %v", report.Strengths, want)
	}
	if !slices.Equal(report.Problems, []string{NoProblems}) || !slices.Equal(report.Improvements, []string{NoImprovements}) {
		t.Fatalf("expected placeholders, got %+v", report)
	}
}

func TestScoreSuppressesFewGesturesWhenShaky(t *testing.T) {
	features := []FrameFeatures{
		{NoseMovement: 0.5, BodyMovement: 0.01, HandMovement: 0.01},
		{NoseMovement: 0.5, BodyMovement: 0.01, HandMovement: 0.2, HandSpeed: 0.3},
	}
	report := Score(features, 2, DefaultThresholds())
	if slices.Contains(report.Problems, ProblemFewGestures) {
		t.Fatalf("few-gestures label should be dropped: %v", report.Problems)
	}
	if !slices.Contains(report.Problems, ProblemShakyGestures) {
		t.Fatalf("expected shaky label: %v", report.Problems)
	}
	// Only the label is suppressed; the improvement stays.
	if !slices.Contains(report.Improvements, ImproveUseGestures) {
		t.Fatalf("expected gesture improvement to remain: %v", report.Improvements)
	}
}

func TestScoreLabelsAreDeduplicated(t *testing.T) {
	shaky := FrameFeatures{NoseMovement: 0.5, BodyMovement: 0.2, HandMovement: 0.2, HandSpeed: 0.3}
	report := Score([]FrameFeatures{shaky, shaky, shaky}, 3, DefaultThresholds())
	want := []string{ProblemPostureInstability, ProblemShakyGestures}
	if !slices.Equal(report.Problems, want) {
		t.Fatalf("problems = %v, want %v", report.Problems, want)
	}
	if report.Score != "0/100" {
		t.Fatalf("expected penalties to clamp at 0, got %s", report.Score)
	}
	if !slices.Equal(report.Strengths, []string{NoStrengths}) {
		t.Fatalf("expected strengths placeholder, got %v", report.Strengths)
	}
}

func TestScoreValueBlend(t *testing.T) {
	cases := []struct {
		name   string
		counts Counts
		total  int
		want   int
	}{
		{"half stable", Counts{Stable: 5}, 10, 27},
		{"stable and fluid", Counts{Stable: 10, Fluid: 5}, 10, 77},
		{"penalties only", Counts{Excessive: 10, NoGesture: 10}, 10, 0},
		{"frames without pose dilute", Counts{Stable: 2, Fluid: 2}, 8, 25},
		{"zero total", Counts{Stable: 1}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScoreValue(tc.counts, tc.total); got != tc.want {
				t.Fatalf("ScoreValue = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreAlwaysBounded(t *testing.T) {
	values := []float64{0, 0.01, 0.02, 0.05, 0.06, 0.09, 0.1, 0.38, 0.5, 1}
	var features []FrameFeatures
	for _, a := range values {
		for _, b := range values {
			features = append(features, FrameFeatures{NoseMovement: a, BodyMovement: b, HandMovement: b, HandSpeed: a})
		}
	}
	for total := len(features); total <= len(features)*3; total += len(features) {
		report := Score(features, total, DefaultThresholds())
		var score int
		if _, err := fmtSscanScore(report.Score, &score); err != nil {
			t.Fatalf("unparsable score %q: %v", report.Score, err)
		}
		if score < 0 || score > 100 {
			t.Fatalf("score %d out of range", score)
		}
	}
}
