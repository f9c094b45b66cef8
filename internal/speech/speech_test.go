package speech

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func tone(freq, amp float64, seconds float64, sr int) []float64 {
	n := int(seconds * float64(sr))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sr))
	}
	return out
}

func TestFeaturesSteadyToneIsMonotone(t *testing.T) {
	opts := DefaultOptions()
	report, err := Features(tone(440, 0.5, 1, opts.SampleRate), opts)
	if err != nil {
		t.Fatalf("Features: %v", err)
	}
	if report.DurationSec != 1 {
		t.Fatalf("duration = %v, want 1", report.DurationSec)
	}
	if report.VolumeAnalysis != VolumeLoud || report.AvgVolume < 0.2 {
		t.Fatalf("expected loud tone, got %+v", report)
	}
	if report.PitchAnalysis != PitchMonotone || report.PitchStdDev > 30 {
		t.Fatalf("expected monotone tone, got %+v", report)
	}
	if !strings.HasSuffix(report.SpeakingRate, " BPM") {
		t.Fatalf("unexpected speaking rate %q", report.SpeakingRate)
	}
}

func TestFeaturesAlternatingPitchIsExpressive(t *testing.T) {
	opts := DefaultOptions()
	samples := append(tone(200, 0.3, 1, opts.SampleRate), tone(800, 0.3, 1, opts.SampleRate)...)
	report, err := Features(samples, opts)
	if err != nil {
		t.Fatalf("Features: %v", err)
	}
	if report.PitchAnalysis != PitchVaried {
		t.Fatalf("expected expressive pitch, std=%v", report.PitchStdDev)
	}
}

func TestFeaturesQuietToneIsSoft(t *testing.T) {
	opts := DefaultOptions()
	report, err := Features(tone(300, 0.005, 0.5, opts.SampleRate), opts)
	if err != nil {
		t.Fatalf("Features: %v", err)
	}
	if report.VolumeAnalysis != VolumeSoft {
		t.Fatalf("expected soft volume, got %+v", report)
	}
}

func TestFeaturesRejectsEmptyAndSilent(t *testing.T) {
	if _, err := Features(nil, DefaultOptions()); err == nil {
		t.Fatal("expected error for empty audio")
	}
	if _, err := Features(make([]float64, 4096), DefaultOptions()); err == nil {
		t.Fatal("expected error for silent audio")
	}
}

func TestEstimateTempoFollowsPeriodicOnsets(t *testing.T) {
	env := make([]float64, 600)
	for i := 0; i < len(env); i += 22 {
		env[i] = 1
	}
	if got := int(estimateTempo(env, 22050)); got != 117 {
		t.Fatalf("tempo = %d, want 117", got)
	}
	if got := estimateTempo(nil, 22050); got != 0 {
		t.Fatalf("expected zero tempo for empty envelope, got %v", got)
	}
}

func TestPeriodicHann(t *testing.T) {
	const n = 8
	win := periodicHann(n)
	if len(win) != n {
		t.Fatalf("expected %d points, got %d", n, len(win))
	}
	for k := range win {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(k)/n)
		if math.Abs(win[k]-want) > 1e-12 {
			t.Fatalf("win[%d] = %f, want %f", k, win[k], want)
		}
	}
	if win[n/2] != 1 || win[n-1] == 0 {
		t.Fatalf("expected peak at n/2 and a non-zero tail, got %v", win)
	}
}

func TestGridMedian(t *testing.T) {
	cases := []struct {
		values []float64
		zeros  int
		want   float64
	}{
		{[]float64{3, -1, 2}, 2, 0},
		{[]float64{5, 4, 3}, 0, 4},
		{[]float64{1, 2}, 2, 0.5},
		{nil, 0, 0},
	}
	for _, tc := range cases {
		if got := gridMedian(tc.values, tc.zeros); got != tc.want {
			t.Fatalf("gridMedian(%v, %d) = %v, want %v", tc.values, tc.zeros, got, tc.want)
		}
	}
}

func TestPCMToFloat(t *testing.T) {
	got := PCMToFloat([]byte{0x00, 0x80, 0xFF, 0x7F, 0x00, 0x00, 0x01})
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0] != -1 || got[1] != 32767.0/32768 || got[2] != 0 {
		t.Fatalf("unexpected samples %v", got)
	}
}

func TestFailedReportMarshalsErrorOnly(t *testing.T) {
	report := Failed(errors.New("no audio stream"))
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"error":"Speech analysis failed: no audio stream"}` {
		t.Fatalf("unexpected json %s", data)
	}
	ok, _ := json.Marshal(Report{VolumeAnalysis: VolumeLoud, SpeakingRate: "96 BPM"})
	var decoded map[string]any
	if err := json.Unmarshal(ok, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["volume_analysis"] != VolumeLoud || decoded["speaking_rate"] != "96 BPM" {
		t.Fatalf("unexpected json %s", ok)
	}
	if _, present := decoded["error"]; present {
		t.Fatalf("successful report should omit error: %s", ok)
	}
}

func TestAnalyzeReportsDecodeFailure(t *testing.T) {
	report := Analyze(context.Background(), "/does/not/exist.mp4", Options{Binary: "orato-missing-ffmpeg"})
	if !report.Failed() || !strings.HasPrefix(report.Error, "Speech analysis failed: ") {
		t.Fatalf("expected failure sentinel, got %+v", report)
	}
}
