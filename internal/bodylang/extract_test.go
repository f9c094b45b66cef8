package bodylang

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"orato/internal/media/frames"
	"orato/internal/vision"
)

func fmtSscanScore(s string, out *int) (int, error) {
	return fmt.Sscanf(s, "%d/100", out)
}

func poseWith(noseX, lShoulderY, rShoulderY, lWristX, rWristX float64) vision.Pose {
	lm := make([]vision.Landmark, 33)
	lm[vision.Nose] = vision.Landmark{X: noseX}
	lm[vision.LeftShoulder] = vision.Landmark{Y: lShoulderY}
	lm[vision.RightShoulder] = vision.Landmark{Y: rShoulderY}
	lm[vision.LeftWrist] = vision.Landmark{X: lWristX}
	lm[vision.RightWrist] = vision.Landmark{X: rWristX}
	return vision.Pose{Landmarks: lm}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestExtractorMeasurements(t *testing.T) {
	var ex Extractor
	first := poseWith(0.5, 0.40, 0.42, 0.30, 0.60)
	second := poseWith(0.52, 0.40, 0.40, 0.35, 0.60)
	ex.AddFrame(&first)
	ex.AddFrame(nil)
	ex.AddFrame(&second)

	if ex.TotalFrames() != 3 {
		t.Fatalf("expected 3 frames, got %d", ex.TotalFrames())
	}
	got := ex.Features()
	if len(got) != 2 {
		t.Fatalf("expected 2 feature rows, got %d", len(got))
	}
	// First detected pose is measured against the origin.
	if !almostEqual(got[0].NoseMovement, 0.5) || !almostEqual(got[0].BodyMovement, 0.02) ||
		!almostEqual(got[0].HandMovement, 0.30) || !almostEqual(got[0].HandSpeed, 0.30) {
		t.Fatalf("unexpected first features %+v", got[0])
	}
	if !almostEqual(got[1].NoseMovement, 0.02) || !almostEqual(got[1].BodyMovement, 0) ||
		!almostEqual(got[1].HandMovement, 0.25) || !almostEqual(got[1].HandSpeed, 0.05) {
		t.Fatalf("unexpected second features %+v", got[1])
	}
}

func TestExtractorIgnoresTruncatedPose(t *testing.T) {
	var ex Extractor
	ex.AddFrame(&vision.Pose{Landmarks: make([]vision.Landmark, 5)})
	if ex.TotalFrames() != 1 || len(ex.Features()) != 0 {
		t.Fatalf("expected truncated pose to count as frame only")
	}
}

type fakeEstimator struct {
	poses map[int]vision.Pose
	fail  map[int]bool
}

func (f fakeEstimator) EstimatePose(_ context.Context, jpeg []byte, _ float64) (vision.Pose, bool, error) {
	idx := int(jpeg[0])
	if f.fail[idx] {
		return vision.Pose{}, false, errors.New("pose model crashed")
	}
	pose, ok := f.poses[idx]
	return pose, ok, nil
}

func TestAnalyzeSkipsFailedFrames(t *testing.T) {
	steady := poseWith(0.01, 0.5, 0.5, 0.4, 0.6)
	est := fakeEstimator{
		poses: map[int]vision.Pose{1: steady, 2: steady, 4: steady},
		fail:  map[int]bool{3: true},
	}
	src := frames.NewSliceSource(
		frames.Frame{Index: 1, JPEG: []byte{1}},
		frames.Frame{Index: 2, JPEG: []byte{2}},
		frames.Frame{Index: 3, JPEG: []byte{3}},
		frames.Frame{Index: 4, JPEG: []byte{4}},
	)
	report, err := Analyze(context.Background(), src, est, DefaultThresholds(), 0.5, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// The first pose jumps from zero wrist spread, so only frames 2 and 4 are
	// fluid: 3/4*55 + 2/4*45 = 63.75.
	if report.Score != "63/100" {
		t.Fatalf("unexpected score %s", report.Score)
	}
}

func TestAnalyzeEmptyVideo(t *testing.T) {
	report, err := Analyze(context.Background(), frames.NewSliceSource(), fakeEstimator{}, DefaultThresholds(), 0.5, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Score != NotAvailable {
		t.Fatalf("expected N/A, got %s", report.Score)
	}
}
