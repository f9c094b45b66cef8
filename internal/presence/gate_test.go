package presence

import (
	"context"
	"errors"
	"testing"

	"orato/internal/media/frames"
	"orato/internal/services"
	"orato/internal/vision"
)

type scriptedDetector struct {
	persons map[int]bool
	fail    map[int]bool
	calls   int
}

func (d *scriptedDetector) DetectObjects(_ context.Context, jpeg []byte) ([]vision.Detection, error) {
	d.calls++
	idx := int(jpeg[0])<<8 | int(jpeg[1])
	if d.fail[idx] {
		return nil, errors.New("sidecar unavailable")
	}
	if d.persons[idx] {
		return []vision.Detection{{ClassID: 56, Label: "chair"}, {ClassID: 0, Label: "person"}}, nil
	}
	return []vision.Detection{{ClassID: 56, Label: "chair"}}, nil
}

func makeFrames(n int) *frames.SliceSource {
	list := make([]frames.Frame, n)
	for i := range list {
		idx := i + 1
		list[i] = frames.Frame{Index: idx, JPEG: []byte{byte(idx >> 8), byte(idx)}}
	}
	return frames.NewSliceSource(list...)
}

func personsIn(first, last int) map[int]bool {
	out := make(map[int]bool)
	for i := first; i <= last; i++ {
		out[i] = true
	}
	return out
}

func TestCheckExitsEarlyAtHighThreshold(t *testing.T) {
	det := &scriptedDetector{persons: personsIn(1, 150)}
	res, err := Check(context.Background(), makeFrames(300), det, DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Present || !res.EarlyExit {
		t.Fatalf("expected early success, got %+v", res)
	}
	if det.calls != 100 || res.Scanned != 100 {
		t.Fatalf("expected scan to stop at 100 frames, calls=%d scanned=%d", det.calls, res.Scanned)
	}
}

func TestCheckLowThresholdNeedsFullBudget(t *testing.T) {
	cases := []struct {
		name    string
		persons map[int]bool
		present bool
	}{
		{"three person frames", personsIn(10, 12), true},
		{"ninety nine person frames", personsIn(1, 99), true},
		{"two person frames", personsIn(1, 2), false},
		{"none", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			det := &scriptedDetector{persons: tc.persons}
			res, err := Check(context.Background(), makeFrames(400), det, DefaultThresholds(), nil)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if res.Present != tc.present {
				t.Fatalf("present = %v, want %v (%+v)", res.Present, tc.present, res)
			}
			if res.Scanned != 150 || res.EarlyExit {
				t.Fatalf("expected the whole 150-frame budget to be scanned, got %+v", res)
			}
		})
	}
}

func TestCheckShortVideoUsesAvailableFrames(t *testing.T) {
	det := &scriptedDetector{persons: personsIn(1, 3)}
	res, err := Check(context.Background(), makeFrames(20), det, DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.Present || res.Scanned != 20 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCheckSkipsFailedFrames(t *testing.T) {
	det := &scriptedDetector{persons: personsIn(1, 10), fail: personsIn(1, 8)}
	res, err := Check(context.Background(), makeFrames(30), det, DefaultThresholds(), nil)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.PersonFrames != 2 || res.Present {
		t.Fatalf("expected two surviving person frames, got %+v", res)
	}
	if !errors.Is(res.Err(), services.ErrNoHuman) {
		t.Fatalf("expected ErrNoHuman, got %v", res.Err())
	}
}

func TestCheckAllFramesFailing(t *testing.T) {
	det := &scriptedDetector{fail: personsIn(1, 5)}
	_, err := Check(context.Background(), makeFrames(5), det, DefaultThresholds(), nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestGateObserveIsStickyAfterEarlyExit(t *testing.T) {
	g := NewGate(Thresholds{FrameBudget: 10, High: 2, Low: 1})
	g.Observe(true)
	if !g.Observe(true) {
		t.Fatal("expected early exit at high threshold")
	}
	if !g.Observe(false) {
		t.Fatal("expected early exit to stick")
	}
	if got := g.Result(); got.Scanned != 2 || !got.Present {
		t.Fatalf("unexpected result %+v", got)
	}
}
