package presence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"orato/internal/logging"
	"orato/internal/media/frames"
	"orato/internal/services"
	"orato/internal/vision"
)

// NoHumanMessage is the user-facing rejection for uploads without a presenter.
const NoHumanMessage = "No human detected in the video."

// Thresholds configure the gate.
type Thresholds struct {
	// FrameBudget caps how many frames are scanned (about 5s at 30fps).
	FrameBudget int
	// High is the person-frame count that ends the scan early with success.
	High int
	// Low is the minimum person-frame count accepted once the budget is spent.
	Low int
}

// DefaultThresholds returns the stock 150/100/3 gate.
func DefaultThresholds() Thresholds {
	return Thresholds{FrameBudget: 150, High: 100, Low: 3}
}

// PersonDetector finds objects in a JPEG frame.
type PersonDetector interface {
	DetectObjects(ctx context.Context, jpeg []byte) ([]vision.Detection, error)
}

// Gate counts person frames and decides presence. The zero value is not
// usable; construct with NewGate.
type Gate struct {
	th           Thresholds
	scanned      int
	personFrames int
	early        bool
}

// NewGate returns a gate for th.
func NewGate(th Thresholds) *Gate {
	return &Gate{th: th}
}

// Observe records one scanned frame and reports whether the scan can stop
// because the high threshold was reached.
func (g *Gate) Observe(personFound bool) bool {
	if g.early {
		return true
	}
	g.scanned++
	if personFound {
		g.personFrames++
	}
	if g.personFrames >= g.th.High {
		g.early = true
	}
	return g.early
}

// Exhausted reports whether the frame budget has been spent.
func (g *Gate) Exhausted() bool {
	return g.th.FrameBudget > 0 && g.scanned >= g.th.FrameBudget
}

// Result summarizes the gate decision.
func (g *Gate) Result() Result {
	return Result{
		Present:      g.early || g.personFrames >= g.th.Low,
		Scanned:      g.scanned,
		PersonFrames: g.personFrames,
		EarlyExit:    g.early,
	}
}

// Result is the outcome of a presence scan.
type Result struct {
	Present      bool `json:"human_detected"`
	Scanned      int  `json:"frames_scanned"`
	PersonFrames int  `json:"person_frames"`
	EarlyExit    bool `json:"early_exit"`
}

// Err returns nil when a presenter was found, otherwise an ErrNoHuman error
// carrying the user-facing message.
func (r Result) Err() error {
	if r.Present {
		return nil
	}
	return fmt.Errorf("%w: %s", services.ErrNoHuman, NoHumanMessage)
}

// ContainsPerson reports whether any detection is a person.
func ContainsPerson(dets []vision.Detection) bool {
	for _, d := range dets {
		if d.IsPerson() {
			return true
		}
	}
	return false
}

// Check scans up to th.FrameBudget frames from src. Frames the detector fails
// on still count as scanned but never as person frames. If every scanned
// frame failed, Check returns an ErrExternalTool error.
func Check(ctx context.Context, src frames.Source, det PersonDetector, th Thresholds, logger *slog.Logger) (Result, error) {
	logger = logging.NewComponentLogger(logger, "presence")
	gate := NewGate(th)
	failures := 0
	var lastErr error

	for !gate.Exhausted() {
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, services.Wrap(services.ErrExternalTool, "presence", "decode frames", "", err)
		}
		dets, err := det.DetectObjects(ctx, frame.JPEG)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			failures++
			lastErr = err
			logger.Debug("person detection failed for frame",
				logging.Int("frame", frame.Index),
				logging.Error(err),
			)
			gate.Observe(false)
			continue
		}
		if gate.Observe(ContainsPerson(dets)) {
			break
		}
	}

	result := gate.Result()
	if result.Scanned > 0 && failures == result.Scanned {
		return result, services.Wrap(services.ErrExternalTool, "presence", "detect persons", "detector failed on every frame", lastErr)
	}
	logger.Info("presence gate decided",
		logging.Args(append(
			logging.DecisionAttrs("presence_gate", presentLabel(result.Present), reasonFor(result)),
			logging.Int("frames_scanned", result.Scanned),
			logging.Int("person_frames", result.PersonFrames),
		)...)...,
	)
	return result, nil
}

func presentLabel(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}

func reasonFor(r Result) string {
	switch {
	case r.EarlyExit:
		return "high threshold reached"
	case r.Present:
		return "low threshold met after scan"
	case r.Scanned == 0:
		return "no decodable frames"
	default:
		return "too few person frames"
	}
}
