package bodylang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"

	"orato/internal/logging"
	"orato/internal/media/frames"
	"orato/internal/services"
	"orato/internal/vision"
)

// PoseEstimator returns body landmarks for a JPEG frame.
type PoseEstimator interface {
	EstimatePose(ctx context.Context, jpeg []byte, minConfidence float64) (vision.Pose, bool, error)
}

// Extractor turns a stream of poses into FrameFeatures. The first detected
// pose measures nose travel from the frame origin.
type Extractor struct {
	prev          *vision.Pose
	prevHandSpeed float64
	features      []FrameFeatures
	total         int
}

// AddFrame records a decoded frame. pose is nil when no person was found.
func (e *Extractor) AddFrame(pose *vision.Pose) {
	e.total++
	if pose == nil {
		return
	}
	nose, ok1 := pose.At(vision.Nose)
	lShoulder, ok2 := pose.At(vision.LeftShoulder)
	rShoulder, ok3 := pose.At(vision.RightShoulder)
	lWrist, ok4 := pose.At(vision.LeftWrist)
	rWrist, ok5 := pose.At(vision.RightWrist)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return
	}

	var prevNoseX float64
	if e.prev != nil {
		if prevNose, ok := e.prev.At(vision.Nose); ok {
			prevNoseX = prevNose.X
		}
	}
	hand := math.Abs(lWrist.X - rWrist.X)
	f := FrameFeatures{
		NoseMovement: math.Abs(nose.X - prevNoseX),
		BodyMovement: math.Abs(lShoulder.Y - rShoulder.Y),
		HandMovement: hand,
		HandSpeed:    math.Abs(hand - e.prevHandSpeed),
	}
	e.prevHandSpeed = hand
	e.prev = pose
	e.features = append(e.features, f)
}

// Features returns the collected measurements.
func (e *Extractor) Features() []FrameFeatures {
	return e.features
}

// TotalFrames returns the number of decoded frames seen, with or without pose.
func (e *Extractor) TotalFrames() int {
	return e.total
}

// Analyze runs pose estimation over every frame from src and scores it.
// Frames whose pose call fails still count toward the total.
func Analyze(ctx context.Context, src frames.Source, est PoseEstimator, th Thresholds, minConfidence float64, logger *slog.Logger) (ConfidenceReport, error) {
	logger = logging.NewComponentLogger(logger, "bodylang")
	var ex Extractor
	failures := 0
	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ConfidenceReport{}, services.Wrap(services.ErrExternalTool, "bodylang", "decode frames", "", err)
		}
		pose, ok, err := est.EstimatePose(ctx, frame.JPEG, minConfidence)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ConfidenceReport{}, ctxErr
			}
			failures++
			logger.Debug("pose estimation failed for frame", logging.Int("frame", frame.Index), logging.Error(err))
			ex.AddFrame(nil)
			continue
		}
		if !ok {
			ex.AddFrame(nil)
			continue
		}
		ex.AddFrame(&pose)
	}

	report := Score(ex.Features(), ex.TotalFrames(), th)
	logger.Info("body language scored",
		logging.Int("frames", ex.TotalFrames()),
		logging.Int("pose_frames", len(ex.Features())),
		logging.Int("pose_failures", failures),
		logging.String("score", report.Score),
	)
	return report, nil
}
