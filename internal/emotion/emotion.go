package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"orato/internal/logging"
	"orato/internal/media/frames"
	"orato/internal/services"
	"orato/internal/vision"
)

// NoFaceDetected is the sentinel error reported when no face was classified.
const NoFaceDetected = "No face detected"

// FaceDetector locates faces in a JPEG frame.
type FaceDetector interface {
	DetectFaces(ctx context.Context, jpeg []byte, minConfidence float64) ([]vision.Face, error)
}

// Classifier labels the dominant emotion of a face crop.
type Classifier interface {
	ClassifyEmotion(ctx context.Context, jpeg []byte) (vision.EmotionScores, error)
}

// Report is the emotion histogram over all sampled frames and faces.
type Report struct {
	Dominant        string
	Counts          map[string]int
	Order           []string
	ProcessedFrames int
	Error           string
}

// Failed reports whether the report is the no-face sentinel or another error.
func (r Report) Failed() bool {
	return r.Error != ""
}

// MarshalJSON emits only the error key for failed reports.
func (r Report) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	return json.Marshal(struct {
		Dominant string         `json:"dominant_emotion"`
		Counts   map[string]int `json:"emotion_counts"`
	}{r.Dominant, r.Counts})
}

// Histogram accumulates labels and remembers first-seen order so ties
// resolve deterministically.
type Histogram struct {
	counts map[string]int
	order  []string
}

// Add counts one observation of label.
func (h *Histogram) Add(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	if h.counts == nil {
		h.counts = make(map[string]int)
	}
	if _, ok := h.counts[label]; !ok {
		h.order = append(h.order, label)
	}
	h.counts[label]++
}

// Dominant returns the most frequent label; ties go to the label seen first.
func (h *Histogram) Dominant() (string, bool) {
	best, bestCount := "", 0
	for _, label := range h.order {
		if c := h.counts[label]; c > bestCount {
			best, bestCount = label, c
		}
	}
	return best, bestCount > 0
}

// Report converts the histogram into a Report.
func (h *Histogram) Report(processed int) Report {
	dominant, ok := h.Dominant()
	if !ok {
		return Report{Error: NoFaceDetected, ProcessedFrames: processed}
	}
	counts := make(map[string]int, len(h.counts))
	for k, v := range h.counts {
		counts[k] = v
	}
	return Report{
		Dominant:        dominant,
		Counts:          counts,
		Order:           append([]string(nil), h.order...),
		ProcessedFrames: processed,
	}
}

// Options tune the scan.
type Options struct {
	MinFaceConfidence float64
}

// Analyze classifies every face in every frame from src. src is expected to
// yield only the sampled frames. Per-frame and per-face failures are logged
// and skipped; the scan only aborts when frame decoding itself fails.
func Analyze(ctx context.Context, src frames.Source, faces FaceDetector, cls Classifier, opts Options, logger *slog.Logger) (Report, error) {
	logger = logging.NewComponentLogger(logger, "emotion")
	var hist Histogram
	processed := 0
	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Report{}, services.Wrap(services.ErrExternalTool, "emotion", "decode frames", "", err)
		}
		processed++

		boxes, err := faces.DetectFaces(ctx, frame.JPEG, opts.MinFaceConfidence)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Report{}, ctxErr
			}
			logger.Debug("face detection failed", logging.Int("frame", frame.Index), logging.Error(err))
			continue
		}
		if len(boxes) == 0 {
			continue
		}
		img, err := DecodeJPEG(frame.JPEG)
		if err != nil {
			logger.Debug("frame decode failed", logging.Int("frame", frame.Index), logging.Error(err))
			continue
		}
		for _, face := range boxes {
			crop, ok, err := CropJPEG(img, face.Box)
			if err != nil {
				logger.Debug("face crop failed", logging.Int("frame", frame.Index), logging.Error(err))
				continue
			}
			if !ok {
				continue
			}
			scores, err := cls.ClassifyEmotion(ctx, crop)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return Report{}, ctxErr
				}
				logger.Debug("emotion classification failed", logging.Int("frame", frame.Index), logging.Error(err))
				continue
			}
			hist.Add(scores.Dominant)
		}
	}

	report := hist.Report(processed)
	if report.Failed() {
		logging.WarnWithContext(logger, "no face detected in video", "emotion_no_face",
			logging.Int("processed_frames", processed),
			logging.String(logging.FieldErrorHint, "ensure the presenter faces the camera"),
			logging.String(logging.FieldImpact, "emotion defaults to neutral"),
		)
		return report, nil
	}
	logger.Info("emotion analysis complete",
		logging.Int("processed_frames", processed),
		logging.String("dominant_emotion", report.Dominant),
	)
	return report, nil
}
