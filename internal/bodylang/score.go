package bodylang

import (
	"fmt"
	"math"
)

// FrameFeatures are the per-frame pose measurements, in normalized frame units.
type FrameFeatures struct {
	NoseMovement float64 `json:"nose_movement"`
	BodyMovement float64 `json:"body_movement"`
	HandMovement float64 `json:"hand_movement"`
	HandSpeed    float64 `json:"hand_speed"`
}

// Thresholds tune the posture and gesture buckets.
type Thresholds struct {
	Head          float64
	Body          float64
	ExcessiveBody float64
	GestureMin    float64
	GestureMax    float64
	Shake         float64
}

// DefaultThresholds returns the stock tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Head:          0.06,
		Body:          0.06,
		ExcessiveBody: 0.09,
		GestureMin:    0.02,
		GestureMax:    0.38,
		Shake:         0.025,
	}
}

// ConfidenceReport is the aggregate body-language verdict for a video.
type ConfidenceReport struct {
	Score        string   `json:"confidence_score"`
	Strengths    []string `json:"strengths"`
	Problems     []string `json:"problems_detected"`
	Improvements []string `json:"keys_to_improve"`
}

// Counts are the per-bucket frame tallies behind a score.
type Counts struct {
	Stable     int
	Excessive  int
	Controlled int
	Fluid      int
	NoGesture  int
}

// NoFramesReport is returned when nothing could be decoded.
func NoFramesReport() ConfidenceReport {
	return ConfidenceReport{
		Score:        NotAvailable,
		Strengths:    []string{},
		Problems:     []string{NoFramesProblem},
		Improvements: []string{NoFramesImprovement},
	}
}

// Score buckets every frame and blends the bucket fractions into a report.
// totalFrames counts every decoded frame, including ones without a pose.
func Score(features []FrameFeatures, totalFrames int, th Thresholds) ConfidenceReport {
	if totalFrames <= 0 {
		return NoFramesReport()
	}

	var (
		counts                            Counts
		strengths, problems, improvements labelSet
	)
	for _, f := range features {
		switch {
		case f.NoseMovement < th.Head && f.BodyMovement < th.Body:
			counts.Stable++
			strengths.add(StrengthSteadyPosture)
		case f.BodyMovement > th.ExcessiveBody:
			counts.Excessive++
			problems.add(ProblemPostureInstability)
			improvements.add(ImproveStraightPosture)
		}

		switch {
		case th.GestureMin < f.HandMovement && f.HandMovement < th.GestureMax:
			counts.Controlled++
			if f.HandSpeed < th.Shake {
				counts.Fluid++
				strengths.add(StrengthSmoothGestures)
			} else {
				problems.add(ProblemShakyGestures)
				improvements.add(ImproveControlledGesture)
			}
		case f.HandMovement < th.GestureMin:
			counts.NoGesture++
			problems.add(ProblemFewGestures)
			improvements.add(ImproveUseGestures)
		}
	}

	// Both gesture problems can fire on different frames; shaky wins.
	if problems.has(ProblemShakyGestures) {
		problems.remove(ProblemFewGestures)
	}

	return ConfidenceReport{
		Score:        fmt.Sprintf("%d/100", ScoreValue(counts, totalFrames)),
		Strengths:    strengths.listOr(NoStrengths),
		Problems:     problems.listOr(NoProblems),
		Improvements: improvements.listOr(NoImprovements),
	}
}

// ScoreValue applies the 55/45/-10/-10 blend, clamps to [0,100], and
// truncates to an integer.
func ScoreValue(c Counts, totalFrames int) int {
	if totalFrames <= 0 {
		return 0
	}
	total := float64(totalFrames)
	raw := float64(c.Stable)/total*55 +
		float64(c.Fluid)/total*45 -
		float64(c.Excessive)/total*10 -
		float64(c.NoGesture)/total*10
	return int(math.Max(0, math.Min(100, raw)))
}
