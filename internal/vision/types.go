package vision

import "strings"

// PersonClassID is the COCO class index for "person".
const PersonClassID = 0

// Box is an axis-aligned bounding box in pixel coordinates (x1, y1, x2, y2).
type Box [4]float64

// Detection is one object found by the detector.
type Detection struct {
	ClassID    int     `json:"class_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// IsPerson reports whether the detection is a person by class id or label.
func (d Detection) IsPerson() bool {
	label := strings.TrimSpace(d.Label)
	if label != "" {
		return strings.EqualFold(label, "person")
	}
	return d.ClassID == PersonClassID
}

// Face is one detected face region.
type Face struct {
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
}

// EmotionScores is the classifier verdict for one face crop.
type EmotionScores struct {
	Dominant string             `json:"dominant_emotion"`
	Scores   map[string]float64 `json:"emotions,omitempty"`
}

// Landmark is a normalized pose keypoint; X and Y are in [0,1] of the frame.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Landmark indices in the 33-point body topology.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftWrist     = 15
	RightWrist    = 16
)

// Pose is the landmark set for one person.
type Pose struct {
	Landmarks []Landmark
}

// At returns the landmark at idx, or false when the pose is truncated.
func (p Pose) At(idx int) (Landmark, bool) {
	if idx < 0 || idx >= len(p.Landmarks) {
		return Landmark{}, false
	}
	return p.Landmarks[idx], true
}
