package speech

import (
	"encoding/json"
	"fmt"
)

// Labels attached to the numeric features.
const (
	VolumeLoud    = "Loud & clear"
	VolumeSoft    = "Too soft"
	PitchVaried   = "Expressive"
	PitchMonotone = "Monotone"
)

// Report is the speech feature summary for one recording. When extraction
// fails only Error is set.
type Report struct {
	DurationSec    float64 `json:"duration_sec"`
	AvgVolume      float64 `json:"avg_volume"`
	VolumeAnalysis string  `json:"volume_analysis"`
	PitchStdDev    float64 `json:"pitch_std_dev"`
	PitchAnalysis  string  `json:"pitch_analysis"`
	SpeakingRate   string  `json:"speaking_rate"`
	Error          string  `json:"error,omitempty"`
}

// Failed wraps err in the uniform failure sentinel.
func Failed(err error) Report {
	return Report{Error: fmt.Sprintf("Speech analysis failed: %v", err)}
}

// Failed reports whether the report is the failure sentinel.
func (r Report) Failed() bool {
	return r.Error != ""
}

// MarshalJSON emits only the error key for failed reports.
func (r Report) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Error})
	}
	type plain Report
	return json.Marshal(plain(r))
}
