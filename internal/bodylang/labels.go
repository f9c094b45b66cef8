package bodylang

// Canonical feedback labels. Each is reported at most once per video.
const (
	StrengthSteadyPosture  = "✅ Maintained a strong and steady posture."
	StrengthSmoothGestures = "✅ Smooth and natural hand gestures used effectively."

	ProblemPostureInstability = "⚠️ Some instability in posture, try to reduce movement."
	ProblemShakyGestures      = "⚠️ Some hand movements were too fast or shaky."
	ProblemFewGestures        = "⚠️ Too few hand movements detected. This can make the presentation seem stiff."

	ImproveStraightPosture   = "✔ Maintain a straight posture and minimize unnecessary movements."
	ImproveControlledGesture = "✔ Ensure hand gestures are smooth and controlled."
	ImproveUseGestures       = "✔ Use natural hand gestures to emphasize points and improve engagement."

	NoStrengths    = "✅ No major strengths detected."
	NoProblems     = "✅ No major issues detected!"
	NoImprovements = "✅ No major improvements needed, great job!"

	NoFramesProblem     = "❌ No valid frames detected."
	NoFramesImprovement = "❌ Ensure the video captures the presenter."

	// NotAvailable is the score reported when no frames were decoded.
	NotAvailable = "N/A"
)

// labelSet keeps unique labels in first-seen order.
type labelSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *labelSet) add(label string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[label]; ok {
		return
	}
	s.seen[label] = struct{}{}
	s.items = append(s.items, label)
}

func (s *labelSet) has(label string) bool {
	_, ok := s.seen[label]
	return ok
}

func (s *labelSet) remove(label string) {
	if !s.has(label) {
		return
	}
	delete(s.seen, label)
	out := s.items[:0]
	for _, item := range s.items {
		if item != label {
			out = append(out, item)
		}
	}
	s.items = out
}

func (s *labelSet) listOr(placeholder string) []string {
	if len(s.items) == 0 {
		return []string{placeholder}
	}
	return append([]string(nil), s.items...)
}
