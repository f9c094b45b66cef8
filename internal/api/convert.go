package api

import (
	"maps"
	"time"

	"orato/internal/deps"
	"orato/internal/history"
	"orato/internal/preflight"
)

// FromVerdicts converts stored verdicts, preserving order.
func FromVerdicts(records []history.Verdict) []VerdictItem {
	out := make([]VerdictItem, 0, len(records))
	for _, r := range records {
		out = append(out, VerdictItem{
			ID:          r.ID,
			CreatedAt:   formatTime(r.CreatedAt),
			Message:     r.Message,
			ML:          r.ML,
			Generative:  r.Generative,
			Final:       r.Final,
			Rule:        r.Rule,
			RiskScore:   r.RiskScore,
			ContentType: r.ContentType,
			Patterns:    r.Patterns,
		})
	}
	return out
}

// FromPresentations converts stored analyses, preserving order.
func FromPresentations(records []history.Presentation) []PresentationItem {
	out := make([]PresentationItem, 0, len(records))
	for _, r := range records {
		out = append(out, PresentationItem{
			ID:        r.ID,
			CreatedAt: formatTime(r.CreatedAt),
			FileName:  r.FileName,
			Result:    r.Result,
		})
	}
	return out
}

// FromStats converts aggregate verdict statistics. Nil maps become empty so
// clients can index them unconditionally.
func FromStats(s history.Stats) StatsResponse {
	resp := StatsResponse{
		Total:     s.Total,
		Spam:      s.Spam,
		Ham:       s.Ham,
		AvgRisk:   s.AvgRisk,
		ByRule:    map[string]int{},
		ByContent: map[string]int{},
	}
	maps.Copy(resp.ByRule, s.ByRule)
	maps.Copy(resp.ByContent, s.ByContent)
	return resp
}

// FromChecks converts preflight results.
func FromChecks(results []preflight.Result) []CheckStatus {
	out := make([]CheckStatus, 0, len(results))
	for _, r := range results {
		out = append(out, CheckStatus{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
	}
	return out
}

// FromDependencies converts binary availability statuses.
func FromDependencies(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, dep := range statuses {
		out = append(out, DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Version:     dep.Version,
			Detail:      dep.Detail,
		})
	}
	return out
}

// AllPassed reports whether every check succeeded.
func AllPassed(checks []CheckStatus) bool {
	for _, c := range checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// FormatTime renders a timestamp in the API format; zero times are empty.
func FormatTime(t time.Time) string {
	return formatTime(t)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
