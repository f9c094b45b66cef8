package api

import (
	"orato/internal/presentation"
	"orato/internal/scam"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// StatusSuccess marks a successful assistant response.
const StatusSuccess = "success"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageRequest is the body accepted by /chat and /scam/predict.
type MessageRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant reply in markdown and rendered HTML.
type ChatResponse struct {
	Response     string `json:"response"`
	ResponseHTML string `json:"response_html"`
	Status       string `json:"status"`
}

// TimetableResponse answers a day lookup.
type TimetableResponse struct {
	Day      string `json:"day"`
	Schedule string `json:"schedule"`
	Status   string `json:"status"`
}

// SubjectResponse answers a subject lookup.
type SubjectResponse struct {
	Subject string `json:"subject"`
	Info    string `json:"info"`
	Status  string `json:"status"`
}

// RoomResponse answers a room lookup.
type RoomResponse struct {
	Room   string `json:"room"`
	Info   string `json:"info"`
	Status string `json:"status"`
}

// VerdictItem is a stored classification.
type VerdictItem struct {
	ID          int64         `json:"id"`
	CreatedAt   string        `json:"created_at,omitempty"`
	Message     string        `json:"message"`
	ML          string        `json:"ml_prediction"`
	Generative  string        `json:"gemini_prediction"`
	Final       string        `json:"final_prediction"`
	Rule        string        `json:"rule"`
	RiskScore   int           `json:"risk_score"`
	ContentType string        `json:"content_type"`
	Patterns    scam.Patterns `json:"patterns"`
}

// HistoryResponse wraps recent classifications, newest first.
type HistoryResponse struct {
	Items []VerdictItem `json:"items"`
}

// PresentationItem is a stored presentation analysis.
type PresentationItem struct {
	ID        int64               `json:"id"`
	CreatedAt string              `json:"created_at,omitempty"`
	FileName  string              `json:"file_name"`
	Result    presentation.Result `json:"result"`
}

// PresentationHistoryResponse wraps recent analyses, newest first.
type PresentationHistoryResponse struct {
	Items []PresentationItem `json:"items"`
}

// ClearResponse reports how many records were removed.
type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

// StatsResponse aggregates stored classifications.
type StatsResponse struct {
	Total     int            `json:"total"`
	Spam      int            `json:"spam"`
	Ham       int            `json:"ham"`
	AvgRisk   float64        `json:"avg_risk_score"`
	ByRule    map[string]int `json:"by_rule"`
	ByContent map[string]int `json:"by_content_type"`
}

// CheckStatus is one preflight outcome.
type CheckStatus struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// DependencyStatus captures availability of an external binary.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Version     string `json:"version,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// ServiceStatus aggregates runtime information for /api/status and
// "orato status".
type ServiceStatus struct {
	Healthy        bool               `json:"healthy"`
	PID            int                `json:"pid"`
	StartedAt      string             `json:"started_at,omitempty"`
	HistoryPath    string             `json:"history_path,omitempty"`
	LockFilePath   string             `json:"lock_file_path,omitempty"`
	ModelsLoaded   bool               `json:"scam_models_loaded"`
	KnowledgeFiles int                `json:"knowledge_files"`
	CacheEnabled   bool               `json:"cache_enabled"`
	Checks         []CheckStatus      `json:"checks"`
	Dependencies   []DependencyStatus `json:"dependencies"`
}
