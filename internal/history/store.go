package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"orato/internal/config"
	"orato/internal/presentation"
	"orato/internal/scam"
)

// Store persists scam verdicts and presentation results in SQLite. A nil
// *Store is a disabled store: writes are dropped and reads return nothing.
type Store struct {
	db   *sql.DB
	path string
}

// OpenFromConfig opens the configured database, or returns nil when history
// is disabled.
func OpenFromConfig(cfg *config.Config) (*Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return Open(cfg.History.Path)
}

// Open initializes or connects to the database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Verdict is a stored scam classification.
type Verdict struct {
	ID          int64         `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	Message     string        `json:"message"`
	ML          string        `json:"ml_prediction"`
	Generative  string        `json:"gemini_prediction"`
	Final       string        `json:"final_prediction"`
	Rule        string        `json:"rule"`
	RiskScore   int           `json:"risk_score"`
	ContentType string        `json:"content_type"`
	Patterns    scam.Patterns `json:"patterns"`
}

// RecordVerdict appends a classification.
func (s *Store) RecordVerdict(ctx context.Context, v scam.Verdict) error {
	if s == nil {
		return nil
	}
	patterns, err := json.Marshal(v.Patterns)
	if err != nil {
		return fmt.Errorf("marshal patterns: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scam_verdicts (
            created_at, message, ml_prediction, gemini_prediction, final_prediction,
            rule, risk_score, content_type, patterns_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		timestamp(),
		v.Message,
		v.ML,
		v.Generative,
		v.Final,
		v.Rule,
		v.RiskScore,
		v.ContentType,
		string(patterns),
	)
	if err != nil {
		return fmt.Errorf("insert verdict: %w", err)
	}
	return nil
}

// RecentVerdicts returns up to limit verdicts, newest first.
func (s *Store) RecentVerdicts(ctx context.Context, limit int) ([]Verdict, error) {
	if s == nil {
		return []Verdict{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, message, ml_prediction, gemini_prediction, final_prediction,
                rule, risk_score, content_type, patterns_json
           FROM scam_verdicts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	out := []Verdict{}
	for rows.Next() {
		var (
			v        Verdict
			created  string
			patterns sql.NullString
		)
		if err := rows.Scan(&v.ID, &created, &v.Message, &v.ML, &v.Generative, &v.Final,
			&v.Rule, &v.RiskScore, &v.ContentType, &patterns); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		v.CreatedAt = parseTimestamp(created)
		if patterns.Valid && patterns.String != "" {
			if err := json.Unmarshal([]byte(patterns.String), &v.Patterns); err != nil {
				return nil, fmt.Errorf("decode patterns for verdict %d: %w", v.ID, err)
			}
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ClearVerdicts deletes every stored verdict and reports how many went.
func (s *Store) ClearVerdicts(ctx context.Context) (int64, error) {
	if s == nil {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM scam_verdicts")
	if err != nil {
		return 0, fmt.Errorf("clear verdicts: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes stored verdicts.
type Stats struct {
	Total     int            `json:"total"`
	Spam      int            `json:"spam"`
	Ham       int            `json:"ham"`
	AvgRisk   float64        `json:"avg_risk_score"`
	ByRule    map[string]int `json:"by_rule"`
	ByContent map[string]int `json:"by_content_type"`
}

// VerdictStats aggregates final labels, rules, and content types.
func (s *Store) VerdictStats(ctx context.Context) (Stats, error) {
	stats := Stats{ByRule: map[string]int{}, ByContent: map[string]int{}}
	if s == nil {
		return stats, nil
	}
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
                COALESCE(SUM(CASE WHEN final_prediction = 'spam' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN final_prediction = 'ham' THEN 1 ELSE 0 END), 0),
                AVG(risk_score)
           FROM scam_verdicts`).Scan(&stats.Total, &stats.Spam, &stats.Ham, &avg)
	if err != nil {
		return stats, fmt.Errorf("verdict totals: %w", err)
	}
	if avg.Valid {
		stats.AvgRisk = avg.Float64
	}
	if err := s.groupCount(ctx, "rule", stats.ByRule); err != nil {
		return stats, err
	}
	if err := s.groupCount(ctx, "content_type", stats.ByContent); err != nil {
		return stats, err
	}
	return stats, nil
}

// groupCount fills dst with per-value counts of column. column is always a
// package constant.
func (s *Store) groupCount(ctx context.Context, column string, dst map[string]int) error {
	rows, err := s.db.QueryContext(ctx, "SELECT "+column+", COUNT(1) FROM scam_verdicts GROUP BY "+column)
	if err != nil {
		return fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		dst[key] = count
	}
	return rows.Err()
}

// Presentation is a stored presentation analysis.
type Presentation struct {
	ID        int64               `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	FileName  string              `json:"file_name"`
	Result    presentation.Result `json:"result"`
}

// RecordPresentation appends a merged presentation result.
func (s *Store) RecordPresentation(ctx context.Context, fileName string, r presentation.Result) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal presentation: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presentation_results (
            created_at, file_name, overall_score, body_score, speech_score, emotion, result_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		timestamp(), fileName, r.OverallScore, r.BodyScore, r.SpeechScore, r.Emotion, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert presentation: %w", err)
	}
	return nil
}

// RecentPresentations returns up to limit results, newest first.
func (s *Store) RecentPresentations(ctx context.Context, limit int) ([]Presentation, error) {
	if s == nil {
		return []Presentation{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created_at, file_name, result_json FROM presentation_results ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query presentations: %w", err)
	}
	defer rows.Close()

	out := []Presentation{}
	for rows.Next() {
		var (
			p       Presentation
			created string
			payload string
		)
		if err := rows.Scan(&p.ID, &created, &p.FileName, &payload); err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		p.CreatedAt = parseTimestamp(created)
		if err := json.Unmarshal([]byte(payload), &p.Result); err != nil {
			return nil, fmt.Errorf("decode presentation %d: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
