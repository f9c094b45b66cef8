package campus

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"orato/internal/config"
	"orato/internal/logging"
)

// Topic is one block of general campus knowledge embedded in the chat prompt.
type Topic struct {
	Name    string
	Heading string
	Data    map[string]any
}

// topicFiles lists the knowledge files in prompt order.
var topicFiles = []struct {
	name    string
	heading string
}{
	{"university_overview", "University Overview"},
	{"academic_programs", "Academic Programs and Schools"},
	{"campus_facilities", "Campus Facilities and Infrastructure"},
	{"student_services", "Student Support Services and Contacts"},
	{"events_clubs", "Events, Clubs and Sports"},
	{"anti_ragging", "Anti-Ragging Handbook (key points)"},
	{"holidays_2025", "Holiday List 2025"},
	{"departmental_contacts", "Departmental Contacts & HODs"},
	{"hostel_rules", "Hostel Rules, Curfew & Leave"},
	{"amenities", "Canteen Hours & Healthcare"},
	{"fees_btech_cse", "B.Tech CSE Fees Breakdown"},
	{"policies", "General Policies (Academic, Conduct, Hostel, Facilities, Transport, Safety, Fees, Forms, Support, Discipline)"},
}

var knowledgeExtensions = []string{".json", ".yaml", ".yml"}

// Knowledge is the read-only campus knowledge base.
type Knowledge struct {
	Timetable Timetable
	Topics    []Topic
	// Sources maps each loaded file stem to the path it came from.
	Sources map[string]string
}

// LoadFromConfig probes the configured knowledge search paths, then the
// working directory and executable directory.
func LoadFromConfig(cfg *config.Config, logger *slog.Logger) *Knowledge {
	dirs := cfg.Knowledge.SearchPaths
	probe := make([]string, 0, len(dirs)*2)
	for _, dir := range config.CandidateDirs(dirs) {
		probe = append(probe, dir, filepath.Join(dir, "data"))
	}
	return Load(probe, logger)
}

// Load reads the timetable and topic files from the first directory holding
// each. Missing or malformed files fall back to defaults; Load never fails.
func Load(dirs []string, logger *slog.Logger) *Knowledge {
	logger = logging.NewComponentLogger(logger, "campus")
	kb := &Knowledge{Timetable: DefaultTimetable(), Sources: map[string]string{}}

	var tt Timetable
	switch path, err := decodeFirst("timetable", dirs, &tt); {
	case err == nil:
		if tt.WeeklySchedule == nil {
			tt.WeeklySchedule = WeeklySchedule{}
		}
		kb.Timetable = tt
		kb.Sources["timetable"] = path
	case errors.Is(err, os.ErrNotExist):
		logger.Info("timetable not found; using empty schedule")
	default:
		logging.WarnWithContext(logger, "timetable unreadable; using empty schedule", "knowledge_load_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "timetable lookups return no classes"),
		)
	}

	for _, tf := range topicFiles {
		data := map[string]any{}
		path, err := decodeFirst(tf.name, dirs, &data)
		switch {
		case err == nil:
			kb.Sources[tf.name] = path
		case errors.Is(err, os.ErrNotExist):
			data = map[string]any{}
		default:
			logging.WarnWithContext(logger, "knowledge file unreadable", "knowledge_load_failed",
				logging.String("topic", tf.name),
				logging.Error(err),
				logging.String(logging.FieldImpact, "topic omitted from chat context"),
			)
			data = map[string]any{}
		}
		kb.Topics = append(kb.Topics, Topic{Name: tf.name, Heading: tf.heading, Data: data})
	}
	logger.Info("knowledge base loaded",
		logging.Int("files", len(kb.Sources)),
		logging.Int("days", len(kb.Timetable.WeeklySchedule)),
		logging.Int("subjects", len(kb.Timetable.Subjects)),
	)
	return kb
}

// decodeFirst resolves stem with each supported extension and decodes the
// first hit.
func decodeFirst(stem string, dirs []string, target any) (string, error) {
	for _, ext := range knowledgeExtensions {
		path, err := config.ResolveCandidate(stem+ext, dirs)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return path, fmt.Errorf("read %s: %w", path, err)
		}
		if ext == ".json" {
			err = json.Unmarshal(data, target)
		} else {
			err = yaml.Unmarshal(data, target)
		}
		if err != nil {
			return path, fmt.Errorf("decode %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("knowledge file %s: %w", stem, os.ErrNotExist)
}

// Topic returns the topic named name.
func (k *Knowledge) Topic(name string) (Topic, bool) {
	for _, t := range k.Topics {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Topic{}, false
}
