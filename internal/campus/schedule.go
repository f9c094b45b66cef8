package campus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Class is one timetable slot.
type Class struct {
	Time       string `json:"time" yaml:"time"`
	Subject    string `json:"subject" yaml:"subject"`
	Code       string `json:"code" yaml:"code"`
	Instructor string `json:"instructor" yaml:"instructor"`
	Room       string `json:"room" yaml:"room"`
}

// Subject is one course in the timetable.
type Subject struct {
	Name       string `json:"name" yaml:"name"`
	Code       string `json:"code" yaml:"code"`
	Instructor string `json:"instructor" yaml:"instructor"`
	Type       string `json:"type" yaml:"type"`
}

// Day is a named day and its classes.
type Day struct {
	Name    string
	Classes []Class
}

// WeeklySchedule keeps days in file order, which is the order listed in
// "not found" replies.
type WeeklySchedule []Day

// UnmarshalJSON decodes an object of day -> classes without losing key order.
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*w = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("weeklySchedule: expected object")
	}
	var days WeeklySchedule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("weeklySchedule: unexpected key %v", keyTok)
		}
		var classes []Class
		if err := dec.Decode(&classes); err != nil {
			return fmt.Errorf("weeklySchedule %s: %w", name, err)
		}
		days = append(days, Day{Name: name, Classes: classes})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*w = days
	return nil
}

// MarshalJSON writes the schedule back as an ordered object.
func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(day.Name)
		if err != nil {
			return nil, err
		}
		classes := day.Classes
		if classes == nil {
			classes = []Class{}
		}
		value, err := json.Marshal(classes)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a mapping of day -> classes in document order.
func (w *WeeklySchedule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("weeklySchedule: expected mapping at line %d", node.Line)
	}
	days := make(WeeklySchedule, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var classes []Class
		if err := node.Content[i+1].Decode(&classes); err != nil {
			return fmt.Errorf("weeklySchedule %s: %w", node.Content[i].Value, err)
		}
		days = append(days, Day{Name: node.Content[i].Value, Classes: classes})
	}
	*w = days
	return nil
}

// Names lists day names in order.
func (w WeeklySchedule) Names() []string {
	names := make([]string, len(w))
	for i, day := range w {
		names[i] = day.Name
	}
	return names
}

// Timetable is the section timetable the assistant answers from.
type Timetable struct {
	Semester       string         `json:"semester" yaml:"semester"`
	Section        string         `json:"section" yaml:"section"`
	Program        string         `json:"program" yaml:"program"`
	WeeklySchedule WeeklySchedule `json:"weeklySchedule" yaml:"weeklySchedule"`
	Subjects       []Subject      `json:"subjects" yaml:"subjects"`
}

// DefaultTimetable is used when no timetable file is found.
func DefaultTimetable() Timetable {
	return Timetable{
		Semester:       "3",
		Section:        "J",
		Program:        "B.Tech CSE",
		WeeklySchedule: WeeklySchedule{},
		Subjects:       []Subject{},
	}
}
