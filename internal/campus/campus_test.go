package campus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"orato/internal/logging"
	"orato/internal/services/llm"
)

const timetableJSON = `{
  "semester": "3",
  "section": "J",
  "program": "B.Tech CSE",
  "weeklySchedule": {
    "Tuesday": [
      {"time": "09:00-10:00", "subject": "Data Structures", "code": "CSE201", "instructor": "Dr. Rao", "room": "UB-V 301"},
      {"time": "10:00-11:00", "subject": "Discrete Mathematics", "code": "MAT203", "instructor": "Dr. Iyer", "room": "UB-VI 105"}
    ],
    "Monday": [
      {"time": "11:00-12:00", "subject": "Data Structures", "code": "CSE201", "instructor": "Dr. Rao", "room": "UB-V 302"}
    ],
    "Saturday": []
  },
  "subjects": [
    {"name": "Data Structures", "code": "CSE201", "instructor": "Dr. Rao", "type": "Theory"},
    {"name": "Discrete Mathematics", "code": "MAT203", "instructor": "Dr. Iyer", "type": "Theory"},
    {"name": "Ethics", "code": "HUM101", "instructor": "Ms. Sen", "type": "Elective"}
  ]
}`

func writeKnowledge(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func loadTest(t *testing.T) *Knowledge {
	t.Helper()
	dir := writeKnowledge(t, map[string]string{
		"timetable.json":   timetableJSON,
		"hostel_rules.yml": "curfew: \"22:00\"\nleave:\n  form: online\n",
		"amenities.json":   `{"canteen": "8am-9pm"}`,
	})
	return Load([]string{dir}, logging.NewNop())
}

func TestWeeklyScheduleKeepsFileOrder(t *testing.T) {
	kb := loadTest(t)
	want := []string{"Tuesday", "Monday", "Saturday"}
	if got := kb.Timetable.WeeklySchedule.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("day order = %v, want %v", got, want)
	}
	encoded, err := json.Marshal(kb.Timetable.WeeklySchedule)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.HasPrefix(string(encoded), `{"Tuesday":[`) || !strings.Contains(string(encoded), `"Saturday":[]`) {
		t.Fatalf("unexpected encoding %s", encoded)
	}
}

func TestWeeklyScheduleYAML(t *testing.T) {
	dir := writeKnowledge(t, map[string]string{
		"timetable.yaml": "semester: \"5\"\nweeklySchedule:\n  Friday:\n    - time: \"14:00\"\n      subject: Networks\n      code: CSE305\n      instructor: Dr. Das\n      room: UB-III 12\n  Wednesday: []\nsubjects: []\n",
	})
	kb := Load([]string{dir}, logging.NewNop())
	if got := kb.Timetable.WeeklySchedule.Names(); !reflect.DeepEqual(got, []string{"Friday", "Wednesday"}) {
		t.Fatalf("unexpected days %v", got)
	}
	if kb.Timetable.Semester != "5" || kb.Timetable.WeeklySchedule[0].Classes[0].Room != "UB-III 12" {
		t.Fatalf("unexpected timetable %+v", kb.Timetable)
	}
}

func TestLoadFallbacks(t *testing.T) {
	dir := writeKnowledge(t, map[string]string{
		"timetable.json": `{"weeklySchedule": [1, 2]}`,
		"policies.json":  `{not json`,
	})
	kb := Load([]string{dir}, logging.NewNop())
	if !reflect.DeepEqual(kb.Timetable, DefaultTimetable()) {
		t.Fatalf("expected default timetable, got %+v", kb.Timetable)
	}
	if len(kb.Topics) != 12 {
		t.Fatalf("expected 12 topics, got %d", len(kb.Topics))
	}
	policies, ok := kb.Topic("policies")
	if !ok || len(policies.Data) != 0 {
		t.Fatalf("expected empty policies topic, got %+v", policies)
	}
	if len(kb.Sources) != 0 {
		t.Fatalf("expected no sources, got %v", kb.Sources)
	}
}

func TestLoadTopics(t *testing.T) {
	kb := loadTest(t)
	hostel, _ := kb.Topic("hostel_rules")
	if hostel.Data["curfew"] != "22:00" {
		t.Fatalf("expected yaml topic to load, got %v", hostel.Data)
	}
	amenities, _ := kb.Topic("amenities")
	if amenities.Heading != "Canteen Hours & Healthcare" || amenities.Data["canteen"] != "8am-9pm" {
		t.Fatalf("unexpected amenities topic %+v", amenities)
	}
}

func TestTimetableForDay(t *testing.T) {
	kb := loadTest(t)
	want := "📅 **Monday Schedule:**\n\n" +
		"🕐 **11:00-12:00**\n📚 Data Structures (CSE201)\n👨‍🏫 Dr. Rao\n🏢 UB-V 302\n\n"
	if got := kb.TimetableForDay("  MONDAY "); got != want {
		t.Fatalf("TimetableForDay =\n%q\nwant\n%q", got, want)
	}
	if got := kb.TimetableForDay("saturday"); got != "No classes scheduled for Saturday." {
		t.Fatalf("unexpected empty-day reply %q", got)
	}
	if got := kb.TimetableForDay("Funday"); got != "Day 'Funday' not found. Available days: Tuesday, Monday, Saturday" {
		t.Fatalf("unexpected not-found reply %q", got)
	}
}

func TestSubjectInfo(t *testing.T) {
	kb := loadTest(t)
	want := "📚 **Data Structures (CSE201)**\n👨‍🏫 Instructor: Dr. Rao\n📖 Type: Theory\n\n" +
		"📅 **Schedule:**\n• Tuesday: 09:00-10:00 - UB-V 301\n• Monday: 11:00-12:00 - UB-V 302"
	if got := kb.SubjectInfo("cse201"); got != want {
		t.Fatalf("SubjectInfo =\n%q\nwant\n%q", got, want)
	}
	if got := kb.SubjectInfo("ethics"); !strings.HasSuffix(got, "📅 Schedule information not available.") {
		t.Fatalf("expected missing schedule note, got %q", got)
	}
	want = "Subject 'Physics' not found. Available subjects: Data Structures, Discrete Mathematics, Ethics"
	if got := kb.SubjectInfo("Physics"); got != want {
		t.Fatalf("unexpected not-found reply %q", got)
	}
}

func TestRoomInfo(t *testing.T) {
	kb := loadTest(t)
	want := "🏢 **Room Information for 'ub-v 30':**\n\n" +
		"📅 Tuesday - 09:00-10:00\n📚 Data Structures\n🏢 UB-V 301\n\n" +
		"📅 Monday - 11:00-12:00\n📚 Data Structures\n🏢 UB-V 302\n\n"
	if got := kb.RoomInfo("ub-v 30"); got != want {
		t.Fatalf("RoomInfo =\n%q\nwant\n%q", got, want)
	}
	if got := kb.RoomInfo("LAB-9"); !strings.HasPrefix(got, "No information found for room 'LAB-9'.") {
		t.Fatalf("unexpected not-found reply %q", got)
	}
}

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) CompleteText(_ context.Context, _, userPrompt string) (string, error) {
	f.prompt = userPrompt
	return f.reply, f.err
}

func TestSystemPromptEmbedsKnowledge(t *testing.T) {
	prompt := SystemPrompt(loadTest(t))
	for _, want := range []string{
		"You are Campus-AI",
		`"weeklySchedule": {`,
		"- University Overview:\n{}",
		"- Hostel Rules, Curfew & Leave:\n{\n  \"curfew\": \"22:00\"",
		"- B.Tech CSE Fees Breakdown:",
		"Remember: You're here to make campus life smarter and more efficient for students!",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestChat(t *testing.T) {
	fake := &fakeCompleter{reply: "  Your first class is at 9.  "}
	bot := NewChatbot(loadTest(t), fake, logging.NewNop())

	if got := bot.Chat(context.Background(), "When is my first class?"); got != "Your first class is at 9." {
		t.Fatalf("unexpected reply %q", got)
	}
	if !strings.HasSuffix(fake.prompt, "\n\nStudent: When is my first class?\n\nCampus-AI:") {
		t.Fatalf("unexpected prompt tail %q", fake.prompt[len(fake.prompt)-60:])
	}

	fake.err = fmt.Errorf("llm text: %w", llm.ErrEmptyContent)
	if got := bot.Chat(context.Background(), "hi"); got != EmptyReply {
		t.Fatalf("expected apology for empty content, got %q", got)
	}

	fake.err = errors.New("http 401")
	want := "I'm experiencing technical difficulties. Error: http 401. Please try again later."
	if got := bot.Chat(context.Background(), "hi"); got != want {
		t.Fatalf("unexpected error reply %q", got)
	}
}

func TestRenderHTML(t *testing.T) {
	got := RenderHTML("**Monday**\n\n- DSA")
	if !strings.Contains(got, "<strong>Monday</strong>") || !strings.Contains(got, "<li>DSA</li>") {
		t.Fatalf("unexpected html %q", got)
	}
}
