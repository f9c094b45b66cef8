package campus

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// fold builds a fresh Caser per call; Casers are stateful.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// TimetableForDay formats the classes of day, matched case-insensitively.
func (k *Knowledge) TimetableForDay(day string) string {
	want := fold(day)
	for _, d := range k.Timetable.WeeklySchedule {
		if fold(d.Name) != want {
			continue
		}
		if len(d.Classes) == 0 {
			return fmt.Sprintf("No classes scheduled for %s.", d.Name)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📅 **%s Schedule:**\n\n", d.Name)
		for _, c := range d.Classes {
			fmt.Fprintf(&b, "🕐 **%s**\n", c.Time)
			fmt.Fprintf(&b, "📚 %s (%s)\n", c.Subject, c.Code)
			fmt.Fprintf(&b, "👨‍🏫 %s\n", c.Instructor)
			fmt.Fprintf(&b, "🏢 %s\n\n", c.Room)
		}
		return b.String()
	}
	return fmt.Sprintf("Day '%s' not found. Available days: %s", day, strings.Join(k.Timetable.WeeklySchedule.Names(), ", "))
}

// SubjectInfo describes a subject matched by name or code, with every slot
// it appears in.
func (k *Knowledge) SubjectInfo(query string) string {
	want := fold(query)
	for _, s := range k.Timetable.Subjects {
		if fold(s.Name) != want && fold(s.Code) != want {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "📚 **%s (%s)**\n", s.Name, s.Code)
		fmt.Fprintf(&b, "👨‍🏫 Instructor: %s\n", s.Instructor)
		fmt.Fprintf(&b, "📖 Type: %s\n\n", s.Type)

		var slots []string
		for _, d := range k.Timetable.WeeklySchedule {
			for _, c := range d.Classes {
				if fold(c.Subject) == fold(s.Name) || fold(c.Code) == fold(s.Code) {
					slots = append(slots, fmt.Sprintf("• %s: %s - %s", d.Name, c.Time, c.Room))
				}
			}
		}
		if len(slots) > 0 {
			b.WriteString("📅 **Schedule:**\n" + strings.Join(slots, "\n"))
		} else {
			b.WriteString("📅 Schedule information not available.")
		}
		return b.String()
	}
	names := make([]string, len(k.Timetable.Subjects))
	for i, s := range k.Timetable.Subjects {
		names[i] = s.Name
	}
	return fmt.Sprintf("Subject '%s' not found. Available subjects: %s", query, strings.Join(names, ", "))
}

// RoomInfo lists every slot whose room contains query.
func (k *Knowledge) RoomInfo(query string) string {
	want := fold(query)
	var b strings.Builder
	found := false
	for _, d := range k.Timetable.WeeklySchedule {
		for _, c := range d.Classes {
			if !strings.Contains(fold(c.Room), want) {
				continue
			}
			if !found {
				fmt.Fprintf(&b, "🏢 **Room Information for '%s':**\n\n", query)
				found = true
			}
			fmt.Fprintf(&b, "📅 %s - %s\n", d.Name, c.Time)
			fmt.Fprintf(&b, "📚 %s\n", c.Subject)
			fmt.Fprintf(&b, "🏢 %s\n\n", c.Room)
		}
	}
	if !found {
		return fmt.Sprintf("No information found for room '%s'. Try searching for specific room numbers or building codes (UB-V, UB-VI, UB-III).", query)
	}
	return b.String()
}
