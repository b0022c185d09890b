package academic

import "strings"

// TimeTBD is displayed when a schedule string carries no time range.
const TimeTBD = "Time TBD"

// Weekdays is the canonical display order of day codes.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ScheduledCourse is an enrolled course with its free-text schedule.
type ScheduledCourse struct {
	ID         string  `json:"id"`
	CourseCode string  `json:"course_code"`
	CourseName string  `json:"course_name"`
	Schedule   *string `json:"schedule,omitempty"`
}

// ScheduleEntry is a course placed on a day.
type ScheduleEntry struct {
	ID         string `json:"id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	Schedule   string `json:"schedule"`
	Time       string `json:"time"`
}

// DayGroup lists the courses meeting on a day code.
type DayGroup struct {
	Day     string          `json:"day"`
	Courses []ScheduleEntry `json:"courses"`
}

// WeeklySchedule is the grouped view of a student's courses.
type WeeklySchedule struct {
	Days        []DayGroup        `json:"days"`
	Unscheduled []ScheduledCourse `json:"unscheduled"`
}

// ByDay returns the groups keyed by day code.
func (w WeeklySchedule) ByDay() map[string][]ScheduleEntry {
	out := make(map[string][]ScheduleEntry, len(w.Days))
	for _, g := range w.Days {
		out[g.Day] = g.Courses
	}
	return out
}

// ParseSchedule splits a schedule such as "Mon/Wed 10:00-11:30" into its day
// codes and time range. The first field is split on '/' and '-'; unknown day
// codes are returned unchanged. A first field made only of separators is
// returned whole as the day code. A missing time range yields TimeTBD.
func ParseSchedule(raw string) ([]string, string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, TimeTBD
	}
	days := strings.FieldsFunc(fields[0], func(r rune) bool {
		return r == '/' || r == '-'
	})
	if len(days) == 0 {
		days = []string{fields[0]}
	}
	timeRange := TimeTBD
	if len(fields) > 1 {
		timeRange = fields[1]
	}
	return days, timeRange
}

// GroupSchedule groups courses by day code. Courses with a blank schedule go
// to Unscheduled. Canonical days come first in Weekdays order, unknown codes
// follow in the order they were first seen. Within a day, courses keep the
// input order. A course naming the same day twice is listed under it once.
func GroupSchedule(courses []ScheduledCourse) WeeklySchedule {
	groups := make(map[string][]ScheduleEntry)
	var unknown []string
	out := WeeklySchedule{Days: make([]DayGroup, 0), Unscheduled: make([]ScheduledCourse, 0)}

	for _, c := range courses {
		if c.Schedule == nil || strings.TrimSpace(*c.Schedule) == "" {
			out.Unscheduled = append(out.Unscheduled, c)
			continue
		}
		days, timeRange := ParseSchedule(*c.Schedule)
		entry := ScheduleEntry{
			ID:         c.ID,
			CourseCode: c.CourseCode,
			CourseName: c.CourseName,
			Schedule:   *c.Schedule,
			Time:       timeRange,
		}
		seen := make(map[string]struct{}, len(days))
		for _, day := range days {
			if _, dup := seen[day]; dup {
				continue
			}
			seen[day] = struct{}{}
			if _, exists := groups[day]; !exists && !isWeekday(day) {
				unknown = append(unknown, day)
			}
			groups[day] = append(groups[day], entry)
		}
	}

	for _, day := range Weekdays {
		if list, ok := groups[day]; ok {
			out.Days = append(out.Days, DayGroup{Day: day, Courses: list})
		}
	}
	for _, day := range unknown {
		out.Days = append(out.Days, DayGroup{Day: day, Courses: groups[day]})
	}
	return out
}

func isWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
