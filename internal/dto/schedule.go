package dto

import "github.com/noah-isme/student-portal-api/internal/academic"

// ScheduleResponse is the GET /student/schedule payload.
type ScheduleResponse struct {
	Days        []academic.DayGroup                 `json:"days"`
	ByDay       map[string][]academic.ScheduleEntry `json:"by_day"`
	Unscheduled []academic.ScheduledCourse          `json:"unscheduled"`
}

// NewScheduleResponse wraps a grouped schedule with a day keyed lookup.
func NewScheduleResponse(w academic.WeeklySchedule) ScheduleResponse {
	return ScheduleResponse{Days: w.Days, ByDay: w.ByDay(), Unscheduled: w.Unscheduled}
}
