package service

import (
	"context"

	"github.com/noah-isme/student-portal-api/internal/academic"
	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type scheduledCourseLister interface {
	ListScheduledCourses(ctx context.Context, studentID string) ([]models.ScheduledCourseRow, error)
}

// ScheduleService builds a student's weekly timetable.
type ScheduleService struct {
	repo scheduledCourseLister
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduledCourseLister) *ScheduleService {
	return &ScheduleService{repo: repo}
}

// Weekly groups the student's enrolled courses by meeting day.
func (s *ScheduleService) Weekly(ctx context.Context, studentID string) (academic.WeeklySchedule, error) {
	rows, err := s.repo.ListScheduledCourses(ctx, studentID)
	if err != nil {
		return academic.WeeklySchedule{}, appErrors.Internal(err, "failed to load schedule")
	}
	courses := make([]academic.ScheduledCourse, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, academic.ScheduledCourse{
			ID:         r.ID,
			CourseCode: r.CourseCode,
			CourseName: r.CourseName,
			Schedule:   r.Schedule,
		})
	}
	return academic.GroupSchedule(courses), nil
}
