package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/academic"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/database"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	IsTaughtBy(ctx context.Context, courseID, teacherID string) (bool, error)
	CreateForTeacher(ctx context.Context, course *models.Course, teacherID string) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	ListRoster(ctx context.Context, courseID string) ([]models.RosterEntry, error)
	ListStudentCoursesForTeacher(ctx context.Context, teacherID, studentID string) ([]models.TeacherStudentCourse, error)
}

type teacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// courseOwnership is shared with GradeService.
type courseOwnership interface {
	IsTaughtBy(ctx context.Context, courseID, teacherID string) (bool, error)
}

// CourseService manages the courses a teacher owns.
type CourseService struct {
	repo       courseRepository
	teachers   teacherLookup
	students   studentLookup
	dashboards dashboardInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCourseService constructs CourseService. dashboards may be nil.
func NewCourseService(repo courseRepository, teachers teacherLookup, students studentLookup, dashboards dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		repo:       repo,
		teachers:   teachers,
		students:   students,
		dashboards: dashboards,
		validator:  validate,
		logger:     logger,
	}
}

// ListOwn returns the courses linked to the teacher.
func (s *CourseService) ListOwn(ctx context.Context, teacherID string) ([]models.Course, error) {
	courses, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, nil
}

// Create inserts a course taught by the teacher. The instructor is the teacher's name.
func (s *CourseService) Create(ctx context.Context, teacherID string, req models.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		return nil, notFoundOr(err, "teacher not found", "failed to load teacher")
	}
	course := applyCourseRequest(&models.Course{Instructor: teacher.FullName}, req)
	if err := s.repo.CreateForTeacher(ctx, course, teacherID); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		return nil, appErrors.Internal(err, "failed to create course")
	}
	s.invalidate(ctx, teacherID)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("teacher_id", teacherID))
	return course, nil
}

// Update edits a course the teacher owns.
func (s *CourseService) Update(ctx context.Context, teacherID, courseID string, req models.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid course payload")
	}
	if err := s.EnsureOwner(ctx, teacherID, courseID); err != nil {
		return nil, err
	}
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, notFoundOr(err, "course not found", "failed to load course")
	}
	course = applyCourseRequest(course, req)
	if err := s.repo.Update(ctx, course); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		return nil, notFoundOr(err, "course not found", "failed to update course")
	}
	return course, nil
}

// Delete removes a course the teacher owns along with its links, enrollments and grades.
func (s *CourseService) Delete(ctx context.Context, teacherID, courseID string) error {
	if err := s.EnsureOwner(ctx, teacherID, courseID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, courseID); err != nil {
		return notFoundOr(err, "course not found", "failed to delete course")
	}
	// Enrolled students may also be counted by other teachers.
	if s.dashboards != nil {
		s.dashboards.InvalidateAllTeachers(ctx)
	}
	s.logger.Info("course deleted", zap.String("course_id", courseID), zap.String("teacher_id", teacherID))
	return nil
}

// Roster lists the students enrolled in a course the teacher owns.
func (s *CourseService) Roster(ctx context.Context, teacherID, courseID string) ([]models.RosterEntry, error) {
	if err := s.EnsureOwner(ctx, teacherID, courseID); err != nil {
		return nil, err
	}
	roster, err := s.repo.ListRoster(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list roster")
	}
	return roster, nil
}

// StudentCourses returns the student's courses taught by the teacher and their course GPA.
func (s *CourseService) StudentCourses(ctx context.Context, teacherID, studentID string) (*models.StudentCoursesView, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	courses, err := s.repo.ListStudentCoursesForTeacher(ctx, teacherID, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list student courses")
	}
	graded := make([]academic.GradedCourse, len(courses))
	for i, c := range courses {
		graded[i] = academic.GradedCourse{Credits: c.Credits, Grade: c.Grade}
	}
	return &models.StudentCoursesView{
		Student: *student,
		Courses: courses,
		GPA:     academic.Round2(academic.CourseGPA(graded)),
	}, nil
}

// EnsureOwner returns FORBIDDEN unless the teacher is linked to the course.
func (s *CourseService) EnsureOwner(ctx context.Context, teacherID, courseID string) error {
	return ensureCourseOwner(ctx, s.repo, teacherID, courseID)
}

func ensureCourseOwner(ctx context.Context, repo courseOwnership, teacherID, courseID string) error {
	ok, err := repo.IsTaughtBy(ctx, courseID, teacherID)
	if err != nil {
		return notFoundOr(err, "course not found", "failed to check course ownership")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "course is not taught by this teacher")
	}
	return nil
}

func (s *CourseService) invalidate(ctx context.Context, teacherID string) {
	if s.dashboards != nil {
		s.dashboards.InvalidateTeacher(ctx, teacherID)
	}
}

func applyCourseRequest(course *models.Course, req models.CourseRequest) *models.Course {
	course.CourseCode = strings.TrimSpace(req.CourseCode)
	course.CourseName = strings.TrimSpace(req.CourseName)
	course.Schedule = req.Schedule
	course.Credits = req.Credits
	course.Description = req.Description
	return course
}
