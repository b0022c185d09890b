package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/database"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type enrollmentRepository interface {
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	Withdraw(ctx context.Context, studentID, courseID string) error
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

type catalogReader interface {
	ListCatalog(ctx context.Context, studentID string) ([]models.CatalogCourse, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService handles the student side of course enrollment.
type EnrollmentService struct {
	repo       enrollmentRepository
	courses    catalogReader
	dashboards dashboardInvalidator
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// NewEnrollmentService constructs EnrollmentService. dashboards may be nil.
func NewEnrollmentService(repo enrollmentRepository, courses catalogReader, dashboards dashboardInvalidator, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:       repo,
		courses:    courses,
		dashboards: dashboards,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Catalog lists every course flagged with the student's enrollment state.
func (s *EnrollmentService) Catalog(ctx context.Context, studentID string) ([]models.CatalogCourse, error) {
	courses, err := s.courses.ListCatalog(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return courses, nil
}

// ListEnrolled returns the courses the student is enrolled in.
func (s *EnrollmentService) ListEnrolled(ctx context.Context, studentID string) ([]models.Course, error) {
	courses, err := s.repo.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrolled courses")
	}
	return courses, nil
}

// Enroll adds the student to a course. A repeated enrollment is rejected by
// the store's unique constraint and reported as ALREADY_ENROLLED.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		s.metrics.RecordEnrollment("enroll", "error")
		return nil, notFoundOr(err, "course not found", "failed to load course")
	}

	enrollment := &models.Enrollment{StudentID: studentID, CourseID: course.ID, EnrollmentDate: s.now().UTC()}
	if err := s.repo.Enroll(ctx, enrollment); err != nil {
		switch {
		case database.IsUniqueViolation(err, ""):
			s.metrics.RecordEnrollment("enroll", "duplicate")
			return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "already enrolled in "+course.CourseCode)
		case database.IsForeignKeyViolation(err):
			s.metrics.RecordEnrollment("enroll", "error")
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.metrics.RecordEnrollment("enroll", "error")
		return nil, appErrors.Internal(err, "failed to enroll")
	}
	s.metrics.RecordEnrollment("enroll", "ok")
	s.invalidate(ctx)
	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.String("course_id", course.ID))
	return enrollment, nil
}

// Withdraw removes the student from a course. Not being enrolled is not an error.
func (s *EnrollmentService) Withdraw(ctx context.Context, studentID, courseID string) error {
	err := s.repo.Withdraw(ctx, studentID, courseID)
	if database.IsInvalidTextRepresentation(err) {
		// No row can carry a malformed id, so there is nothing to withdraw from.
		return nil
	}
	if err != nil {
		s.metrics.RecordEnrollment("withdraw", "error")
		return appErrors.Internal(err, "failed to withdraw")
	}
	s.metrics.RecordEnrollment("withdraw", "ok")
	s.invalidate(ctx)
	return nil
}

// invalidate drops cached teacher counters; several teachers may share a course.
func (s *EnrollmentService) invalidate(ctx context.Context) {
	if s.dashboards != nil {
		s.dashboards.InvalidateAllTeachers(ctx)
	}
}
