package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/database"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type gradeRepository interface {
	FindByID(ctx context.Context, id string) (*models.GradeRecord, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseGradeRow, error)
	Create(ctx context.Context, grade *models.GradeRecord) error
	Update(ctx context.Context, grade *models.GradeRecord) error
	Delete(ctx context.Context, id string) error
}

// GradeService lets teachers record grades for the courses they teach.
// Grades are not tied to an enrollment row and any letter is stored as
// entered; letters outside the scale simply earn no grade points.
type GradeService struct {
	repo      gradeRepository
	courses   courseOwnership
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(repo gradeRepository, courses courseOwnership, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// ListByCourse returns the grades recorded for a course the teacher owns.
func (s *GradeService) ListByCourse(ctx context.Context, teacherID, courseID string) ([]models.CourseGradeRow, error) {
	if err := ensureCourseOwner(ctx, s.courses, teacherID, courseID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list grades")
	}
	return rows, nil
}

// Create records a grade in a course the teacher owns.
func (s *GradeService) Create(ctx context.Context, teacherID string, req models.CreateGradeRequest) (*models.GradeRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid grade payload")
	}
	if err := ensureCourseOwner(ctx, s.courses, teacherID, req.CourseID); err != nil {
		return nil, err
	}
	grade := &models.GradeRecord{
		StudentID:     req.StudentID,
		CourseID:      req.CourseID,
		Semester:      req.Semester,
		AcademicYear:  strings.TrimSpace(req.AcademicYear),
		Grade:         normalizeGrade(req.Grade),
		CreditsEarned: req.CreditsEarned,
		Remarks:       req.Remarks,
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		switch {
		case database.IsUniqueViolation(err, ""):
			return nil, appErrors.Clone(appErrors.ErrConflict, "grade already recorded for this term")
		case database.IsForeignKeyViolation(err), database.IsInvalidTextRepresentation(err):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to record grade")
	}
	s.logger.Info("grade recorded",
		zap.String("grade_id", grade.ID),
		zap.String("course_id", grade.CourseID),
		zap.String("teacher_id", teacherID),
	)
	return grade, nil
}

// Update edits the grade, credits earned and remarks of a record.
func (s *GradeService) Update(ctx context.Context, teacherID, gradeID string, req models.UpdateGradeRequest) (*models.GradeRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid grade payload")
	}
	grade, err := s.owned(ctx, teacherID, gradeID)
	if err != nil {
		return nil, err
	}
	grade.Grade = normalizeGrade(req.Grade)
	grade.CreditsEarned = req.CreditsEarned
	grade.Remarks = req.Remarks
	if err := s.repo.Update(ctx, grade); err != nil {
		return nil, notFoundOr(err, "grade not found", "failed to update grade")
	}
	return grade, nil
}

// Delete removes a grade record.
func (s *GradeService) Delete(ctx context.Context, teacherID, gradeID string) error {
	if _, err := s.owned(ctx, teacherID, gradeID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, gradeID); err != nil {
		return notFoundOr(err, "grade not found", "failed to delete grade")
	}
	return nil
}

// owned loads a grade and checks the teacher teaches its course.
func (s *GradeService) owned(ctx context.Context, teacherID, gradeID string) (*models.GradeRecord, error) {
	grade, err := s.repo.FindByID(ctx, gradeID)
	if err != nil {
		return nil, notFoundOr(err, "grade not found", "failed to load grade")
	}
	if err := ensureCourseOwner(ctx, s.courses, teacherID, grade.CourseID); err != nil {
		return nil, err
	}
	return grade, nil
}

func normalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}
