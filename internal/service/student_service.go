package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/database"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) ([]string, error)
}

type fileRemover interface {
	Delete(name string) error
}

// StudentService handles student profiles and teacher-side student management.
type StudentService struct {
	repo      studentRepository
	files     fileRemover
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, files fileRemover, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, files: files, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	return student, nil
}

// UpdateProfile applies a student's own profile edits. Email is not editable here.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID string, req models.UpdateProfileRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid profile payload")
	}
	gender, birthDate, err := parseProfileFields(req.Gender, req.BirthDate)
	if err != nil {
		return nil, err
	}
	student, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	student.FullName = strings.TrimSpace(req.FullName)
	student.Phone = req.Phone
	student.Address = req.Address
	student.Course = req.Course
	student.Gender = gender
	student.BirthDate = birthDate
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to update profile")
	}
	return student, nil
}

// Create provisions a student account on behalf of a teacher.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	gender, birthDate, err := parseProfileFields(req.Gender, req.BirthDate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}
	student := &models.Student{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Address:      req.Address,
		Course:       req.Course,
		Gender:       gender,
		BirthDate:    birthDate,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrEmailTaken, "email is already registered")
		}
		return nil, appErrors.Internal(err, "failed to create student")
	}
	return student, nil
}

// Update edits a student record on behalf of a teacher.
func (s *StudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid student payload")
	}
	gender, birthDate, err := parseProfileFields(req.Gender, req.BirthDate)
	if err != nil {
		return nil, err
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}
	student.FullName = strings.TrimSpace(req.FullName)
	student.Email = strings.TrimSpace(req.Email)
	student.Phone = req.Phone
	student.Address = req.Address
	student.Course = req.Course
	student.Gender = gender
	student.BirthDate = birthDate
	if err := s.repo.Update(ctx, student); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrEmailTaken, "email is already registered")
		}
		return nil, appErrors.Internal(err, "failed to update student")
	}
	return student, nil
}

// Delete removes a student with all dependent rows, then their stored files.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	files, err := s.repo.Delete(ctx, id)
	if err != nil {
		return notFoundOr(err, "student not found", "failed to delete student")
	}
	if s.files != nil {
		for _, name := range files {
			if err := s.files.Delete(name); err != nil {
				s.logger.Warn("failed to remove student document", zap.String("student_id", id), zap.String("file", name), zap.Error(err))
			}
		}
	}
	s.logger.Info("student deleted", zap.String("student_id", id), zap.Int("documents", len(files)))
	return nil
}

func (s *StudentService) ensureEmailFree(ctx context.Context, email, excludeID string) error {
	exists, err := s.repo.ExistsByEmail(ctx, strings.TrimSpace(email), excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to validate email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrEmailTaken, "email is already registered")
	}
	return nil
}
