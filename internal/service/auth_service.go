package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/database"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type authStudentRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type authTeacherRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByResetToken(ctx context.Context, token string) (*models.Teacher, error)
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

// ResetNotifier delivers a freshly issued password reset token to its owner.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, teacher *models.Teacher, token string, expires time.Time) error
}

// LogResetNotifier records reset requests in the log. The token itself is
// only logged when ExposeToken is set, which is meant for development.
type LogResetNotifier struct {
	Logger      *zap.Logger
	ExposeToken bool
}

// NotifyPasswordReset implements ResetNotifier.
func (n LogResetNotifier) NotifyPasswordReset(_ context.Context, teacher *models.Teacher, token string, expires time.Time) error {
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := []zap.Field{zap.String("teacher_id", teacher.ID), zap.Time("expires_at", expires)}
	if n.ExposeToken {
		fields = append(fields, zap.String("reset_token", token))
	}
	logger.Info("password reset issued", fields...)
	return nil
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	ResetTokenTTL     time.Duration
}

// AuthService provides registration, login and credential management for students and teachers.
type AuthService struct {
	students  authStudentRepository
	teachers  authTeacherRepository
	notifier  ResetNotifier
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students authStudentRepository, teachers authTeacherRepository, notifier ResetNotifier, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if notifier == nil {
		notifier = LogResetNotifier{Logger: logger}
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = time.Hour
	}
	return &AuthService{
		students:  students,
		teachers:  teachers,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// RegisterStudent creates a student account from the self-service form.
func (s *AuthService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid registration payload")
	}
	gender, birthDate, err := parseProfileFields(req.Gender, req.BirthDate)
	if err != nil {
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
	if err := s.students.Create(ctx, student); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrEmailTaken, "email is already registered")
		}
		return nil, appErrors.Internal(err, "failed to create student")
	}
	s.logger.Info("student registered", zap.String("student_id", student.ID))
	return student, nil
}

// LoginStudent authenticates a student.
func (s *AuthService) LoginStudent(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid login payload")
	}
	student, err := s.students.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Internal(err, "failed to fetch student")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return s.issue(models.UserInfo{ID: student.ID, Email: student.Email, FullName: student.FullName, Role: models.RoleStudent})
}

// LoginTeacher authenticates a teacher.
func (s *AuthService) LoginTeacher(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid login payload")
	}
	teacher, err := s.teachers.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Internal(err, "failed to fetch teacher")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return s.issue(models.UserInfo{ID: teacher.ID, Email: teacher.Email, FullName: teacher.FullName, Role: models.RoleTeacher})
}

// Me resolves the current principal from storage.
func (s *AuthService) Me(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error) {
	switch claims.Role {
	case models.RoleStudent:
		student, err := s.students.FindByID(ctx, claims.UserID)
		if err != nil {
			return nil, notFoundOr(err, "student not found", "failed to load student")
		}
		return &models.UserInfo{ID: student.ID, Email: student.Email, FullName: student.FullName, Role: models.RoleStudent}, nil
	case models.RoleTeacher:
		teacher, err := s.teachers.FindByID(ctx, claims.UserID)
		if err != nil {
			return nil, notFoundOr(err, "teacher not found", "failed to load teacher")
		}
		return &models.UserInfo{ID: teacher.ID, Email: teacher.Email, FullName: teacher.FullName, Role: models.RoleTeacher}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
}

// ChangePassword changes the password of the authenticated principal.
func (s *AuthService) ChangePassword(ctx context.Context, claims *models.JWTClaims, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid change password payload")
	}

	var (
		currentHash string
		update      func(ctx context.Context, id, hash string) error
	)
	switch claims.Role {
	case models.RoleStudent:
		student, err := s.students.FindByID(ctx, claims.UserID)
		if err != nil {
			return notFoundOr(err, "student not found", "failed to load student")
		}
		currentHash, update = student.PasswordHash, s.students.UpdatePassword
	case models.RoleTeacher:
		teacher, err := s.teachers.FindByID(ctx, claims.UserID)
		if err != nil {
			return notFoundOr(err, "teacher not found", "failed to load teacher")
		}
		currentHash, update = teacher.PasswordHash, s.teachers.UpdatePassword
	default:
		return appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "old password does not match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	if err := update(ctx, claims.UserID, string(hash)); err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	return nil
}

// ForgotPassword issues a single-use reset token for a teacher account.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid forgot password payload")
	}
	teacher, err := s.teachers.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, notFoundOr(err, "no account found with that email address", "failed to fetch teacher")
	}

	token, err := generateResetToken()
	if err != nil {
		return nil, appErrors.Internal(err, "failed to generate reset token")
	}
	expires := s.now().UTC().Add(s.config.ResetTokenTTL)
	if err := s.teachers.SetResetToken(ctx, teacher.ID, token, expires); err != nil {
		return nil, appErrors.Internal(err, "failed to store reset token")
	}
	if err := s.notifier.NotifyPasswordReset(ctx, teacher, token, expires); err != nil {
		s.logger.Warn("failed to deliver reset token", zap.String("teacher_id", teacher.ID), zap.Error(err))
	}
	return &models.ForgotPasswordResponse{
		Message:   "password reset instructions have been sent to your email",
		ExpiresAt: expires,
	}, nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ConfirmResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid reset password payload")
	}
	teacher, err := s.teachers.FindByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrResetTokenInvalid, "")
		}
		return appErrors.Internal(err, "failed to look up reset token")
	}
	if teacher.ResetExpires == nil || s.now().After(*teacher.ResetExpires) {
		return appErrors.Clone(appErrors.ErrResetTokenInvalid, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	if err := s.teachers.UpdatePassword(ctx, teacher.ID, string(hash)); err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	s.logger.Info("teacher password reset", zap.String("teacher_id", teacher.ID))
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Role != models.RoleStudent && claims.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token role")
	}
	return claims, nil
}

func (s *AuthService) issue(user models.UserInfo) (*models.LoginResponse, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Role:     user.Role,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		User:        user,
	}, nil
}

// generateResetToken returns 32 random bytes hex encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
