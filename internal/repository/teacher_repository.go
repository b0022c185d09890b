package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-portal-api/internal/models"
)

const teacherColumns = "id, full_name, email, password_hash, reset_token, reset_expires"

// TeacherRepository manages teacher accounts and their password reset state.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, "SELECT "+teacherColumns+" FROM teachers WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByEmail fetches a teacher by login email.
func (r *TeacherRepository) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, "SELECT "+teacherColumns+" FROM teachers WHERE LOWER(email) = LOWER($1)", email); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByResetToken fetches the teacher holding token. Expiry is checked by the caller.
func (r *TeacherRepository) FindByResetToken(ctx context.Context, token string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, "SELECT "+teacherColumns+" FROM teachers WHERE reset_token = $1", token); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// SetResetToken stores a reset token and its expiry.
func (r *TeacherRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE teachers SET reset_token = $1, reset_expires = $2 WHERE id = $3", token, expires, id); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// UpdatePassword stores a new credential hash and clears any pending reset token.
func (r *TeacherRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	const query = "UPDATE teachers SET password_hash = $1, reset_token = NULL, reset_expires = NULL WHERE id = $2"
	if _, err := r.db.ExecContext(ctx, query, hash, id); err != nil {
		return fmt.Errorf("update teacher password: %w", err)
	}
	return nil
}
