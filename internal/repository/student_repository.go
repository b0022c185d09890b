package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-portal-api/internal/models"
)

const studentColumns = "id, full_name, email, password_hash, phone, address, course, gender, birth_date, registration_date"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students whose name, email or program matches the search term.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students"
	var args []interface{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		base += " WHERE full_name ILIKE $1 OR email ILIKE $1 OR course ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY full_name LIMIT %d OFFSET %d", studentColumns, base, size, offset)
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, "SELECT "+studentColumns+" FROM students WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail fetches a student by login email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, "SELECT "+studentColumns+" FROM students WHERE LOWER(email) = LOWER($1)", email); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks if another student already uses email, optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM students WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query+")", args...); err != nil {
		return false, fmt.Errorf("check student email: %w", err)
	}
	return exists, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.RegistrationDate.IsZero() {
		student.RegistrationDate = time.Now().UTC()
	}
	const query = `INSERT INTO students (id, full_name, email, password_hash, phone, address, course, gender, birth_date, registration_date)
        VALUES (:id, :full_name, :email, :password_hash, :phone, :address, :course, :gender, :birth_date, :registration_date)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies the editable profile fields of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET full_name = :full_name, email = :email, phone = :phone, address = :address, course = :course, gender = :gender, birth_date = :birth_date WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// UpdatePassword stores a new credential hash.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE students SET password_hash = $1 WHERE id = $2", hash, id); err != nil {
		return fmt.Errorf("update student password: %w", err)
	}
	return nil
}

// Delete removes a student together with their enrollments, grades and
// document rows. It returns the stored file names of the removed documents so
// the caller can clean up storage after the commit.
func (r *StudentRepository) Delete(ctx context.Context, id string) (files []string, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete student tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	files = make([]string, 0)
	if err = tx.SelectContext(ctx, &files, "SELECT file_name FROM student_documents WHERE student_id = $1", id); err != nil {
		return nil, fmt.Errorf("list student documents: %w", err)
	}
	for _, stmt := range []string{
		"DELETE FROM grades WHERE student_id = $1",
		"DELETE FROM student_courses WHERE student_id = $1",
		"DELETE FROM student_documents WHERE student_id = $1",
	} {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return nil, fmt.Errorf("delete student dependents: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("delete student: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete student: %w", err)
	}
	return files, nil
}
