package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-portal-api/internal/models"
)

const gradeColumns = "g.id, g.student_id, g.course_id, g.semester, g.academic_year, g.grade, g.credits_earned, g.remarks, g.date_recorded"

// GradeRepository manages grade records.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// FindByID fetches a grade record by ID.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.GradeRecord, error) {
	var grade models.GradeRecord
	if err := r.db.GetContext(ctx, &grade, "SELECT "+gradeColumns+" FROM grades g WHERE g.id = $1", id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// ListByCourse returns every grade of a course with the student names.
func (r *GradeRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseGradeRow, error) {
	query := "SELECT " + gradeColumns + `, s.full_name
        FROM grades g
        JOIN students s ON s.id = g.student_id
        WHERE g.course_id = $1
        ORDER BY s.full_name, g.academic_year, g.semester`
	rows := make([]models.CourseGradeRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list course grades: %w", err)
	}
	return rows, nil
}

// ListTranscript returns a student's grades joined with course metadata in
// transcript order. Missing course credits read as zero.
func (r *GradeRepository) ListTranscript(ctx context.Context, studentID string) ([]models.TranscriptRow, error) {
	const query = `SELECT c.course_code, c.course_name, COALESCE(c.credits, 0) AS credits_possible,
            g.semester, g.academic_year, g.grade, g.credits_earned, g.remarks
        FROM grades g
        JOIN courses c ON c.id = g.course_id
        WHERE g.student_id = $1
        ORDER BY g.academic_year,
            CASE g.semester WHEN 'Fall' THEN 1 WHEN 'Spring' THEN 2 WHEN 'Summer' THEN 3 ELSE 4 END,
            c.course_code`
	rows := make([]models.TranscriptRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list transcript: %w", err)
	}
	return rows, nil
}

// Create inserts a grade record.
func (r *GradeRepository) Create(ctx context.Context, grade *models.GradeRecord) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	if grade.DateRecorded.IsZero() {
		grade.DateRecorded = time.Now().UTC()
	}
	const query = `INSERT INTO grades (id, student_id, course_id, semester, academic_year, grade, credits_earned, remarks, date_recorded)
        VALUES (:id, :student_id, :course_id, :semester, :academic_year, :grade, :credits_earned, :remarks, :date_recorded)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Update modifies the grade, credits earned and remarks of a record.
func (r *GradeRepository) Update(ctx context.Context, grade *models.GradeRecord) error {
	const query = `UPDATE grades SET grade = :grade, credits_earned = :credits_earned, remarks = :remarks WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, grade)
	if err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a grade record.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM grades WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return expectAffected(res)
}
