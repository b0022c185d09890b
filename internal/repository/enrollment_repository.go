package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// EnrollmentRepository manages the student_courses link table.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll inserts the (student, course) pair. A duplicate pair surfaces as the
// driver's unique violation.
func (r *EnrollmentRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	const query = `INSERT INTO student_courses (student_id, course_id, enrollment_date) VALUES (:student_id, :course_id, :enrollment_date)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}

// Withdraw removes the pair. Withdrawing a course the student is not enrolled in is a no-op.
func (r *EnrollmentRepository) Withdraw(ctx context.Context, studentID, courseID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM student_courses WHERE student_id = $1 AND course_id = $2", studentID, courseID); err != nil {
		return fmt.Errorf("withdraw student: %w", err)
	}
	return nil
}

// ListCoursesByStudent returns the courses a student is enrolled in.
func (r *EnrollmentRepository) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	query := "SELECT " + courseColumns + ` FROM courses c
        JOIN student_courses sc ON sc.course_id = c.id
        WHERE sc.student_id = $1 ORDER BY c.course_name`
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	return courses, nil
}

// ListScheduledCourses returns the student's courses ordered by weekday prefix
// then schedule text. Courses without a recognizable prefix sort last.
func (r *EnrollmentRepository) ListScheduledCourses(ctx context.Context, studentID string) ([]models.ScheduledCourseRow, error) {
	const query = `SELECT c.id, c.course_code, c.course_name, c.schedule
        FROM courses c
        JOIN student_courses sc ON sc.course_id = c.id
        WHERE sc.student_id = $1
        ORDER BY
            CASE
                WHEN c.schedule LIKE 'Mon%' THEN 1
                WHEN c.schedule LIKE 'Tue%' THEN 2
                WHEN c.schedule LIKE 'Wed%' THEN 3
                WHEN c.schedule LIKE 'Thu%' THEN 4
                WHEN c.schedule LIKE 'Fri%' THEN 5
                WHEN c.schedule LIKE 'Sat%' THEN 6
                WHEN c.schedule LIKE 'Sun%' THEN 7
                ELSE 8
            END,
            COALESCE(c.schedule, ''), c.course_code`
	rows := make([]models.ScheduledCourseRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list scheduled courses: %w", err)
	}
	return rows, nil
}

// CountByStudent returns the number of courses the student is enrolled in.
func (r *EnrollmentRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM student_courses WHERE student_id = $1", studentID); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}
