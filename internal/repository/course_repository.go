package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-portal-api/internal/models"
)

const courseColumns = "c.id, c.course_code, c.course_name, c.instructor, c.schedule, c.credits, c.description, c.created_at"

// CourseRepository manages the course catalog and teacher course links.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListCatalog returns every course ordered by name, flagged with the student's enrollment.
func (r *CourseRepository) ListCatalog(ctx context.Context, studentID string) ([]models.CatalogCourse, error) {
	query := "SELECT " + courseColumns + `,
        EXISTS(SELECT 1 FROM student_courses sc WHERE sc.course_id = c.id AND sc.student_id = $1) AS enrolled
        FROM courses c ORDER BY c.course_name`
	courses := make([]models.CatalogCourse, 0)
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, "SELECT "+courseColumns+" FROM courses c WHERE c.id = $1", id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListByTeacher returns the courses linked to a teacher.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	query := "SELECT " + courseColumns + ` FROM courses c
        JOIN teacher_courses tc ON tc.course_id = c.id
        WHERE tc.teacher_id = $1 ORDER BY c.course_code`
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return courses, nil
}

// IsTaughtBy reports whether the teacher is linked to the course.
func (r *CourseRepository) IsTaughtBy(ctx context.Context, courseID, teacherID string) (bool, error) {
	var linked bool
	const query = "SELECT EXISTS(SELECT 1 FROM teacher_courses WHERE course_id = $1 AND teacher_id = $2)"
	if err := r.db.GetContext(ctx, &linked, query, courseID, teacherID); err != nil {
		return false, fmt.Errorf("check teacher course: %w", err)
	}
	return linked, nil
}

// CreateForTeacher inserts a course and links it to the creating teacher.
func (r *CourseRepository) CreateForTeacher(ctx context.Context, course *models.Course, teacherID string) (err error) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create course tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertCourse = `INSERT INTO courses (id, course_code, course_name, instructor, schedule, credits, description, created_at)
        VALUES (:id, :course_code, :course_name, :instructor, :schedule, :credits, :description, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertCourse, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "INSERT INTO teacher_courses (teacher_id, course_id) VALUES ($1, $2)", teacherID, course.ID); err != nil {
		return fmt.Errorf("link teacher course: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create course: %w", err)
	}
	return nil
}

// Update modifies the editable fields of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET course_code = :course_code, course_name = :course_name, instructor = :instructor,
        schedule = :schedule, credits = :credits, description = :description WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a course with its teacher links, enrollments and grades.
func (r *CourseRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		"DELETE FROM grades WHERE course_id = $1",
		"DELETE FROM student_courses WHERE course_id = $1",
		"DELETE FROM teacher_courses WHERE course_id = $1",
	} {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete course dependents: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete course: %w", err)
	}
	return nil
}

// ListRoster returns the students enrolled in a course with their enrollment date.
func (r *CourseRepository) ListRoster(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	const query = `SELECT s.id, s.full_name, s.email, s.phone, sc.enrollment_date
        FROM students s
        JOIN student_courses sc ON sc.student_id = s.id
        WHERE sc.course_id = $1 ORDER BY s.full_name`
	roster := make([]models.RosterEntry, 0)
	if err := r.db.SelectContext(ctx, &roster, query, courseID); err != nil {
		return nil, fmt.Errorf("list course roster: %w", err)
	}
	return roster, nil
}

// ListStudentCoursesForTeacher returns the student's enrolled courses taught by
// the teacher. A course yields one row per grade recorded for it.
func (r *CourseRepository) ListStudentCoursesForTeacher(ctx context.Context, teacherID, studentID string) ([]models.TeacherStudentCourse, error) {
	const query = `SELECT c.id, c.course_code, c.course_name, c.credits, g.grade
        FROM courses c
        JOIN student_courses sc ON sc.course_id = c.id
        JOIN teacher_courses tc ON tc.course_id = c.id
        LEFT JOIN grades g ON g.course_id = c.id AND g.student_id = $1
        WHERE sc.student_id = $1 AND tc.teacher_id = $2
        ORDER BY c.course_name`
	courses := make([]models.TeacherStudentCourse, 0)
	if err := r.db.SelectContext(ctx, &courses, query, studentID, teacherID); err != nil {
		return nil, fmt.Errorf("list student courses for teacher: %w", err)
	}
	return courses, nil
}
