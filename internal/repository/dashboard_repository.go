package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// DashboardRepository computes the counters shown on the teacher dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// TeacherCounts returns the teacher's course count and the distinct students enrolled across them.
func (r *DashboardRepository) TeacherCounts(ctx context.Context, teacherID string) (*models.TeacherDashboard, error) {
	const query = `SELECT
            (SELECT COUNT(*) FROM teacher_courses WHERE teacher_id = $1) AS course_count,
            (SELECT COUNT(DISTINCT sc.student_id)
                FROM student_courses sc
                JOIN teacher_courses tc ON tc.course_id = sc.course_id
                WHERE tc.teacher_id = $1) AS student_count`
	var dash models.TeacherDashboard
	if err := r.db.GetContext(ctx, &dash, query, teacherID); err != nil {
		return nil, fmt.Errorf("teacher dashboard counts: %w", err)
	}
	dash.TeacherID = teacherID
	return &dash, nil
}
