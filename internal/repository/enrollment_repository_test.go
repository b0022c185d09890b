package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/database"
)

func TestEnrollmentRepositoryEnroll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO student_courses").
		WithArgs("stu-1", "c-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{StudentID: "stu-1", CourseID: "c-1"}
	require.NoError(t, repo.Enroll(context.Background(), enrollment))
	assert.False(t, enrollment.EnrollmentDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollDuplicateKeepsDriverError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO student_courses").
		WithArgs(anyArgs(3)...).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "student_courses_pkey"})

	err := repo.Enroll(context.Background(), &models.Enrollment{StudentID: "stu-1", CourseID: "c-1"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryWithdrawNotEnrolled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_courses WHERE student_id = $1 AND course_id = $2")).
		WithArgs("stu-1", "c-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Withdraw(context.Background(), "stu-1", "c-9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListScheduledCourses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHEN c.schedule LIKE 'Mon%' THEN 1")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_code", "course_name", "schedule"}).
			AddRow("c-1", "CS101", "Algorithms", "Mon/Wed 10:00-11:30").
			AddRow("c-3", "CS900", "Seminar", nil))

	rows, err := repo.ListScheduledCourses(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Schedule)
	assert.Nil(t, rows[1].Schedule)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCountByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM student_courses WHERE student_id = $1")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
