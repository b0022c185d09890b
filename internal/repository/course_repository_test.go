package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
)

var courseCols = []string{"id", "course_code", "course_name", "instructor", "schedule", "credits", "description", "created_at"}

func TestCourseRepositoryListCatalogFlagsEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows(append(append([]string{}, courseCols...), "enrolled")).
		AddRow("c-1", "CS101", "Algorithms", "Grace", "Mon/Wed 10:00-11:30", 3, "", time.Now(), true).
		AddRow("c-2", "CS202", "Compilers", "Grace", nil, nil, "", time.Now(), false)
	mock.ExpectQuery(regexp.QuoteMeta("AS enrolled\n        FROM courses c ORDER BY c.course_name")).
		WithArgs("stu-1").
		WillReturnRows(rows)

	courses, err := repo.ListCatalog(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.True(t, courses[0].Enrolled)
	assert.False(t, courses[1].Enrolled)
	assert.Nil(t, courses[1].Schedule)
	assert.Equal(t, 0, courses[1].CreditsOrZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryIsTaughtBy(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM teacher_courses WHERE course_id = $1 AND teacher_id = $2)")).
		WithArgs("c-1", "t-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsTaughtBy(context.Background(), "c-1", "t-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateForTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO courses").WithArgs(anyArgs(8)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_courses (teacher_id, course_id) VALUES ($1, $2)")).
		WithArgs("t-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	course := &models.Course{CourseCode: "CS101", CourseName: "Algorithms", Instructor: "Grace"}
	require.NoError(t, repo.CreateForTeacher(context.Background(), course, "t-1"))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateForTeacherRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO courses").WithArgs(anyArgs(8)...).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_courses").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.CreateForTeacher(context.Background(), &models.Course{CourseCode: "CS101"}, "t-1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades WHERE course_id = $1")).WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_courses WHERE course_id = $1")).WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_courses WHERE course_id = $1")).WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET").WithArgs(anyArgs(7)...).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Course{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListRoster(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	enrolled := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE sc.course_id = $1 ORDER BY s.full_name")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "enrollment_date"}).
			AddRow("stu-1", "Ada", "ada@example.com", "123", enrolled))

	roster, err := repo.ListRoster(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, enrolled, roster[0].EnrollmentDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListStudentCoursesForTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE sc.student_id = $1 AND tc.teacher_id = $2")).
		WithArgs("stu-1", "t-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_code", "course_name", "credits", "grade"}).
			AddRow("c-1", "CS101", "Algorithms", 4, "A").
			AddRow("c-2", "CS202", "Compilers", nil, nil))

	courses, err := repo.ListStudentCoursesForTeacher(context.Background(), "t-1", "stu-1")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	require.NotNil(t, courses[0].Grade)
	assert.Equal(t, "A", *courses[0].Grade)
	assert.Nil(t, courses[1].Grade)
	assert.Nil(t, courses[1].Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
