package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type fakeCourseService struct {
	owner   string
	created models.CourseRequest
}

func (f *fakeCourseService) ListOwn(ctx context.Context, teacherID string) ([]models.Course, error) {
	return []models.Course{}, nil
}

func (f *fakeCourseService) Create(ctx context.Context, teacherID string, req models.CourseRequest) (*models.Course, error) {
	f.created = req
	return &models.Course{ID: "c-1", CourseCode: req.CourseCode, CourseName: req.CourseName}, nil
}

func (f *fakeCourseService) Update(ctx context.Context, teacherID, courseID string, req models.CourseRequest) (*models.Course, error) {
	if teacherID != f.owner {
		return nil, appErrors.ErrForbidden
	}
	return &models.Course{ID: courseID, CourseName: req.CourseName}, nil
}

func (f *fakeCourseService) Delete(ctx context.Context, teacherID, courseID string) error {
	if teacherID != f.owner {
		return appErrors.ErrForbidden
	}
	return nil
}

func (f *fakeCourseService) Roster(ctx context.Context, teacherID, courseID string) ([]models.RosterEntry, error) {
	return []models.RosterEntry{{StudentID: "stu-1"}}, nil
}

func (f *fakeCourseService) StudentCourses(ctx context.Context, teacherID, studentID string) (*models.StudentCoursesView, error) {
	return &models.StudentCoursesView{Student: models.Student{ID: studentID}, GPA: 3.14}, nil
}

func TestCourseHandlerCreate(t *testing.T) {
	svc := &fakeCourseService{owner: "t-1"}
	h := NewCourseHandler(svc)
	c, rec := newGinContext(http.MethodPost, "/teacher/courses", jsonBody(t, map[string]interface{}{
		"course_code": "CS101", "course_name": "Algorithms", "credits": 3,
	}))
	asTeacher(c, "t-1")

	h.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created.Credits)
	assert.Equal(t, 3, *svc.created.Credits)
}

func TestCourseHandlerForeignCourseForbidden(t *testing.T) {
	h := NewCourseHandler(&fakeCourseService{owner: "t-2"})

	c, rec := newGinContext(http.MethodPut, "/teacher/courses/c-1", jsonBody(t, map[string]string{"course_code": "CS101", "course_name": "X"}))
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}
	asTeacher(c, "t-1")
	h.Update(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newGinContext(http.MethodDelete, "/teacher/courses/c-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}
	asTeacher(c, "t-1")
	h.Delete(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
