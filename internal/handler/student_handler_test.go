package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
)

type fakeStudentService struct {
	lastFilter  models.StudentFilter
	lastProfile string
}

func (f *fakeStudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.Student{{ID: "stu-1"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (f *fakeStudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return &models.Student{ID: id}, nil
}

func (f *fakeStudentService) UpdateProfile(ctx context.Context, studentID string, req models.UpdateProfileRequest) (*models.Student, error) {
	f.lastProfile = studentID
	return &models.Student{ID: studentID, FullName: req.FullName}, nil
}

func (f *fakeStudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	return &models.Student{ID: "stu-2", Email: req.Email}, nil
}

func (f *fakeStudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	return &models.Student{ID: id}, nil
}

func (f *fakeStudentService) Delete(ctx context.Context, id string) error {
	return nil
}

func TestStudentHandlerListParsesQuery(t *testing.T) {
	svc := &fakeStudentService{}
	h := NewStudentHandler(svc)
	c, rec := newGinContext(http.MethodGet, "/teacher/students?search=%20ada%20&page=2&limit=5", nil)
	asTeacher(c, "t-1")

	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", svc.lastFilter.Search)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 5, svc.lastFilter.PageSize)
	assert.NotNil(t, decodeEnvelope(t, rec).Pagination)
}

func TestStudentHandlerUpdateProfileUsesPrincipal(t *testing.T) {
	svc := &fakeStudentService{}
	h := NewStudentHandler(svc)
	c, rec := newGinContext(http.MethodPut, "/student/profile", jsonBody(t, map[string]string{"full_name": "Ada L."}))
	asStudent(c, "stu-7")

	h.UpdateProfile(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-7", svc.lastProfile)
}
