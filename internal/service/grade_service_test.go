package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type fakeGradeRepo struct {
	grades    map[string]*models.GradeRecord
	createErr error
}

func newFakeGradeRepo(grades ...*models.GradeRecord) *fakeGradeRepo {
	repo := &fakeGradeRepo{grades: map[string]*models.GradeRecord{}}
	for _, g := range grades {
		repo.grades[g.ID] = g
	}
	return repo
}

func (f *fakeGradeRepo) FindByID(ctx context.Context, id string) (*models.GradeRecord, error) {
	g, ok := f.grades[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *g
	return &clone, nil
}

func (f *fakeGradeRepo) ListByCourse(ctx context.Context, courseID string) ([]models.CourseGradeRow, error) {
	var rows []models.CourseGradeRow
	for _, g := range f.grades {
		if g.CourseID == courseID {
			rows = append(rows, models.CourseGradeRow{GradeRecord: *g})
		}
	}
	return rows, nil
}

func (f *fakeGradeRepo) Create(ctx context.Context, grade *models.GradeRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	grade.ID = "g-new"
	f.grades[grade.ID] = grade
	return nil
}

func (f *fakeGradeRepo) Update(ctx context.Context, grade *models.GradeRecord) error {
	f.grades[grade.ID] = grade
	return nil
}

func (f *fakeGradeRepo) Delete(ctx context.Context, id string) error {
	delete(f.grades, id)
	return nil
}

type staticOwnership map[string]string

func (o staticOwnership) IsTaughtBy(ctx context.Context, courseID, teacherID string) (bool, error) {
	return o[courseID] == teacherID, nil
}

func validGradeRequest() models.CreateGradeRequest {
	return models.CreateGradeRequest{
		StudentID:     "stu-1",
		CourseID:      "c-1",
		Semester:      models.SemesterFall,
		AcademicYear:  "2023-2024",
		Grade:         "b+",
		CreditsEarned: 3,
	}
}

func TestGradeServiceCreate(t *testing.T) {
	repo := newFakeGradeRepo()
	svc := NewGradeService(repo, staticOwnership{"c-1": "t-1"}, nil, nil)

	grade, err := svc.Create(context.Background(), "t-1", validGradeRequest())
	require.NoError(t, err)
	assert.Equal(t, "B+", grade.Grade)
	assert.Contains(t, repo.grades, "g-new")
}

func TestGradeServiceCreateRequiresOwnership(t *testing.T) {
	svc := NewGradeService(newFakeGradeRepo(), staticOwnership{"c-1": "t-2"}, nil, nil)

	_, err := svc.Create(context.Background(), "t-1", validGradeRequest())
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrorCode(t, err))
}

func TestGradeServiceCreateValidation(t *testing.T) {
	svc := NewGradeService(newFakeGradeRepo(), staticOwnership{"c-1": "t-1"}, nil, nil)
	req := validGradeRequest()
	req.Semester = "Winter"

	_, err := svc.Create(context.Background(), "t-1", req)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestGradeServiceCreateDuplicate(t *testing.T) {
	repo := newFakeGradeRepo()
	repo.createErr = &pq.Error{Code: "23505"}
	svc := NewGradeService(repo, staticOwnership{"c-1": "t-1"}, nil, nil)

	_, err := svc.Create(context.Background(), "t-1", validGradeRequest())
	assert.Equal(t, appErrors.ErrConflict.Code, appErrorCode(t, err))
}

func TestGradeServiceUpdateAndDelete(t *testing.T) {
	repo := newFakeGradeRepo(&models.GradeRecord{ID: "g-1", CourseID: "c-1", StudentID: "stu-1", Grade: "B"})
	svc := NewGradeService(repo, staticOwnership{"c-1": "t-1"}, nil, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, "t-2", "g-1", models.UpdateGradeRequest{Grade: "A"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrorCode(t, err))

	grade, err := svc.Update(ctx, "t-1", "g-1", models.UpdateGradeRequest{Grade: "a-", CreditsEarned: 3, Remarks: "re-graded"})
	require.NoError(t, err)
	assert.Equal(t, "A-", grade.Grade)
	assert.Equal(t, "re-graded", repo.grades["g-1"].Remarks)

	require.NoError(t, svc.Delete(ctx, "t-1", "g-1"))
	assert.Empty(t, repo.grades)

	err = svc.Delete(ctx, "t-1", "g-1")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}

func TestGradeServiceListByCourse(t *testing.T) {
	repo := newFakeGradeRepo(&models.GradeRecord{ID: "g-1", CourseID: "c-1"}, &models.GradeRecord{ID: "g-2", CourseID: "c-2"})
	svc := NewGradeService(repo, staticOwnership{"c-1": "t-1"}, nil, nil)

	rows, err := svc.ListByCourse(context.Background(), "t-1", "c-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGradeServiceCreateMalformedStudentID(t *testing.T) {
	repo := newFakeGradeRepo()
	repo.createErr = &pq.Error{Code: "22P02"}
	svc := NewGradeService(repo, staticOwnership{"c-1": "t-1"}, nil, nil)

	_, err := svc.Create(context.Background(), "t-1", validGradeRequest())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}

type failingOwnership struct{ err error }

func (o failingOwnership) IsTaughtBy(ctx context.Context, courseID, teacherID string) (bool, error) {
	return false, o.err
}

func TestGradeServiceListMalformedCourseID(t *testing.T) {
	svc := NewGradeService(newFakeGradeRepo(), failingOwnership{err: &pq.Error{Code: "22P02"}}, nil, nil)

	_, err := svc.ListByCourse(context.Background(), "t-1", "abc")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}
