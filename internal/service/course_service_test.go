package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type fakeCourseRepo struct {
	courses map[string]*models.Course
	links   map[string]string
	roster  []models.RosterEntry
	graded  []models.TeacherStudentCourse
	deleted []string
	nextID  int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*models.Course{}, links: map[string]string{}}
}

func (f *fakeCourseRepo) own(course *models.Course, teacherID string) {
	f.courses[course.ID] = course
	f.links[course.ID] = teacherID
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCourseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	var out []models.Course
	for id, owner := range f.links {
		if owner == teacherID {
			out = append(out, *f.courses[id])
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) IsTaughtBy(ctx context.Context, courseID, teacherID string) (bool, error) {
	return f.links[courseID] == teacherID, nil
}

func (f *fakeCourseRepo) CreateForTeacher(ctx context.Context, course *models.Course, teacherID string) error {
	f.nextID++
	course.ID = fmt.Sprintf("course-%d", f.nextID)
	f.own(course, teacherID)
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.courses, id)
	delete(f.links, id)
	return nil
}

func (f *fakeCourseRepo) ListRoster(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	return f.roster, nil
}

func (f *fakeCourseRepo) ListStudentCoursesForTeacher(ctx context.Context, teacherID, studentID string) ([]models.TeacherStudentCourse, error) {
	return f.graded, nil
}

func intPtr(v int) *int { return &v }

func newTestCourseService(repo *fakeCourseRepo, invalidator dashboardInvalidator) *CourseService {
	teachers := &fakeAuthTeacherRepo{teacher: &models.Teacher{ID: "t-1", FullName: "Grace Hopper"}}
	students := newFakeStudentRepo(&models.Student{ID: "stu-1", FullName: "Ada"})
	return NewCourseService(repo, teachers, students, invalidator, nil, nil)
}

func TestCourseServiceCreateUsesTeacherName(t *testing.T) {
	repo := newFakeCourseRepo()
	invalidator := &countingInvalidator{}
	svc := newTestCourseService(repo, invalidator)

	course, err := svc.Create(context.Background(), "t-1", models.CourseRequest{CourseCode: " CS101 ", CourseName: "Algorithms", Credits: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", course.Instructor)
	assert.Equal(t, "CS101", course.CourseCode)
	assert.Equal(t, "t-1", repo.links[course.ID])
	assert.Equal(t, []string{"t-1"}, invalidator.teachers)
}

func TestCourseServiceCreateValidation(t *testing.T) {
	svc := newTestCourseService(newFakeCourseRepo(), nil)

	_, err := svc.Create(context.Background(), "t-1", models.CourseRequest{CourseCode: "CS101", CourseName: "Algorithms", Credits: intPtr(11)})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))

	_, err = svc.Create(context.Background(), "t-1", models.CourseRequest{CourseName: "Algorithms"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestCourseServiceOwnershipEnforced(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.own(&models.Course{ID: "c-1", CourseCode: "CS101", CourseName: "Algorithms"}, "t-2")
	svc := newTestCourseService(repo, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, "t-1", "c-1", models.CourseRequest{CourseCode: "CS101", CourseName: "Renamed"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrorCode(t, err))

	err = svc.Delete(ctx, "t-1", "c-1")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrorCode(t, err))
	assert.Empty(t, repo.deleted)

	_, err = svc.Roster(ctx, "t-1", "c-1")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrorCode(t, err))
}

func TestCourseServiceUpdateAndDelete(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.own(&models.Course{ID: "c-1", CourseCode: "CS101", CourseName: "Algorithms", Instructor: "Grace Hopper"}, "t-1")
	invalidator := &countingInvalidator{}
	svc := newTestCourseService(repo, invalidator)
	ctx := context.Background()

	schedule := "Mon/Wed 10:00"
	course, err := svc.Update(ctx, "t-1", "c-1", models.CourseRequest{CourseCode: "CS101", CourseName: "Advanced Algorithms", Schedule: &schedule})
	require.NoError(t, err)
	assert.Equal(t, "Advanced Algorithms", course.CourseName)
	assert.Equal(t, "Grace Hopper", course.Instructor)
	require.NotNil(t, course.Schedule)

	require.NoError(t, svc.Delete(ctx, "t-1", "c-1"))
	assert.Equal(t, []string{"c-1"}, repo.deleted)
	assert.Equal(t, 1, invalidator.all)
}

func TestCourseServiceStudentCoursesGPA(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.graded = []models.TeacherStudentCourse{
		{CourseID: "c-1", CourseCode: "CS101", Credits: intPtr(4), Grade: strPtr("A")},
		{CourseID: "c-2", CourseCode: "CS102", Grade: strPtr("C")},
		{CourseID: "c-3", CourseCode: "CS103", Credits: intPtr(3)},
		{CourseID: "c-4", CourseCode: "CS104", Credits: intPtr(3), Grade: strPtr("I")},
	}
	svc := newTestCourseService(repo, nil)

	view, err := svc.StudentCourses(context.Background(), "t-1", "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.Student.FullName)
	assert.Len(t, view.Courses, 4)
	// (4.0*4 + 2.0*3) / 7
	assert.Equal(t, 3.14, view.GPA)
}

func TestCourseServiceStudentCoursesUnknownStudent(t *testing.T) {
	svc := newTestCourseService(newFakeCourseRepo(), nil)

	_, err := svc.StudentCourses(context.Background(), "t-1", "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}
