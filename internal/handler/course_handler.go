package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/response"
)

type courseService interface {
	ListOwn(ctx context.Context, teacherID string) ([]models.Course, error)
	Create(ctx context.Context, teacherID string, req models.CourseRequest) (*models.Course, error)
	Update(ctx context.Context, teacherID, courseID string, req models.CourseRequest) (*models.Course, error)
	Delete(ctx context.Context, teacherID, courseID string) error
	Roster(ctx context.Context, teacherID, courseID string) ([]models.RosterEntry, error)
	StudentCourses(ctx context.Context, teacherID, studentID string) (*models.StudentCoursesView, error)
}

// CourseHandler exposes the teacher's course management endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary Courses taught by the current teacher
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	courses, err := h.courses.ListOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Create godoc
// @Summary Create a course taught by the current teacher
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body models.CourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /teacher/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	var req models.CourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.courses.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update an owned course
// @Tags Teacher
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.CourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	var req models.CourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.courses.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete an owned course with its enrollments and grades
// @Tags Teacher
// @Param id path string true "Course ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Roster godoc
// @Summary Students enrolled in an owned course
// @Tags Teacher
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/courses/{id}/students [get]
func (h *CourseHandler) Roster(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	roster, err := h.courses.Roster(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// StudentCourses godoc
// @Summary A student's courses taught by the current teacher with a course GPA
// @Tags Teacher
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/students/{id}/courses [get]
func (h *CourseHandler) StudentCourses(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	view, err := h.courses.StudentCourses(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
