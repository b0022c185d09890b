package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/response"
)

type enrollmentService interface {
	Catalog(ctx context.Context, studentID string) ([]models.CatalogCourse, error)
	ListEnrolled(ctx context.Context, studentID string) ([]models.Course, error)
	Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	Withdraw(ctx context.Context, studentID, courseID string) error
}

// EnrollmentHandler exposes the course catalog and the student's enrollments.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Catalog godoc
// @Summary Course catalog flagged with the caller's enrollment state
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *EnrollmentHandler) Catalog(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	courses, err := h.enrollments.Catalog(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// List godoc
// @Summary Courses the student is enrolled in
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/courses [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	courses, err := h.enrollments.ListEnrolled(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags Student
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/courses/{courseId} [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), claims.UserID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Withdraw godoc
// @Summary Withdraw from a course
// @Tags Student
// @Param courseId path string true "Course ID"
// @Success 204 {object} response.Envelope
// @Router /student/courses/{courseId} [delete]
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	if err := h.enrollments.Withdraw(c.Request.Context(), claims.UserID, c.Param("courseId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
