package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/response"
)

type gradeService interface {
	ListByCourse(ctx context.Context, teacherID, courseID string) ([]models.CourseGradeRow, error)
	Create(ctx context.Context, teacherID string, req models.CreateGradeRequest) (*models.GradeRecord, error)
	Update(ctx context.Context, teacherID, gradeID string, req models.UpdateGradeRequest) (*models.GradeRecord, error)
	Delete(ctx context.Context, teacherID, gradeID string) error
}

// GradeHandler exposes grade entry for teachers.
type GradeHandler struct {
	grades gradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades gradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// ListByCourse godoc
// @Summary Grades recorded in an owned course
// @Tags Teacher
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/courses/{id}/grades [get]
func (h *GradeHandler) ListByCourse(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.grades.ListByCourse(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Create godoc
// @Summary Record a grade
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body models.CreateGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	var req models.CreateGradeRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	grade, err := h.grades.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// Update godoc
// @Summary Edit a grade
// @Tags Teacher
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param payload body models.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /teacher/grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	var req models.UpdateGradeRequest
	if !bindJSON(c, &req, "invalid grade payload") {
		return
	}
	grade, err := h.grades.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete a grade
// @Tags Teacher
// @Param id path string true "Grade ID"
// @Success 204 {object} response.Envelope
// @Router /teacher/grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	if err := h.grades.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
