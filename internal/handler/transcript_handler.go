package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-portal-api/internal/academic"
	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/pkg/response"
)

type transcriptService interface {
	Transcript(ctx context.Context, studentID string) (*models.Student, academic.Transcript, error)
	Export(ctx context.Context, studentID, format string) (*service.ExportFile, error)
}

type scheduleService interface {
	Weekly(ctx context.Context, studentID string) (academic.WeeklySchedule, error)
}

// AcademicHandler serves the student's transcript and weekly schedule.
type AcademicHandler struct {
	transcripts transcriptService
	schedules   scheduleService
}

// NewAcademicHandler constructs AcademicHandler.
func NewAcademicHandler(transcripts transcriptService, schedules scheduleService) *AcademicHandler {
	return &AcademicHandler{transcripts: transcripts, schedules: schedules}
}

// Transcript godoc
// @Summary Transcript with totals, GPA and per-term breakdown
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/transcript [get]
func (h *AcademicHandler) Transcript(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	student, transcript, err := h.transcripts.Transcript(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTranscriptResponse(*student, transcript), nil)
}

// ExportTranscript godoc
// @Summary Download the transcript as CSV or PDF
// @Tags Student
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /student/transcript/export [get]
func (h *AcademicHandler) ExportTranscript(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	format := strings.TrimSpace(c.DefaultQuery("format", service.FormatCSV))
	file, err := h.transcripts.Export(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Schedule godoc
// @Summary Weekly schedule of enrolled courses grouped by day
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/schedule [get]
func (h *AcademicHandler) Schedule(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	schedule, err := h.schedules.Weekly(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewScheduleResponse(schedule), nil)
}
