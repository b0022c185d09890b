package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/academic"
	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/service"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type fakeTranscriptService struct {
	lastFormat string
}

func (f *fakeTranscriptService) Transcript(ctx context.Context, studentID string) (*models.Student, academic.Transcript, error) {
	records := []academic.TranscriptRecord{
		{CourseCode: "CS101", CreditsPossible: 3, Semester: models.SemesterFall, AcademicYear: "2023-2024", Grade: "A", CreditsEarned: 3},
		{CourseCode: "CS102", CreditsPossible: 3, Semester: models.SemesterFall, AcademicYear: "2023-2024", Grade: "B+", CreditsEarned: 3},
		{CourseCode: "MA201", CreditsPossible: 3, Semester: models.SemesterSpring, AcademicYear: "2023-2024", Grade: "B", CreditsEarned: 3},
	}
	return &models.Student{ID: studentID, FullName: "Ada"}, academic.Aggregate(records), nil
}

func (f *fakeTranscriptService) Export(ctx context.Context, studentID, format string) (*service.ExportFile, error) {
	f.lastFormat = format
	if format != service.FormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	return &service.ExportFile{Filename: "transcript-" + studentID + ".csv", ContentType: "text/csv", Data: []byte("Code,Grade\n")}, nil
}

type fakeScheduleService struct{}

func (fakeScheduleService) Weekly(ctx context.Context, studentID string) (academic.WeeklySchedule, error) {
	mw := "Mon/Wed 10:00"
	return academic.GroupSchedule([]academic.ScheduledCourse{{ID: "c-1", CourseCode: "CS101", Schedule: &mw}, {ID: "c-2", CourseCode: "CS102"}}), nil
}

func TestAcademicHandlerTranscriptRoundsGPA(t *testing.T) {
	h := NewAcademicHandler(&fakeTranscriptService{}, fakeScheduleService{})
	c, rec := newGinContext(http.MethodGet, "/student/transcript", nil)
	asStudent(c, "stu-1")

	h.Transcript(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload dto.TranscriptResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
	// (4.0 + 3.3 + 3.0) * 3 / 9
	assert.Equal(t, 3.43, payload.Totals.GPA)
	assert.Len(t, payload.Records, 3)
	assert.Len(t, payload.Terms, 2)
}

func TestAcademicHandlerExportTranscript(t *testing.T) {
	svc := &fakeTranscriptService{}
	h := NewAcademicHandler(svc, fakeScheduleService{})

	c, rec := newGinContext(http.MethodGet, "/student/transcript/export", nil)
	asStudent(c, "stu-1")
	h.ExportTranscript(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", svc.lastFormat)
	assert.True(t, strings.Contains(rec.Header().Get("Content-Disposition"), "transcript-stu-1.csv"))
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	c, rec = newGinContext(http.MethodGet, "/student/transcript/export?format=xml", nil)
	asStudent(c, "stu-1")
	h.ExportTranscript(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcademicHandlerSchedule(t *testing.T) {
	h := NewAcademicHandler(&fakeTranscriptService{}, fakeScheduleService{})
	c, rec := newGinContext(http.MethodGet, "/student/schedule", nil)
	asStudent(c, "stu-1")

	h.Schedule(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload dto.ScheduleResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &payload))
	assert.Len(t, payload.ByDay["Mon"], 1)
	assert.Len(t, payload.ByDay["Wed"], 1)
	assert.Len(t, payload.Unscheduled, 1)
}
