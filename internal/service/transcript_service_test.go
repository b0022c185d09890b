package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type fakeTranscriptRepo struct {
	rows []models.TranscriptRow
	err  error
}

func (f *fakeTranscriptRepo) ListTranscript(ctx context.Context, studentID string) ([]models.TranscriptRow, error) {
	return f.rows, f.err
}

func sampleTranscriptRows() []models.TranscriptRow {
	return []models.TranscriptRow{
		{CourseCode: "CS101", CourseName: "Algorithms", CreditsPossible: 3, Semester: models.SemesterFall, AcademicYear: "2023-2024", Grade: "A", CreditsEarned: 3},
		{CourseCode: "CS102", CourseName: "Databases", CreditsPossible: 3, Semester: models.SemesterFall, AcademicYear: "2023-2024", Grade: "B", CreditsEarned: 3},
		{CourseCode: "MA201", CourseName: "Calculus", CreditsPossible: 4, Semester: models.SemesterSpring, AcademicYear: "2023-2024", Grade: "C", CreditsEarned: 4},
	}
}

func TestTranscriptServiceSummary(t *testing.T) {
	svc := NewTranscriptService(&fakeTranscriptRepo{rows: sampleTranscriptRows()}, newFakeStudentRepo(), nil, nil, nil, nil)

	transcript, err := svc.Summary(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, transcript.Totals.CreditsAttempted)
	assert.InDelta(t, 2.9, transcript.Totals.GPA, 1e-9)
	require.Len(t, transcript.Terms, 2)
	assert.InDelta(t, 3.5, transcript.Terms[0].Totals.GPA, 1e-9)
}

func TestTranscriptServiceSummaryStoreError(t *testing.T) {
	svc := NewTranscriptService(&fakeTranscriptRepo{err: errors.New("db down")}, newFakeStudentRepo(), nil, nil, nil, nil)

	_, err := svc.Summary(context.Background(), "stu-1")
	assert.Equal(t, appErrors.ErrInternal.Code, appErrorCode(t, err))
}

func TestTranscriptServiceExportCSV(t *testing.T) {
	students := newFakeStudentRepo(&models.Student{ID: "stu-1", FullName: "Ada"})
	svc := NewTranscriptService(&fakeTranscriptRepo{rows: sampleTranscriptRows()}, students, nil, nil, NewMetricsService(), nil)

	file, err := svc.Export(context.Background(), "stu-1", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "transcript-stu-1.csv", file.Filename)
	body := string(file.Data)
	assert.True(t, strings.HasPrefix(body, "Academic Year,Semester,Course Code"))
	assert.Contains(t, body, "2023-2024,Fall,CS101,Algorithms,3.00,A,3.00,12.00,")
	assert.Contains(t, body, "Cumulative GPA,2.90")
}

func TestTranscriptServiceExportPDF(t *testing.T) {
	students := newFakeStudentRepo(&models.Student{ID: "stu-1", FullName: "Ada"})
	svc := NewTranscriptService(&fakeTranscriptRepo{}, students, nil, nil, nil, nil)

	file, err := svc.Export(context.Background(), "stu-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF-"))
}

func TestTranscriptServiceExportRejectsFormat(t *testing.T) {
	svc := NewTranscriptService(&fakeTranscriptRepo{}, newFakeStudentRepo(), nil, nil, nil, nil)

	_, err := svc.Export(context.Background(), "stu-1", "xlsx")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}
