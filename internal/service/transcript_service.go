package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/academic"
	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
	"github.com/noah-isme/student-portal-api/pkg/export"
)

// Transcript export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type transcriptRepository interface {
	ListTranscript(ctx context.Context, studentID string) ([]models.TranscriptRow, error)
}

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered transcript ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TranscriptService loads grade records and runs them through the aggregator.
type TranscriptService struct {
	grades   transcriptRepository
	students studentLookup
	csv      datasetRenderer
	pdf      datasetRenderer
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewTranscriptService constructs a TranscriptService. Nil renderers default to the pkg/export implementations.
func NewTranscriptService(grades transcriptRepository, students studentLookup, csv, pdf datasetRenderer, metrics *MetricsService, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TranscriptService{grades: grades, students: students, csv: csv, pdf: pdf, metrics: metrics, logger: logger}
}

// Summary aggregates a student's full grade history.
func (s *TranscriptService) Summary(ctx context.Context, studentID string) (academic.Transcript, error) {
	rows, err := s.grades.ListTranscript(ctx, studentID)
	if err != nil {
		return academic.Transcript{}, appErrors.Internal(err, "failed to load transcript")
	}
	return academic.Aggregate(toTranscriptRecords(rows)), nil
}

// Transcript returns the student with their aggregated transcript.
func (s *TranscriptService) Transcript(ctx context.Context, studentID string) (*models.Student, academic.Transcript, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, academic.Transcript{}, notFoundOr(err, "student not found", "failed to load student")
	}
	transcript, err := s.Summary(ctx, studentID)
	if err != nil {
		return nil, academic.Transcript{}, err
	}
	s.metrics.RecordTranscript("json")
	return student, transcript, nil
}

// Export renders the transcript as CSV or PDF.
func (s *TranscriptService) Export(ctx context.Context, studentID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	var (
		renderer    datasetRenderer
		contentType string
	)
	switch format {
	case FormatCSV:
		renderer, contentType = s.csv, "text/csv"
	case FormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	student, transcript, err := s.Transcript(ctx, studentID)
	if err != nil {
		return nil, err
	}
	data, err := renderer.Render(transcriptDataset(student, transcript))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render transcript")
	}
	s.metrics.RecordTranscript(format)
	s.logger.Debug("transcript exported", zap.String("student_id", studentID), zap.String("format", format), zap.Int("bytes", len(data)))
	return &ExportFile{
		Filename:    fmt.Sprintf("transcript-%s.%s", studentID, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// toTranscriptRecords converts store rows into aggregator input.
func toTranscriptRecords(rows []models.TranscriptRow) []academic.TranscriptRecord {
	records := make([]academic.TranscriptRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, academic.TranscriptRecord{
			CourseCode:      r.CourseCode,
			CourseName:      r.CourseName,
			CreditsPossible: r.CreditsPossible,
			Semester:        r.Semester,
			AcademicYear:    r.AcademicYear,
			Grade:           strings.TrimSpace(r.Grade),
			CreditsEarned:   r.CreditsEarned,
			Remarks:         r.Remarks,
		})
	}
	return records
}

var transcriptHeaders = []string{"Academic Year", "Semester", "Course Code", "Course Name", "Credits", "Grade", "Credits Earned", "Grade Points", "Remarks"}

func transcriptDataset(student *models.Student, t academic.Transcript) export.Dataset {
	rows := make([]map[string]string, 0, len(t.Lines))
	for _, line := range t.Lines {
		points := "-"
		if line.GradePoints != nil {
			points = formatDecimal(*line.GradePoints)
		}
		rows = append(rows, map[string]string{
			"Academic Year":  line.AcademicYear,
			"Semester":       string(line.Semester),
			"Course Code":    line.CourseCode,
			"Course Name":    line.CourseName,
			"Credits":        formatDecimal(line.CreditsPossible),
			"Grade":          line.Grade,
			"Credits Earned": formatDecimal(line.CreditsEarned),
			"Grade Points":   points,
			"Remarks":        line.Remarks,
		})
	}
	return export.Dataset{
		Title:   "Academic Transcript - " + student.FullName,
		Headers: transcriptHeaders,
		Rows:    rows,
		Summary: []export.SummaryLine{
			{Label: "Total Credits Attempted", Value: formatDecimal(t.Totals.CreditsAttempted)},
			{Label: "Total Credits Earned", Value: formatDecimal(t.Totals.CreditsEarned)},
			{Label: "Cumulative GPA", Value: formatDecimal(t.Totals.GPA)},
		},
	}
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(academic.Round2(v), 'f', 2, 64)
}
