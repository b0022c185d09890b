package dto

import (
	"github.com/noah-isme/student-portal-api/internal/academic"
	"github.com/noah-isme/student-portal-api/internal/models"
)

// TranscriptLineResponse is one transcript record as rendered to clients.
type TranscriptLineResponse struct {
	CourseCode      string          `json:"course_code"`
	CourseName      string          `json:"course_name"`
	CreditsPossible float64         `json:"credits_possible"`
	Semester        models.Semester `json:"semester"`
	AcademicYear    string          `json:"academic_year"`
	Grade           string          `json:"grade"`
	CreditsEarned   float64         `json:"credits_earned"`
	Remarks         string          `json:"remarks"`
	GradePoints     *float64        `json:"grade_points"`
}

// TotalsResponse carries the rounded totals of a transcript or term.
type TotalsResponse struct {
	CreditsAttempted float64 `json:"total_credits_attempted"`
	CreditsEarned    float64 `json:"total_credits_earned"`
	GradePoints      float64 `json:"total_grade_points"`
	GPA              float64 `json:"gpa"`
}

// TermResponse is the per-term breakdown.
type TermResponse struct {
	Semester     models.Semester          `json:"semester"`
	AcademicYear string                   `json:"academic_year"`
	Totals       TotalsResponse           `json:"totals"`
	Records      []TranscriptLineResponse `json:"records"`
}

// TranscriptResponse is the GET /student/transcript payload.
type TranscriptResponse struct {
	Student models.Student           `json:"student"`
	Records []TranscriptLineResponse `json:"records"`
	Totals  TotalsResponse           `json:"totals"`
	Terms   []TermResponse           `json:"terms"`
}

// NewTranscriptResponse rounds the aggregated transcript to two decimals for display.
func NewTranscriptResponse(student models.Student, t academic.Transcript) TranscriptResponse {
	out := TranscriptResponse{
		Student: student,
		Records: lines(t.Lines),
		Totals:  totals(t.Totals),
		Terms:   make([]TermResponse, 0, len(t.Terms)),
	}
	for _, term := range t.Terms {
		out.Terms = append(out.Terms, TermResponse{
			Semester:     term.Semester,
			AcademicYear: term.AcademicYear,
			Totals:       totals(term.Totals),
			Records:      lines(term.Lines),
		})
	}
	return out
}

func totals(t academic.Totals) TotalsResponse {
	return TotalsResponse{
		CreditsAttempted: academic.Round2(t.CreditsAttempted),
		CreditsEarned:    academic.Round2(t.CreditsEarned),
		GradePoints:      academic.Round2(t.GradePoints),
		GPA:              academic.Round2(t.GPA),
	}
}

func lines(in []academic.TranscriptLine) []TranscriptLineResponse {
	out := make([]TranscriptLineResponse, 0, len(in))
	for _, l := range in {
		var points *float64
		if l.GradePoints != nil {
			p := academic.Round2(*l.GradePoints)
			points = &p
		}
		out = append(out, TranscriptLineResponse{
			CourseCode:      l.CourseCode,
			CourseName:      l.CourseName,
			CreditsPossible: l.CreditsPossible,
			Semester:        l.Semester,
			AcademicYear:    l.AcademicYear,
			Grade:           l.Grade,
			CreditsEarned:   l.CreditsEarned,
			Remarks:         l.Remarks,
			GradePoints:     points,
		})
	}
	return out
}
