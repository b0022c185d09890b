package models

import "time"

// Semester enumerates the terms of an academic year in transcript order.
type Semester string

const (
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
)

// GradeRecord is a grade entered by a teacher for a student in a course and term.
type GradeRecord struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	Semester      Semester  `db:"semester" json:"semester"`
	AcademicYear  string    `db:"academic_year" json:"academic_year"`
	Grade         string    `db:"grade" json:"grade"`
	CreditsEarned float64   `db:"credits_earned" json:"credits_earned"`
	Remarks       string    `db:"remarks" json:"remarks"`
	DateRecorded  time.Time `db:"date_recorded" json:"date_recorded"`
}

// CourseGradeRow is a grade record joined with the student's name for roster views.
type CourseGradeRow struct {
	GradeRecord
	StudentName string `db:"full_name" json:"student_name"`
}

// TranscriptRow is the store projection consumed by the transcript aggregator.
type TranscriptRow struct {
	CourseCode      string   `db:"course_code"`
	CourseName      string   `db:"course_name"`
	CreditsPossible float64  `db:"credits_possible"`
	Semester        Semester `db:"semester"`
	AcademicYear    string   `db:"academic_year"`
	Grade           string   `db:"grade"`
	CreditsEarned   float64  `db:"credits_earned"`
	Remarks         string   `db:"remarks"`
}

// CreateGradeRequest records a grade for a student in a course.
type CreateGradeRequest struct {
	StudentID     string   `json:"student_id" validate:"required"`
	CourseID      string   `json:"course_id" validate:"required"`
	Semester      Semester `json:"semester" validate:"required,oneof=Fall Spring Summer"`
	AcademicYear  string   `json:"academic_year" validate:"required,max=9"`
	Grade         string   `json:"grade" validate:"required,max=2"`
	CreditsEarned float64  `json:"credits_earned" validate:"gte=0,lte=99.9"`
	Remarks       string   `json:"remarks" validate:"omitempty,max=255"`
}

// UpdateGradeRequest edits the mutable fields of a grade record.
type UpdateGradeRequest struct {
	Grade         string  `json:"grade" validate:"required,max=2"`
	CreditsEarned float64 `json:"credits_earned" validate:"gte=0,lte=99.9"`
	Remarks       string  `json:"remarks" validate:"omitempty,max=255"`
}
