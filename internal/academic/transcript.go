package academic

import (
	"sort"

	"github.com/noah-isme/student-portal-api/internal/models"
)

// DefaultCourseCredits is assumed by CourseGPA when a course has no credit value.
const DefaultCourseCredits = 3.0

// TranscriptRecord is one grade entry joined with its course metadata.
type TranscriptRecord struct {
	CourseCode      string          `json:"course_code"`
	CourseName      string          `json:"course_name"`
	CreditsPossible float64         `json:"credits_possible"`
	Semester        models.Semester `json:"semester"`
	AcademicYear    string          `json:"academic_year"`
	Grade           string          `json:"grade"`
	CreditsEarned   float64         `json:"credits_earned"`
	Remarks         string          `json:"remarks"`
}

// TranscriptLine is a record with its computed grade points. GradePoints is
// nil when the grade is not on the scale.
type TranscriptLine struct {
	TranscriptRecord
	GradePoints *float64 `json:"grade_points"`
}

// Totals accumulates credit and grade point sums. GPA keeps full precision.
type Totals struct {
	CreditsAttempted float64 `json:"total_credits_attempted"`
	CreditsEarned    float64 `json:"total_credits_earned"`
	GradePoints      float64 `json:"total_grade_points"`
	GPA              float64 `json:"gpa"`
}

// TermSummary groups the lines of one (semester, academic year) pair.
type TermSummary struct {
	Semester     models.Semester  `json:"semester"`
	AcademicYear string           `json:"academic_year"`
	Totals       Totals           `json:"totals"`
	Lines        []TranscriptLine `json:"records"`
}

// Transcript is the aggregated academic record of a student.
type Transcript struct {
	Lines  []TranscriptLine `json:"records"`
	Totals Totals           `json:"totals"`
	Terms  []TermSummary    `json:"terms"`
}

// add folds a record into the totals. Credits possible always count as
// attempted, even for grades outside the scale, so such grades lower the GPA.
func (t *Totals) add(rec TranscriptRecord) *float64 {
	t.CreditsAttempted += rec.CreditsPossible
	t.CreditsEarned += rec.CreditsEarned
	value, ok := GradeValue(rec.Grade)
	if !ok {
		return nil
	}
	points := value * rec.CreditsPossible
	t.GradePoints += points
	return &points
}

func (t *Totals) finish() {
	if t.CreditsAttempted > 0 {
		t.GPA = t.GradePoints / t.CreditsAttempted
		return
	}
	t.GPA = 0
}

// Aggregate computes per-record grade points, overall totals and a per-term
// breakdown. Records are taken in the given order; terms appear in the order
// they are first seen. Empty input yields zero totals.
func Aggregate(records []TranscriptRecord) Transcript {
	out := Transcript{
		Lines: make([]TranscriptLine, 0, len(records)),
		Terms: make([]TermSummary, 0),
	}
	termIndex := make(map[termKey]int)
	for _, rec := range records {
		line := TranscriptLine{TranscriptRecord: rec, GradePoints: out.Totals.add(rec)}
		out.Lines = append(out.Lines, line)

		key := termKey{semester: rec.Semester, year: rec.AcademicYear}
		idx, ok := termIndex[key]
		if !ok {
			idx = len(out.Terms)
			termIndex[key] = idx
			out.Terms = append(out.Terms, TermSummary{Semester: rec.Semester, AcademicYear: rec.AcademicYear})
		}
		term := &out.Terms[idx]
		term.Totals.add(rec)
		term.Lines = append(term.Lines, line)
	}
	out.Totals.finish()
	for i := range out.Terms {
		out.Terms[i].Totals.finish()
	}
	return out
}

type termKey struct {
	semester models.Semester
	year     string
}

func semesterRank(s models.Semester) int {
	switch s {
	case models.SemesterFall:
		return 0
	case models.SemesterSpring:
		return 1
	case models.SemesterSummer:
		return 2
	default:
		return 3
	}
}

// SortTranscript returns a copy ordered by academic year, then Fall, Spring,
// Summer, then course code.
func SortTranscript(records []TranscriptRecord) []TranscriptRecord {
	sorted := make([]TranscriptRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.AcademicYear != b.AcademicYear {
			return a.AcademicYear < b.AcademicYear
		}
		if ra, rb := semesterRank(a.Semester), semesterRank(b.Semester); ra != rb {
			return ra < rb
		}
		return a.CourseCode < b.CourseCode
	})
	return sorted
}

// GradedCourse is a course with an optional grade as shown to a teacher.
type GradedCourse struct {
	Credits *int
	Grade   *string
}

// CourseGPA averages only courses carrying a recognised grade. Courses with no
// credit value weigh DefaultCourseCredits.
func CourseGPA(courses []GradedCourse) float64 {
	var credits, points float64
	for _, c := range courses {
		if c.Grade == nil {
			continue
		}
		value, ok := GradeValue(*c.Grade)
		if !ok {
			continue
		}
		weight := DefaultCourseCredits
		if c.Credits != nil {
			weight = float64(*c.Credits)
		}
		credits += weight
		points += value * weight
	}
	if credits == 0 {
		return 0
	}
	return points / credits
}
