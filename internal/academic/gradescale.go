// Package academic holds the pure academic-record computations: grade scale
// lookups, transcript aggregation and weekly schedule grouping. Nothing in
// this package performs I/O or keeps state between calls.
package academic

import "math"

var gradeScale = map[string]float64{
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"F":  0.0,
}

// LetterGrades lists the recognised letter grades from highest to lowest.
var LetterGrades = []string{"A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "F"}

// GradeValue returns the grade points for a letter grade. The second return
// value is false for grades outside the scale (for example "I" or "W"), which
// carry no grade points.
func GradeValue(grade string) (float64, bool) {
	v, ok := gradeScale[grade]
	return v, ok
}

// IsRecognizedGrade reports whether grade is one of the eleven scale entries.
func IsRecognizedGrade(grade string) bool {
	_, ok := gradeScale[grade]
	return ok
}

// Round2 rounds to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
