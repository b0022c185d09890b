package models

import "time"

// Enrollment links a student to a course. The (student, course) pair is unique.
type Enrollment struct {
	StudentID      string    `db:"student_id" json:"student_id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
}

// RosterEntry is a student enrolled in a course as seen by the teacher.
type RosterEntry struct {
	StudentID      string    `db:"id" json:"student_id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Email          string    `db:"email" json:"email"`
	Phone          string    `db:"phone" json:"phone"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
}

// ScheduledCourseRow is the store projection consumed by the schedule grouper.
type ScheduledCourseRow struct {
	ID         string  `db:"id"`
	CourseCode string  `db:"course_code"`
	CourseName string  `db:"course_name"`
	Schedule   *string `db:"schedule"`
}
