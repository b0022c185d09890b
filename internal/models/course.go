package models

import "time"

// Course is a catalog entry students can enroll into.
type Course struct {
	ID          string    `db:"id" json:"id"`
	CourseCode  string    `db:"course_code" json:"course_code"`
	CourseName  string    `db:"course_name" json:"course_name"`
	Instructor  string    `db:"instructor" json:"instructor"`
	Schedule    *string   `db:"schedule" json:"schedule,omitempty"`
	Credits     *int      `db:"credits" json:"credits,omitempty"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CreditsOrZero returns the course credits treating an absent value as zero.
func (c Course) CreditsOrZero() int {
	if c.Credits == nil {
		return 0
	}
	return *c.Credits
}

// CatalogCourse flags whether the requesting student is enrolled in the course.
type CatalogCourse struct {
	Course
	Enrolled bool `db:"enrolled" json:"enrolled"`
}

// TeacherStudentCourse is a course taught by a teacher joined with a student's grade.
type TeacherStudentCourse struct {
	CourseID   string  `db:"id" json:"course_id"`
	CourseCode string  `db:"course_code" json:"course_code"`
	CourseName string  `db:"course_name" json:"course_name"`
	Credits    *int    `db:"credits" json:"credits,omitempty"`
	Grade      *string `db:"grade" json:"grade,omitempty"`
}

// CourseRequest is the teacher payload for creating or editing a course.
type CourseRequest struct {
	CourseCode  string  `json:"course_code" validate:"required,max=20"`
	CourseName  string  `json:"course_name" validate:"required,max=100"`
	Schedule    *string `json:"schedule" validate:"omitempty,max=100"`
	Credits     *int    `json:"credits" validate:"omitempty,min=0,max=10"`
	Description string  `json:"description"`
}

// StudentCoursesView lists a student's courses taught by one teacher with a course GPA.
type StudentCoursesView struct {
	Student Student                `json:"student"`
	Courses []TeacherStudentCourse `json:"courses"`
	GPA     float64                `json:"gpa"`
}
