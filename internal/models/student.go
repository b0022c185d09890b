package models

import "time"

// Gender enumerates the values accepted for a student's gender.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Student represents a learner registered in the portal.
type Student struct {
	ID               string     `db:"id" json:"id"`
	FullName         string     `db:"full_name" json:"full_name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Phone            string     `db:"phone" json:"phone"`
	Address          string     `db:"address" json:"address"`
	Course           string     `db:"course" json:"course"`
	Gender           *Gender    `db:"gender" json:"gender,omitempty"`
	BirthDate        *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	RegistrationDate time.Time  `db:"registration_date" json:"registration_date"`
}

// StudentFilter encapsulates search parameters for listing students.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

// UpdateProfileRequest carries the fields a student may edit on their own profile.
type UpdateProfileRequest struct {
	FullName  string `json:"full_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Address   string `json:"address"`
	Course    string `json:"course" validate:"omitempty,max=100"`
	Gender    string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateStudentRequest is used by teachers to provision a student account.
type CreateStudentRequest struct {
	FullName  string `json:"full_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Address   string `json:"address"`
	Course    string `json:"course" validate:"omitempty,max=100"`
	Gender    string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStudentRequest is used by teachers to edit a student record.
type UpdateStudentRequest struct {
	FullName  string `json:"full_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Address   string `json:"address"`
	Course    string `json:"course" validate:"omitempty,max=100"`
	Gender    string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// StudentDashboard summarises a student's account.
type StudentDashboard struct {
	Profile       Student `json:"profile"`
	CourseCount   int     `json:"course_count"`
	DocumentCount int     `json:"document_count"`
	GPA           float64 `json:"gpa"`
}
