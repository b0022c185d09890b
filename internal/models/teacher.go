package models

import "time"

// Teacher represents an instructor account. Teachers are provisioned out of band.
type Teacher struct {
	ID           string     `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"full_name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	ResetToken   *string    `db:"reset_token" json:"-"`
	ResetExpires *time.Time `db:"reset_expires" json:"-"`
}

// TeacherDashboard summarises a teacher's workload.
type TeacherDashboard struct {
	TeacherID    string `db:"-" json:"teacher_id"`
	CourseCount  int    `db:"course_count" json:"course_count"`
	StudentCount int    `db:"student_count" json:"student_count"`
}
