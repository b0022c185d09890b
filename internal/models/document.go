package models

import "time"

// Document is a file uploaded by a student.
type Document struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	FileName    string    `db:"file_name" json:"file_name"`
	FileType    string    `db:"file_type" json:"file_type"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	UploadDate  time.Time `db:"upload_date" json:"upload_date"`
}

// UploadDocumentRequest carries the form fields of a document upload.
type UploadDocumentRequest struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description"`
}

// DocumentDownloadURL is a signed, expiring link to a stored document.
type DocumentDownloadURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
