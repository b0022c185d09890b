package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-portal-api/internal/models"
)

const documentColumns = "id, student_id, title, description, file_name, file_type, file_size, upload_date"

// DocumentRepository stores metadata of uploaded student documents.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs a DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ListByStudent returns a student's documents, newest first.
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Document, error) {
	docs := make([]models.Document, 0)
	query := "SELECT " + documentColumns + " FROM student_documents WHERE student_id = $1 ORDER BY upload_date DESC"
	if err := r.db.SelectContext(ctx, &docs, query, studentID); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// FindByID fetches a document by ID.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, "SELECT "+documentColumns+" FROM student_documents WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CountByStudent returns the number of documents a student uploaded.
func (r *DocumentRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM student_documents WHERE student_id = $1", studentID); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

// Create inserts document metadata.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now().UTC()
	}
	const query = `INSERT INTO student_documents (id, student_id, title, description, file_name, file_type, file_size, upload_date)
        VALUES (:id, :student_id, :title, :description, :file_name, :file_type, :file_size, :upload_date)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// Delete removes document metadata scoped to its owner.
func (r *DocumentRepository) Delete(ctx context.Context, id, studentID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM student_documents WHERE id = $1 AND student_id = $2", id, studentID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return expectAffected(res)
}
