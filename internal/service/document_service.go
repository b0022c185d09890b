package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
	"github.com/noah-isme/student-portal-api/pkg/storage"
)

type documentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Document, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id, studentID string) error
}

type documentStore interface {
	Put(name string, r io.Reader, limit int64) (int64, error)
	Open(name string) (io.ReadCloser, error)
	Delete(name string) error
}

type downloadSigner interface {
	Generate(documentID, ownerID string) (string, time.Time, error)
	Parse(token string) (documentID, ownerID string, err error)
}

// DocumentServiceConfig carries upload limits and the public download route.
type DocumentServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	DownloadPath string
}

// UploadFile is the file part of a document upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// DocumentService handles student document uploads and signed downloads.
type DocumentService struct {
	repo      documentRepository
	store     documentStore
	signer    downloadSigner
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       DocumentServiceConfig
	allowed   map[string]struct{}
}

// NewDocumentService constructs DocumentService. Only PDFs are accepted when
// no MIME list is configured.
func NewDocumentService(repo documentRepository, store documentStore, signer downloadSigner, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"application/pdf"}
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/api/v1/documents/download"
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, m := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(m)] = struct{}{}
	}
	return &DocumentService{
		repo:      repo,
		store:     store,
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		allowed:   allowed,
	}
}

// List returns the student's documents, newest first.
func (s *DocumentService) List(ctx context.Context, studentID string) ([]models.Document, error) {
	docs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list documents")
	}
	return docs, nil
}

// Upload stores the file under a generated name and records its metadata.
func (s *DocumentService) Upload(ctx context.Context, studentID string, req models.UploadDocumentRequest, file UploadFile) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordUpload("rejected", 0)
		return nil, appErrors.Validation(err, "title is required")
	}
	if file.Content == nil {
		s.metrics.RecordUpload("rejected", 0)
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if file.Size > s.cfg.MaxFileSize {
		s.metrics.RecordUpload("too_large", 0)
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "file exceeds the upload limit")
	}

	content := bufio.NewReader(file.Content)
	head, _ := content.Peek(512)
	fileType, ok := s.acceptType(file.ContentType, head)
	if !ok {
		s.metrics.RecordUpload("rejected", 0)
		return nil, appErrors.Clone(appErrors.ErrValidation, "only PDF files are allowed")
	}

	stored := uuid.NewString() + strings.ToLower(filepath.Ext(file.Name))
	written, err := s.store.Put(stored, content, s.cfg.MaxFileSize)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			s.metrics.RecordUpload("too_large", 0)
			return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "file exceeds the upload limit")
		}
		s.metrics.RecordUpload("error", 0)
		return nil, appErrors.Internal(err, "failed to store document")
	}

	doc := &models.Document{
		StudentID:   studentID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		FileName:    stored,
		FileType:    fileType,
		FileSize:    written,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if rmErr := s.store.Delete(stored); rmErr != nil {
			s.logger.Warn("failed to remove orphaned document file", zap.String("file", stored), zap.Error(rmErr))
		}
		s.metrics.RecordUpload("error", 0)
		return nil, appErrors.Internal(err, "failed to save document")
	}
	s.metrics.RecordUpload("accepted", written)
	s.logger.Info("document uploaded", zap.String("document_id", doc.ID), zap.String("student_id", studentID), zap.Int64("size", written))
	return doc, nil
}

// DownloadURL issues an expiring signed link for one of the student's documents.
func (s *DocumentService) DownloadURL(ctx context.Context, studentID, documentID string) (*models.DocumentDownloadURL, error) {
	doc, err := s.ownedDocument(ctx, studentID, documentID)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(doc.ID, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign download url")
	}
	return &models.DocumentDownloadURL{
		URL:       s.cfg.DownloadPath + "?token=" + url.QueryEscape(token),
		ExpiresAt: expiresAt,
	}, nil
}

// Download resolves a signed token into the document and an open reader.
// The caller must close the reader.
func (s *DocumentService) Download(ctx context.Context, token string) (*models.Document, io.ReadCloser, error) {
	documentID, ownerID, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download link expired")
		}
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download link")
	}
	doc, err := s.ownedDocument(ctx, ownerID, documentID)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.store.Open(doc.FileName)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to open document")
	}
	return doc, reader, nil
}

// Delete removes the document row and then its stored file.
func (s *DocumentService) Delete(ctx context.Context, studentID, documentID string) error {
	doc, err := s.ownedDocument(ctx, studentID, documentID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, doc.ID, studentID); err != nil {
		return notFoundOr(err, "document not found", "failed to delete document")
	}
	if err := s.store.Delete(doc.FileName); err != nil {
		s.logger.Warn("failed to remove document file", zap.String("file", doc.FileName), zap.Error(err))
	}
	return nil
}

// ownedDocument hides documents of other students behind NOT_FOUND.
func (s *DocumentService) ownedDocument(ctx context.Context, studentID, documentID string) (*models.Document, error) {
	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		return nil, notFoundOr(err, "document not found", "failed to load document")
	}
	if doc.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
	}
	return doc, nil
}

// acceptType checks the declared type and the sniffed content against the allow list.
func (s *DocumentService) acceptType(declared string, head []byte) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return "", false
	}
	mediaType = strings.ToLower(mediaType)
	if _, ok := s.allowed[mediaType]; !ok {
		return "", false
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	if sniffed != mediaType {
		return "", false
	}
	return mediaType, true
}
