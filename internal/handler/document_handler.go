package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/service"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
	"github.com/noah-isme/student-portal-api/pkg/response"
)

type documentService interface {
	List(ctx context.Context, studentID string) ([]models.Document, error)
	Upload(ctx context.Context, studentID string, req models.UploadDocumentRequest, file service.UploadFile) (*models.Document, error)
	DownloadURL(ctx context.Context, studentID, documentID string) (*models.DocumentDownloadURL, error)
	Download(ctx context.Context, token string) (*models.Document, io.ReadCloser, error)
	Delete(ctx context.Context, studentID, documentID string) error
}

// DocumentHandler exposes student document storage.
type DocumentHandler struct {
	documents documentService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents documentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// List godoc
// @Summary The student's documents, newest first
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	docs, err := h.documents.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// Upload godoc
// @Summary Upload a PDF document
// @Tags Student
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param file formData file true "PDF file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /student/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	var req models.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid upload form"))
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Validation(err, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	defer file.Close()

	doc, err := h.documents.Upload(c.Request.Context(), claims.UserID, req, service.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// DownloadURL godoc
// @Summary Signed, expiring download link for a document
// @Tags Student
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /student/documents/{id}/download-url [get]
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	link, err := h.documents.DownloadURL(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Download a document through a signed token
// @Tags Documents
// @Produce application/pdf
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /documents/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, reader, err := h.documents.Download(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, doc.FileSize, doc.FileType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.FileName),
	})
}

// Delete godoc
// @Summary Delete a document and its stored file
// @Tags Student
// @Param id path string true "Document ID"
// @Success 204 {object} response.Envelope
// @Router /student/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	claims, ok := principal(c)
	if !ok {
		return
	}
	if err := h.documents.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
