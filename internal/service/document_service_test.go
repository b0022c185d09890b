package service

import (
	"context"
	"database/sql"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
	"github.com/noah-isme/student-portal-api/pkg/storage"
)

type fakeDocumentRepo struct {
	docs map[string]*models.Document
}

func (f *fakeDocumentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Document, error) {
	var out []models.Document
	for _, d := range f.docs {
		if d.StudentID == studentID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) FindByID(ctx context.Context, id string) (*models.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	doc.ID = "doc-1"
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id, studentID string) error {
	delete(f.docs, id)
	return nil
}

const samplePDF = "%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"

func newTestDocumentService(t *testing.T, maxSize int64) (*DocumentService, *fakeDocumentRepo, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := &fakeDocumentRepo{docs: map[string]*models.Document{}}
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	svc := NewDocumentService(repo, store, signer, NewMetricsService(), nil, nil, DocumentServiceConfig{
		MaxFileSize:  maxSize,
		DownloadPath: "/api/v1/documents/download",
	})
	return svc, repo, store
}

func pdfUpload(body string) UploadFile {
	return UploadFile{Name: "Transcript.PDF", ContentType: "application/pdf", Size: int64(len(body)), Content: strings.NewReader(body)}
}

func TestDocumentServiceUploadAndDownload(t *testing.T) {
	svc, repo, _ := newTestDocumentService(t, 1024)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "stu-1", models.UploadDocumentRequest{Title: " Transcript "}, pdfUpload(samplePDF))
	require.NoError(t, err)
	assert.Equal(t, "Transcript", doc.Title)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.EqualValues(t, len(samplePDF), doc.FileSize)
	assert.True(t, strings.HasSuffix(doc.FileName, ".pdf"))
	assert.Contains(t, repo.docs, "doc-1")

	link, err := svc.DownloadURL(ctx, "stu-1", doc.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link.URL, "/api/v1/documents/download?token="))
	parsed, err := url.Parse(link.URL)
	require.NoError(t, err)

	got, reader, err := svc.Download(ctx, parsed.Query().Get("token"))
	require.NoError(t, err)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, samplePDF, string(body))
}

func TestDocumentServiceUploadRejectsNonPDF(t *testing.T) {
	svc, repo, _ := newTestDocumentService(t, 1024)
	ctx := context.Background()

	file := UploadFile{Name: "notes.txt", ContentType: "text/plain", Size: 5, Content: strings.NewReader("hello")}
	_, err := svc.Upload(ctx, "stu-1", models.UploadDocumentRequest{Title: "Notes"}, file)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))

	disguised := UploadFile{Name: "notes.pdf", ContentType: "application/pdf", Size: 5, Content: strings.NewReader("hello")}
	_, err = svc.Upload(ctx, "stu-1", models.UploadDocumentRequest{Title: "Notes"}, disguised)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
	assert.Empty(t, repo.docs)
}

func TestDocumentServiceUploadRequiresTitle(t *testing.T) {
	svc, _, _ := newTestDocumentService(t, 1024)

	_, err := svc.Upload(context.Background(), "stu-1", models.UploadDocumentRequest{}, pdfUpload(samplePDF))
	assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
}

func TestDocumentServiceUploadTooLarge(t *testing.T) {
	svc, repo, _ := newTestDocumentService(t, 16)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "stu-1", models.UploadDocumentRequest{Title: "Big"}, pdfUpload(samplePDF))
	assert.Equal(t, appErrors.ErrPayloadTooLarge.Code, appErrorCode(t, err))

	// Declared size lies; the stream is still capped.
	file := pdfUpload(samplePDF)
	file.Size = 1
	_, err = svc.Upload(ctx, "stu-1", models.UploadDocumentRequest{Title: "Big"}, file)
	assert.Equal(t, appErrors.ErrPayloadTooLarge.Code, appErrorCode(t, err))
	assert.Empty(t, repo.docs)
}

func TestDocumentServiceForeignDocumentHidden(t *testing.T) {
	svc, _, _ := newTestDocumentService(t, 1024)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "stu-1", models.UploadDocumentRequest{Title: "Mine"}, pdfUpload(samplePDF))
	require.NoError(t, err)

	_, err = svc.DownloadURL(ctx, "stu-2", doc.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
	err = svc.Delete(ctx, "stu-2", doc.ID)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))
}

func TestDocumentServiceDownloadRejectsBadToken(t *testing.T) {
	svc, _, _ := newTestDocumentService(t, 1024)

	_, _, err := svc.Download(context.Background(), "garbage")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorCode(t, err))
}

func TestDocumentServiceDeleteRemovesFile(t *testing.T) {
	svc, repo, store := newTestDocumentService(t, 1024)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "stu-1", models.UploadDocumentRequest{Title: "Mine"}, pdfUpload(samplePDF))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "stu-1", doc.ID))
	assert.Empty(t, repo.docs)
	_, err = store.Open(doc.FileName)
	assert.Error(t, err)
}
